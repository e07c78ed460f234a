package data

import (
	"context"
	"testing"
)

func TestConnectPostgres_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// nothing listens on port 1; the cancelled ctx ends the retry loop after one attempt
	if _, err := connectPostgres(ctx, "host=127.0.0.1 port=1 user=u dbname=d sslmode=disable", 5); err == nil {
		t.Fatal("connectPostgres() error = nil, want cancellation")
	}
}
