package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedisCache(client, time.Minute), mr
}

func TestRedisCache_SetAndGetQuotes(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	err := c.SetQuotes(ctx, map[string]decimal.Decimal{
		"AAPL": decimal.RequireFromString("150.25"),
		"MSFT": decimal.RequireFromString("320"),
	})
	if err != nil {
		t.Fatalf("SetQuotes() error = %v", err)
	}

	got, err := c.GetQuotes(ctx, []string{"AAPL", "GOOG", "MSFT"})
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("GetQuotes() = %v, want 2 hits", got)
	}
	if !got["AAPL"].Equal(decimal.RequireFromString("150.25")) {
		t.Errorf("AAPL = %s, want 150.25", got["AAPL"])
	}
	if _, ok := got["GOOG"]; ok {
		t.Error("GOOG should be a cache miss")
	}
}

func TestRedisCache_QuotesExpire(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	if err := c.SetQuotes(ctx, map[string]decimal.Decimal{"AAPL": decimal.NewFromInt(1)}); err != nil {
		t.Fatalf("SetQuotes() error = %v", err)
	}

	mr.FastForward(2 * time.Minute)

	got, err := c.GetQuotes(ctx, []string{"AAPL"})
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetQuotes() = %v, want expired", got)
	}
}

func TestRedisCache_GetQuotesSkipsGarbage(t *testing.T) {
	c, mr := newTestCache(t)

	if err := mr.Set("quote:AAPL", "not-a-number"); err != nil {
		t.Fatal(err)
	}

	got, err := c.GetQuotes(context.Background(), []string{"AAPL"})
	if err != nil {
		t.Fatalf("GetQuotes() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("GetQuotes() = %v, want empty", got)
	}
}
