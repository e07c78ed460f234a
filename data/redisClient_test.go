package data

import (
	"context"
	"net"
	"strconv"
	"testing"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/alicebob/miniredis/v2"
)

func redisConfig(t *testing.T, addr string) *config.Config {
	t.Helper()
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		t.Fatal(err)
	}
	cfg := &config.Config{}
	cfg.Redis.Host = host
	cfg.Redis.Port, err = strconv.Atoi(port)
	if err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(context.Background(), redisConfig(t, mr.Addr()))
	if err != nil {
		t.Fatalf("NewRedisClient() error = %v", err)
	}
	defer rdb.Close()

	if err := rdb.Set(context.Background(), "k", "v", 0).Err(); err != nil {
		t.Fatal(err)
	}
	if got, _ := mr.Get("k"); got != "v" {
		t.Errorf("stored %q, want v", got)
	}
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := redisConfig(t, mr.Addr())
	mr.Close()

	if _, err := NewRedisClient(context.Background(), cfg); err == nil {
		t.Fatal("NewRedisClient() error = nil for a stopped server")
	}
}
