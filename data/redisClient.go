package data

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"strconv"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/redis/go-redis/v9"
)

// NewRedisClient returns a client that answered a PING.
func NewRedisClient(ctx context.Context, cfg *config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     net.JoinHostPort(cfg.Redis.Host, strconv.Itoa(cfg.Redis.Port)),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", rdb.Options().Addr, err)
	}
	slog.Info("Redis connected", slog.String("addr", rdb.Options().Addr))

	return rdb, nil
}
