package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

type RedisCache struct {
	redis            *redis.Client
	quotesExpiration time.Duration
}

func NewRedisCache(redisClient *redis.Client, quotesExpiration time.Duration) *RedisCache {
	return &RedisCache{redis: redisClient, quotesExpiration: quotesExpiration}
}

func quoteKey(symbol string) string {
	return "quote:" + symbol
}

func (r *RedisCache) SetQuotes(ctx context.Context, quotes map[string]decimal.Decimal) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("SetQuotes start", slog.String("rqID", rqID), slog.Int("count", len(quotes)))

	if len(quotes) == 0 {
		return nil
	}

	pipe := r.redis.Pipeline()
	for symbol, price := range quotes {
		pipe.Set(ctx, quoteKey(symbol), price.String(), r.quotesExpiration)
	}

	_, err := pipe.Exec(ctx)
	if err != nil {
		slog.Error("failed on pipe.Exec", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return err
	}

	slog.Debug("SetQuotes completed", slog.String("rqID", rqID))

	return nil
}

// GetQuotes returns cached prices. Symbols without a cached price are omitted from the result.
func (r *RedisCache) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	slog.Debug("GetQuotes start", slog.String("rqID", rqID), slog.Any("symbols", symbols))

	res := make(map[string]decimal.Decimal, len(symbols))
	if len(symbols) == 0 {
		return res, nil
	}

	keys := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		keys = append(keys, quoteKey(symbol))
	}

	values, err := r.redis.MGet(ctx, keys...).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		slog.Error("failed on redis.MGet", slog.String("rqID", rqID), slog.String("err", err.Error()))
		return nil, err
	}

	for i, value := range values {
		raw, ok := value.(string)
		if !ok {
			continue
		}

		price, err := decimal.NewFromString(raw)
		if err != nil {
			slog.Warn("can't parse cached quote", slog.String("rqID", rqID), slog.String("key", keys[i]), slog.String("value", raw))
			continue
		}

		res[symbols[i]] = price
	}

	slog.Debug("GetQuotes completed", slog.String("rqID", rqID), slog.Int("hits", len(res)))

	return res, nil
}
