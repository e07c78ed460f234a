package quoteService

import (
	"context"
	"fmt"
	"log/slog"
	"maps"

	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

type QuoteGateway interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Cache interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
	SetQuotes(ctx context.Context, quotes map[string]decimal.Decimal) error
}

// QuoteService fronts the quote gateway. Live reads always reach the provider,
// cached reads are for display only.
type QuoteService struct {
	gateway QuoteGateway
	cache   Cache
}

func New(gateway QuoteGateway, cache Cache) *QuoteService {
	return &QuoteService{gateway: gateway, cache: cache}
}

// GetLiveQuotes queries the provider once for the distinct symbols.
// Any provider failure, timeouts included, is reported as service.ErrQuoteUnavailable.
func (s *QuoteService) GetLiveQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "QuoteService.GetLiveQuotes"

	symbols = service.NormalizeSymbols(symbols)
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	quotes, err := s.gateway.GetQuotes(ctx, symbols)
	if err != nil {
		slog.Error("got error from gateway.GetQuotes", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("%w: %w", service.ErrQuoteUnavailable, err)
	}

	if s.cache != nil && len(quotes) > 0 {
		go s.warmCache(context.WithoutCancel(ctx), maps.Clone(quotes))
	}

	return quotes, nil
}

// GetLiveQuote returns the current price of one symbol.
func (s *QuoteService) GetLiveQuote(ctx context.Context, symbol string) (decimal.Decimal, error) {
	symbol = service.NormalizeSymbol(symbol)
	if symbol == "" {
		return decimal.Decimal{}, service.ErrInvalidSymbol
	}

	quotes, err := s.GetLiveQuotes(ctx, []string{symbol})
	if err != nil {
		return decimal.Decimal{}, err
	}

	price, ok := quotes[symbol]
	if !ok {
		return decimal.Decimal{}, fmt.Errorf("%w: no price for %s", service.ErrQuoteUnavailable, symbol)
	}

	return price, nil
}

// GetQuotes serves prices from cache and fetches only the misses.
func (s *QuoteService) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "QuoteService.GetQuotes"

	symbols = service.NormalizeSymbols(symbols)
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	if s.cache == nil {
		return s.GetLiveQuotes(ctx, symbols)
	}

	cached, err := s.cache.GetQuotes(ctx, symbols)
	if err != nil {
		slog.Warn("can't get quotes from cache", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		cached = map[string]decimal.Decimal{}
	}

	missing := make([]string, 0, len(symbols))
	for _, symbol := range symbols {
		if _, ok := cached[symbol]; !ok {
			missing = append(missing, symbol)
		}
	}

	if len(missing) == 0 {
		return cached, nil
	}

	fresh, err := s.GetLiveQuotes(ctx, missing)
	if err != nil {
		return nil, err
	}

	res := make(map[string]decimal.Decimal, len(cached)+len(fresh))
	maps.Copy(res, cached)
	maps.Copy(res, fresh)

	return res, nil
}

func (s *QuoteService) warmCache(ctx context.Context, quotes map[string]decimal.Decimal) {
	if err := s.cache.SetQuotes(ctx, quotes); err != nil {
		slog.Warn(
			"can't save quotes to cache",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("op", "QuoteService.warmCache"),
			slog.String("err", err.Error()),
		)
	}
}
