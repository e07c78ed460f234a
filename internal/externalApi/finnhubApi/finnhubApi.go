package finnhubApi

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/internal/externalApi"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

const tokenHeader = "X-Finnhub-Token"

// quoteResponse is the body of GET /quote. Unknown symbols come back with all fields zero.
type quoteResponse struct {
	Current       decimal.Decimal `json:"c"`
	Change        decimal.Decimal `json:"d"`
	PercentChange decimal.Decimal `json:"dp"`
	High          decimal.Decimal `json:"h"`
	Low           decimal.Decimal `json:"l"`
	Open          decimal.Decimal `json:"o"`
	PrevClose     decimal.Decimal `json:"pc"`
	Timestamp     int64           `json:"t"`
}

type FinnhubApi struct {
	client         *resty.Client
	maxConcurrency int
	inflight       singleflight.Group
}

func New(cfg *config.Config) *FinnhubApi {
	client := resty.New().
		SetDebug(cfg.API.Debug).
		SetTimeout(cfg.API.Timeout).
		SetBaseURL(cfg.API.FinnhubApi.Url).
		SetHeader(tokenHeader, cfg.API.FinnhubApi.Token)

	maxConcurrency := cfg.API.FinnhubApi.MaxConcurrency
	if maxConcurrency <= 0 {
		maxConcurrency = 1
	}

	return &FinnhubApi{client: client, maxConcurrency: maxConcurrency}
}

// GetQuotes fetches last prices for symbols. The provider serves one symbol per request, so requests are
// fanned out; any failed request fails the whole call. Symbols the provider doesn't know are omitted.
func (a *FinnhubApi) GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "FinnhubApi.GetQuotes"

	slog.Debug("start FinnhubApi.GetQuotes request", slog.String("rqID", rqID), slog.String("op", op), slog.Any("symbols", symbols))

	prices := make([]decimal.Decimal, len(symbols))
	found := make([]bool, len(symbols))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(a.maxConcurrency)

	for i, symbol := range symbols {
		g.Go(func() error {
			price, ok, err := a.getQuoteShared(gCtx, symbol)
			if err != nil {
				return fmt.Errorf("quote %s: %w", symbol, err)
			}
			prices[i], found[i] = price, ok
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		slog.Error("FinnhubApi.GetQuotes failed", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, err
	}

	res := make(map[string]decimal.Decimal, len(symbols))
	for i, symbol := range symbols {
		if found[i] {
			res[symbol] = prices[i]
		}
	}

	slog.Debug("FinnhubApi.GetQuotes request complete", slog.String("rqID", rqID), slog.String("op", op), slog.Int("found", len(res)))

	return res, nil
}

type sharedQuote struct {
	price decimal.Decimal
	ok    bool
}

// getQuoteShared collapses concurrent requests for the same symbol into one provider call.
// The shared call is detached from the caller that started it and is bounded by the client
// timeout; each caller stops waiting when its own ctx is done.
func (a *FinnhubApi) getQuoteShared(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	ch := a.inflight.DoChan(symbol, func() (any, error) {
		price, ok, err := a.getQuote(context.WithoutCancel(ctx), symbol)
		return sharedQuote{price: price, ok: ok}, err
	})

	select {
	case <-ctx.Done():
		return decimal.Decimal{}, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return decimal.Decimal{}, false, res.Err
		}
		q := res.Val.(sharedQuote)
		return q.price, q.ok, nil
	}
}

func (a *FinnhubApi) getQuote(ctx context.Context, symbol string) (decimal.Decimal, bool, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)

	resp, err := a.client.R().
		SetContext(ctx).
		SetHeader("Accept", "application/json").
		SetQueryParam("symbol", symbol).
		Get("/quote")

	if err != nil {
		slog.Error("error while dialing FinnhubApi", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return decimal.Decimal{}, false, err
	}

	if resp.IsError() {
		slog.Error(
			"FinnhubApi responded with error status",
			slog.Int("status", resp.StatusCode()),
			slog.String("body", resp.String()),
			slog.String("rqID", rqID),
		)
		return decimal.Decimal{}, false, fmt.Errorf("%w: status %d", externalApi.ErrBadResponse, resp.StatusCode())
	}

	quote := quoteResponse{}
	err = json.Unmarshal(resp.Body(), &quote)
	if err != nil {
		slog.Error("can't unmarshall response into quoteResponse", slog.String("err", err.Error()), slog.String("rqID", rqID))
		return decimal.Decimal{}, false, fmt.Errorf("%w: %w", externalApi.ErrBadResponse, err)
	}

	if !quote.Current.IsPositive() {
		slog.Warn("FinnhubApi has no price for symbol", slog.String("symbol", symbol), slog.String("rqID", rqID))
		return decimal.Decimal{}, false, nil
	}

	return quote.Current, true, nil
}
