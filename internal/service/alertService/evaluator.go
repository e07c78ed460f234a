package alertService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

// EvaluateAlerts runs one pass over every active alert. Quotes are fetched once for the
// distinct symbols; if that fetch fails the pass is skipped and nothing is flipped.
// Alerts whose symbol is missing from the quotes stay active until the next pass.
// Only one pass runs at a time, a concurrent call gets service.ErrEvaluationInProgress.
func (s *AlertService) EvaluateAlerts(ctx context.Context) (summary model.EvaluationSummary, err error) {
	if !s.evaluating.CompareAndSwap(false, true) {
		return model.EvaluationSummary{}, service.ErrEvaluationInProgress
	}
	defer s.evaluating.Store(false)

	if utils.GetRequestIDFromCtx(ctx) == "" {
		ctx = utils.CreateCtxWithRqID(ctx, "")
	}
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AlertService.EvaluateAlerts"

	slog.Debug("EvaluateAlerts start", slog.String("rqID", rqID), slog.String("op", op))
	defer func() {
		slog.Info(
			"EvaluateAlerts finished",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.Int("evaluated", summary.Evaluated),
			slog.Int("triggered", summary.Triggered),
			slog.Int("skipped", summary.Skipped),
		)
	}()

	alerts, err := s.repo.GetActiveAlerts(ctx)
	if err != nil {
		slog.Error("got error from repo.GetActiveAlerts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.EvaluationSummary{}, fmt.Errorf("repo.GetActiveAlerts: %w", err)
	}

	if len(alerts) == 0 {
		return model.EvaluationSummary{}, nil
	}

	quotes, err := s.fetchQuotes(ctx, alerts)
	if err != nil {
		slog.Warn("quotes unavailable, skipping evaluation", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.EvaluationSummary{}, err
	}

	var flipErrs []error
	for _, alert := range alerts {
		price, ok := quotes[alert.Symbol]
		if !ok {
			summary.Skipped++
			continue
		}

		summary.Evaluated++
		if !alert.IsTriggeredBy(price) {
			continue
		}

		// a deleted or already triggered alert is not flipped
		flipped, err := s.repo.MarkAlertTriggered(ctx, alert.ID)
		if err != nil {
			slog.Error(
				"got error from repo.MarkAlertTriggered",
				slog.String("rqID", rqID),
				slog.String("op", op),
				slog.Int64("alertID", alert.ID),
				slog.String("err", err.Error()),
			)
			flipErrs = append(flipErrs, fmt.Errorf("alert %d: %w", alert.ID, err))
			continue
		}
		if !flipped {
			continue
		}

		summary.Triggered++
		triggeredAt := time.Now()
		alert.Triggered, alert.TriggeredAt = true, &triggeredAt
		s.notify(ctx, alert, price)
	}

	return summary, errors.Join(flipErrs...)
}

func (s *AlertService) fetchQuotes(ctx context.Context, alerts []model.Alert) (map[string]decimal.Decimal, error) {
	symbols := make([]string, 0, len(alerts))
	for _, alert := range alerts {
		symbols = append(symbols, alert.Symbol)
	}

	symbols = service.NormalizeSymbols(symbols)

	if timeout := s.quotesTimeout(len(symbols)); timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return s.quotes.GetLiveQuotes(ctx, symbols)
}

// quotesTimeout bounds the quote fetch of one pass. The gateway asks for one symbol per request,
// MaxConcurrency at a time, each request bounded by API.Timeout.
func (s *AlertService) quotesTimeout(symbols int) time.Duration {
	if s.cfg.Jobs.AlertEvaluationTimeout > 0 {
		return s.cfg.Jobs.AlertEvaluationTimeout
	}
	if s.cfg.API.Timeout <= 0 || symbols == 0 {
		return 0
	}

	concurrency := max(s.cfg.API.FinnhubApi.MaxConcurrency, 1)
	rounds := (symbols + concurrency - 1) / concurrency
	return time.Duration(rounds) * s.cfg.API.Timeout
}

func (s *AlertService) notify(ctx context.Context, alert model.Alert, price decimal.Decimal) {
	if s.notifier == nil {
		return
	}

	if err := s.notifier.NotifyAlertTriggered(ctx, alert, price); err != nil {
		slog.Warn(
			"can't send alert notification",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("op", "AlertService.notify"),
			slog.Int64("alertID", alert.ID),
			slog.String("err", err.Error()),
		)
	}
}
