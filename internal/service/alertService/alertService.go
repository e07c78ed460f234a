package alertService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	GetAccount(ctx context.Context, accountID int64) (model.Account, error)
	InsertAlert(ctx context.Context, alert model.Alert) (alertID int64, err error)
	GetAlerts(ctx context.Context, accountID int64) ([]model.Alert, error)
	GetActiveAlerts(ctx context.Context) ([]model.Alert, error)
	DeleteAlert(ctx context.Context, accountID, alertID int64) error
	MarkAlertTriggered(ctx context.Context, alertID int64) (flipped bool, err error)
}

type QuoteProvider interface {
	GetLiveQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Notifier interface {
	NotifyAlertTriggered(ctx context.Context, alert model.Alert, price decimal.Decimal) error
}

type AlertService struct {
	cfg      *config.Config
	repo     Repository
	quotes   QuoteProvider
	notifier Notifier

	evaluating atomic.Bool
}

// New builds the service. notifier may be nil.
func New(cfg *config.Config, repo Repository, quotes QuoteProvider, notifier Notifier) *AlertService {
	return &AlertService{
		cfg:      cfg,
		repo:     repo,
		quotes:   quotes,
		notifier: notifier,
	}
}

func (s *AlertService) CreateAlert(ctx context.Context, accountID int64, symbol string, targetPrice decimal.Decimal) (alert model.Alert, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AlertService.CreateAlert"

	slog.Debug("CreateAlert start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("symbol", symbol))
	defer func() {
		slog.Debug("CreateAlert finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("alertID", alert.ID))
	}()

	symbol = service.NormalizeSymbol(symbol)
	if symbol == "" {
		return model.Alert{}, service.ErrInvalidSymbol
	}
	if !targetPrice.IsPositive() {
		return model.Alert{}, service.ErrInvalidAmount
	}

	if _, err = s.repo.GetAccount(ctx, accountID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return model.Alert{}, service.ErrAccountNotFound
		}
		slog.Error("got error from repo.GetAccount", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Alert{}, fmt.Errorf("repo.GetAccount: %w", err)
	}

	alert = model.Alert{AccountID: accountID, Symbol: symbol, TargetPrice: targetPrice}

	alert.ID, err = s.repo.InsertAlert(ctx, alert)
	if err != nil {
		slog.Error("got error from repo.InsertAlert", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return model.Alert{}, fmt.Errorf("repo.InsertAlert: %w", err)
	}

	return alert, nil
}

func (s *AlertService) GetAlerts(ctx context.Context, accountID int64) ([]model.Alert, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AlertService.GetAlerts"

	slog.Debug("GetAlerts start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	alerts, err := s.repo.GetAlerts(ctx, accountID)
	if err != nil {
		slog.Error("got error from repo.GetAlerts", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("repo.GetAlerts: %w", err)
	}

	return alerts, nil
}

// DeleteAlert removes an alert in any state. Alerts of other accounts are reported as not found.
func (s *AlertService) DeleteAlert(ctx context.Context, accountID, alertID int64) error {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "AlertService.DeleteAlert"

	slog.Debug("DeleteAlert start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.Int64("alertID", alertID))

	err := s.repo.DeleteAlert(ctx, accountID, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return service.ErrAlertNotFound
		}
		slog.Error("got error from repo.DeleteAlert", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return fmt.Errorf("repo.DeleteAlert: %w", err)
	}

	return nil
}
