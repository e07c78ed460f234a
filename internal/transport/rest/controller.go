package rest

import (
	"context"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/shopspring/decimal"
)

type WalletService interface {
	GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error)
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (decimal.Decimal, error)
	Buy(ctx context.Context, accountID int64, symbol string, quantity int64) (model.TradeResult, error)
	Sell(ctx context.Context, accountID int64, symbol string, quantity int64) (model.TradeResult, error)
	GetPositions(ctx context.Context, accountID int64) ([]model.Position, error)
	GetProfitability(ctx context.Context, accountID int64) (model.Profitability, error)
	GetOperations(ctx context.Context, accountID int64) ([]model.Operation, error)
	GenerateReport(ctx context.Context, accountID int64) (fileBytes []byte, fileExtension string, err error)
	ShareReport(ctx context.Context, accountID int64) (link string, err error)
}

type AlertService interface {
	CreateAlert(ctx context.Context, accountID int64, symbol string, targetPrice decimal.Decimal) (model.Alert, error)
	GetAlerts(ctx context.Context, accountID int64) ([]model.Alert, error)
	DeleteAlert(ctx context.Context, accountID, alertID int64) error
}

type QuoteService interface {
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type Controller struct {
	wallet WalletService
	alerts AlertService
	quotes QuoteService
}

func NewController(wallet WalletService, alerts AlertService, quotes QuoteService) *Controller {
	return &Controller{
		wallet: wallet,
		alerts: alerts,
		quotes: quotes,
	}
}
