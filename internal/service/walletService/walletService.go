package walletService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/config"
	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

type Repository interface {
	WithinTransaction(ctx context.Context, tFunc func(ctx context.Context) error) error

	InsertAccount(ctx context.Context, cashBalance decimal.Decimal) (accountID int64, err error)
	GetAccount(ctx context.Context, accountID int64) (model.Account, error)
	GetAccountForUpdate(ctx context.Context, accountID int64) (model.Account, error)
	UpdateAccountBalance(ctx context.Context, accountID int64, cashBalance decimal.Decimal) error

	GetPosition(ctx context.Context, accountID int64, symbol string) (model.Position, error)
	GetPositions(ctx context.Context, accountID int64) ([]model.Position, error)
	UpsertPosition(ctx context.Context, position model.Position) error
	DeletePosition(ctx context.Context, accountID int64, symbol string) error

	InsertOperation(ctx context.Context, operation model.Operation) error
	GetOperations(ctx context.Context, accountID int64, limit int) ([]model.Operation, error)
}

type QuoteProvider interface {
	GetLiveQuote(ctx context.Context, symbol string) (decimal.Decimal, error)
	GetQuotes(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error)
}

type ReportGenerator interface {
	Generate(ctx context.Context, report model.Report) (fileBytes []byte, fileExtension string, err error)
}

type CloudStorage interface {
	UploadFile(ctx context.Context, reader io.Reader, filename string) (downloadLink string, err error)
}

// WalletService owns cash balances and positions. Every mutation of an account
// runs in one transaction that starts by locking the account row, so operations
// on the same account are applied in some sequential order.
type WalletService struct {
	cfg             *config.Config
	repo            Repository
	quotes          QuoteProvider
	reportGenerator ReportGenerator
	cloudStorage    CloudStorage
}

// New builds the service. cloudStorage may be nil, ShareReport then fails with service.ErrSharingDisabled.
func New(cfg *config.Config, repo Repository, quotes QuoteProvider, reportGenerator ReportGenerator, cloudStorage CloudStorage) *WalletService {
	return &WalletService{
		cfg:             cfg,
		repo:            repo,
		quotes:          quotes,
		reportGenerator: reportGenerator,
		cloudStorage:    cloudStorage,
	}
}

// lockAccount must be called inside WithinTransaction.
func (s *WalletService) lockAccount(ctx context.Context, accountID int64) (model.Account, error) {
	account, err := s.repo.GetAccountForUpdate(ctx, accountID)
	if err != nil {
		return model.Account{}, s.accountError(ctx, "repo.GetAccountForUpdate", err)
	}
	return account, nil
}

func (s *WalletService) getAccount(ctx context.Context, accountID int64) (model.Account, error) {
	account, err := s.repo.GetAccount(ctx, accountID)
	if err != nil {
		return model.Account{}, s.accountError(ctx, "repo.GetAccount", err)
	}
	return account, nil
}

func (s *WalletService) accountError(ctx context.Context, call string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return service.ErrAccountNotFound
	}
	slog.Error(
		"got error from "+call,
		slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
		slog.String("op", "WalletService.accountError"),
		slog.String("err", err.Error()),
	)
	return fmt.Errorf("%s: %w", call, err)
}

func (s *WalletService) recordOperation(ctx context.Context, operation model.Operation) error {
	if err := s.repo.InsertOperation(ctx, operation); err != nil {
		slog.Error(
			"got error from repo.InsertOperation",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("op", "WalletService.recordOperation"),
			slog.String("kind", string(operation.Kind)),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("repo.InsertOperation: %w", err)
	}
	return nil
}

func (s *WalletService) updateBalance(ctx context.Context, accountID int64, balance decimal.Decimal) error {
	if err := s.repo.UpdateAccountBalance(ctx, accountID, balance); err != nil {
		slog.Error(
			"got error from repo.UpdateAccountBalance",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("op", "WalletService.updateBalance"),
			slog.Int64("accountID", accountID),
			slog.String("err", err.Error()),
		)
		return fmt.Errorf("repo.UpdateAccountBalance: %w", err)
	}
	return nil
}
