package walletService

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

const reportFilenameLayout = "20060102_150405"

func (s *WalletService) GetPositions(ctx context.Context, accountID int64) ([]model.Position, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GetPositions"

	slog.Debug("GetPositions start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	positions, err := s.repo.GetPositions(ctx, accountID)
	if err != nil {
		slog.Error("got error from repo.GetPositions", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("repo.GetPositions: %w", err)
	}

	return positions, nil
}

// GetProfitability values every position at the current quote. A quote outage degrades to
// positions without price instead of failing the whole read.
func (s *WalletService) GetProfitability(ctx context.Context, accountID int64) (model.Profitability, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GetProfitability"

	slog.Debug("GetProfitability start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	positions, err := s.GetPositions(ctx, accountID)
	if err != nil {
		return model.Profitability{}, err
	}

	symbols := make([]string, 0, len(positions))
	for _, position := range positions {
		symbols = append(symbols, position.Symbol)
	}

	quotes, err := s.quotes.GetQuotes(ctx, symbols)
	if err != nil {
		slog.Warn("quotes unavailable, positions reported without price", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		quotes = map[string]decimal.Decimal{}
	}

	return valuePositions(positions, quotes), nil
}

func valuePositions(positions []model.Position, quotes map[string]decimal.Decimal) model.Profitability {
	res := model.Profitability{
		Positions: make([]model.PositionProfitability, 0, len(positions)),
		Total:     decimal.Zero,
	}

	for _, position := range positions {
		item := model.PositionProfitability{Position: position}
		if price, ok := quotes[position.Symbol]; ok {
			result := position.Result(price)
			item.Price = &price
			item.Result = &result
			res.Total = res.Total.Add(result)
		}
		res.Positions = append(res.Positions, item)
	}

	return res
}

// GetOperations returns the latest page of the account statement, newest first.
func (s *WalletService) GetOperations(ctx context.Context, accountID int64) ([]model.Operation, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GetOperations"

	slog.Debug("GetOperations start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	if _, err := s.getAccount(ctx, accountID); err != nil {
		return nil, err
	}

	operations, err := s.repo.GetOperations(ctx, accountID, s.cfg.OperationsPageSize)
	if err != nil {
		slog.Error("got error from repo.GetOperations", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, fmt.Errorf("repo.GetOperations: %w", err)
	}

	return operations, nil
}

func (s *WalletService) GenerateReport(ctx context.Context, accountID int64) (fileBytes []byte, fileExtension string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GenerateReport"

	slog.Debug("GenerateReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))
	defer func() {
		slog.Debug("GenerateReport finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int("size", len(fileBytes)))
	}()

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return nil, "", err
	}

	profitability, err := s.GetProfitability(ctx, accountID)
	if err != nil {
		return nil, "", err
	}

	operations, err := s.GetOperations(ctx, accountID)
	if err != nil {
		return nil, "", err
	}

	fileBytes, fileExtension, err = s.reportGenerator.Generate(ctx, model.Report{
		AccountID:     accountID,
		Balance:       account.CashBalance,
		Profitability: profitability,
		Operations:    operations,
		GeneratedAt:   time.Now(),
	})
	if err != nil {
		slog.Error("got error from reportGenerator.Generate", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return nil, "", fmt.Errorf("reportGenerator.Generate: %w", err)
	}

	return fileBytes, fileExtension, nil
}

// ShareReport uploads a fresh report and returns a public download link.
func (s *WalletService) ShareReport(ctx context.Context, accountID int64) (link string, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.ShareReport"

	slog.Debug("ShareReport start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	if s.cloudStorage == nil {
		return "", service.ErrSharingDisabled
	}

	fileBytes, fileExtension, err := s.GenerateReport(ctx, accountID)
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("carteira_%d_%s%s", accountID, time.Now().Format(reportFilenameLayout), fileExtension)

	link, err = s.cloudStorage.UploadFile(ctx, bytes.NewReader(fileBytes), filename)
	if err != nil {
		slog.Error("got error from cloudStorage.UploadFile", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
		return "", fmt.Errorf("cloudStorage.UploadFile: %w", err)
	}

	return link, nil
}
