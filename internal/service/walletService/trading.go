package walletService

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

const averageCostPlaces = 8

// Buy fills quantity shares of symbol at the live quote. The quote is fetched before
// the account is locked, solvency is checked against the locked balance.
func (s *WalletService) Buy(ctx context.Context, accountID int64, symbol string, quantity int64) (res model.TradeResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.Buy"

	slog.Debug("Buy start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("symbol", symbol), slog.Int64("quantity", quantity))
	defer func() {
		slog.Debug("Buy finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.Any("result", res))
	}()

	symbol, err = validateOrder(symbol, quantity)
	if err != nil {
		return model.TradeResult{}, err
	}

	price, err := s.quotes.GetLiveQuote(ctx, symbol)
	if err != nil {
		return model.TradeResult{}, err
	}

	total := price.Mul(decimal.NewFromInt(quantity))

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		if account.CashBalance.LessThan(total) {
			return service.ErrInsufficientFunds
		}

		held, err := s.findPosition(ctx, accountID, symbol)
		if err != nil {
			return err
		}

		if err = s.repo.UpsertPosition(ctx, addShares(held, accountID, symbol, quantity, price)); err != nil {
			slog.Error("got error from repo.UpsertPosition", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return fmt.Errorf("repo.UpsertPosition: %w", err)
		}

		balance := account.CashBalance.Sub(total)
		if err = s.updateBalance(ctx, accountID, balance); err != nil {
			return err
		}

		res = model.TradeResult{Symbol: symbol, Quantity: quantity, Price: price, Total: total, Balance: balance}

		return s.recordOperation(ctx, model.Operation{
			AccountID:    accountID,
			Kind:         model.OperationBuy,
			Symbol:       symbol,
			Quantity:     quantity,
			Price:        price,
			Total:        total,
			BalanceAfter: balance,
		})
	})
	if err != nil {
		return model.TradeResult{}, err
	}

	return res, nil
}

// Sell fills quantity shares of symbol at the live quote. The remaining shares keep their average cost,
// a position that reaches zero is removed.
func (s *WalletService) Sell(ctx context.Context, accountID int64, symbol string, quantity int64) (res model.TradeResult, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.Sell"

	slog.Debug("Sell start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("symbol", symbol), slog.Int64("quantity", quantity))
	defer func() {
		slog.Debug("Sell finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.Any("result", res))
	}()

	symbol, err = validateOrder(symbol, quantity)
	if err != nil {
		return model.TradeResult{}, err
	}

	// fail fast without a quote round trip, the check is repeated under the lock
	if _, err = s.getAccount(ctx, accountID); err != nil {
		return model.TradeResult{}, err
	}
	held, err := s.findPosition(ctx, accountID, symbol)
	if err != nil {
		return model.TradeResult{}, err
	}
	if held == nil || held.Quantity < quantity {
		return model.TradeResult{}, service.ErrInsufficientShares
	}

	price, err := s.quotes.GetLiveQuote(ctx, symbol)
	if err != nil {
		return model.TradeResult{}, err
	}

	proceeds := price.Mul(decimal.NewFromInt(quantity))

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		held, err := s.findPosition(ctx, accountID, symbol)
		if err != nil {
			return err
		}
		if held == nil || held.Quantity < quantity {
			return service.ErrInsufficientShares
		}

		if remaining := held.Quantity - quantity; remaining == 0 {
			err = s.repo.DeletePosition(ctx, accountID, symbol)
		} else {
			position := *held
			position.Quantity = remaining
			err = s.repo.UpsertPosition(ctx, position)
		}
		if err != nil {
			slog.Error("got error while reducing position", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return fmt.Errorf("reduce position: %w", err)
		}

		balance := account.CashBalance.Add(proceeds)
		if err = s.updateBalance(ctx, accountID, balance); err != nil {
			return err
		}

		slog.Info(
			"shares sold",
			slog.String("rqID", rqID),
			slog.String("op", op),
			slog.Int64("accountID", accountID),
			slog.String("symbol", symbol),
			slog.String("realized", price.Sub(held.AverageCost).Mul(decimal.NewFromInt(quantity)).String()),
		)

		res = model.TradeResult{Symbol: symbol, Quantity: quantity, Price: price, Total: proceeds, Balance: balance}

		return s.recordOperation(ctx, model.Operation{
			AccountID:    accountID,
			Kind:         model.OperationSell,
			Symbol:       symbol,
			Quantity:     quantity,
			Price:        price,
			Total:        proceeds,
			BalanceAfter: balance,
		})
	})
	if err != nil {
		return model.TradeResult{}, err
	}

	return res, nil
}

func validateOrder(symbol string, quantity int64) (string, error) {
	symbol = service.NormalizeSymbol(symbol)
	if symbol == "" {
		return "", service.ErrInvalidSymbol
	}
	if quantity <= 0 {
		return "", service.ErrInvalidQuantity
	}
	return symbol, nil
}

// findPosition returns nil when the account holds no shares of symbol.
func (s *WalletService) findPosition(ctx context.Context, accountID int64, symbol string) (*model.Position, error) {
	position, err := s.repo.GetPosition(ctx, accountID, symbol)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		slog.Error(
			"got error from repo.GetPosition",
			slog.String("rqID", utils.GetRequestIDFromCtx(ctx)),
			slog.String("op", "WalletService.findPosition"),
			slog.String("err", err.Error()),
		)
		return nil, fmt.Errorf("repo.GetPosition: %w", err)
	}
	return &position, nil
}

// addShares opens a position at price or blends price into the weighted average cost of the held one.
func addShares(held *model.Position, accountID int64, symbol string, quantity int64, price decimal.Decimal) model.Position {
	if held == nil {
		return model.Position{
			AccountID:   accountID,
			Symbol:      symbol,
			Quantity:    quantity,
			AverageCost: price,
		}
	}

	newQuantity := held.Quantity + quantity
	averageCost := held.CostBasis().
		Add(price.Mul(decimal.NewFromInt(quantity))).
		Div(decimal.NewFromInt(newQuantity)).
		Round(averageCostPlaces)

	return model.Position{
		AccountID:   accountID,
		Symbol:      symbol,
		Quantity:    newQuantity,
		AverageCost: averageCost,
	}
}
