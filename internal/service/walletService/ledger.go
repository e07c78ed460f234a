package walletService

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/service"
	"github.com/KotFed0t/carteira_acoes/utils"
	"github.com/shopspring/decimal"
)

// OpenAccount creates an account holding initialBalance.
func (s *WalletService) OpenAccount(ctx context.Context, initialBalance decimal.Decimal) (accountID int64, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.OpenAccount"

	slog.Debug("OpenAccount start", slog.String("rqID", rqID), slog.String("op", op), slog.String("initialBalance", initialBalance.String()))
	defer func() {
		slog.Debug("OpenAccount finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))
	}()

	if initialBalance.IsNegative() {
		return 0, service.ErrInvalidAmount
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		accountID, err = s.repo.InsertAccount(ctx, initialBalance)
		if err != nil {
			slog.Error("got error from repo.InsertAccount", slog.String("rqID", rqID), slog.String("op", op), slog.String("err", err.Error()))
			return fmt.Errorf("repo.InsertAccount: %w", err)
		}

		if initialBalance.IsZero() {
			return nil
		}

		return s.recordOperation(ctx, model.Operation{
			AccountID:    accountID,
			Kind:         model.OperationDeposit,
			Total:        initialBalance,
			BalanceAfter: initialBalance,
		})
	})
	if err != nil {
		return 0, err
	}

	return accountID, nil
}

func (s *WalletService) GetBalance(ctx context.Context, accountID int64) (decimal.Decimal, error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.GetBalance"

	slog.Debug("GetBalance start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID))

	account, err := s.getAccount(ctx, accountID)
	if err != nil {
		return decimal.Decimal{}, err
	}

	return account.CashBalance, nil
}

// Deposit credits amount and returns the new balance.
func (s *WalletService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.Deposit"

	slog.Debug("Deposit start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("amount", amount.String()))
	defer func() {
		slog.Debug("Deposit finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("balance", balance.String()))
	}()

	if !amount.IsPositive() {
		return decimal.Decimal{}, service.ErrInvalidAmount
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		balance = account.CashBalance.Add(amount)

		if err = s.updateBalance(ctx, accountID, balance); err != nil {
			return err
		}

		return s.recordOperation(ctx, model.Operation{
			AccountID:    accountID,
			Kind:         model.OperationDeposit,
			Total:        amount,
			BalanceAfter: balance,
		})
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return balance, nil
}

// Withdraw debits amount. The solvency check and the debit happen under the account lock,
// there is no partial withdrawal.
func (s *WalletService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (balance decimal.Decimal, err error) {
	rqID := utils.GetRequestIDFromCtx(ctx)
	op := "WalletService.Withdraw"

	slog.Debug("Withdraw start", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("amount", amount.String()))
	defer func() {
		slog.Debug("Withdraw finished", slog.String("rqID", rqID), slog.String("op", op), slog.Int64("accountID", accountID), slog.String("balance", balance.String()))
	}()

	if !amount.IsPositive() {
		return decimal.Decimal{}, service.ErrInvalidAmount
	}

	err = s.repo.WithinTransaction(ctx, func(ctx context.Context) error {
		account, err := s.lockAccount(ctx, accountID)
		if err != nil {
			return err
		}

		if account.CashBalance.LessThan(amount) {
			return service.ErrInsufficientFunds
		}

		balance = account.CashBalance.Sub(amount)

		if err = s.updateBalance(ctx, accountID, balance); err != nil {
			return err
		}

		return s.recordOperation(ctx, model.Operation{
			AccountID:    accountID,
			Kind:         model.OperationWithdraw,
			Total:        amount,
			BalanceAfter: balance,
		})
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	return balance, nil
}
