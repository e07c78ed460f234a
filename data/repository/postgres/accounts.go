package postgres

import (
	"context"

	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/converter/dbConverter"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/model/dbModel"
	"github.com/shopspring/decimal"
)

func (r *Postgres) InsertAccount(ctx context.Context, cashBalance decimal.Decimal) (accountID int64, err error) {
	op := "Postgres.InsertAccount"
	query := `INSERT INTO accounts(cash_balance) VALUES($1) RETURNING account_id`

	done := logQuery(ctx, op, query, map[string]any{"cashBalance": cashBalance})
	defer func() { done(err) }()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, cashBalance).Scan(&accountID)
	if err != nil {
		return 0, mapError(err)
	}

	return accountID, nil
}

func (r *Postgres) GetAccount(ctx context.Context, accountID int64) (account model.Account, err error) {
	query := `
		SELECT account_id, cash_balance, dt_create
		FROM accounts
		WHERE account_id = $1
		`

	return r.getAccount(ctx, "Postgres.GetAccount", query, accountID)
}

// GetAccountForUpdate locks the account row until the surrounding transaction ends.
// Every balance or holdings mutation of the account takes this lock first.
func (r *Postgres) GetAccountForUpdate(ctx context.Context, accountID int64) (account model.Account, err error) {
	query := `
		SELECT account_id, cash_balance, dt_create
		FROM accounts
		WHERE account_id = $1
		FOR UPDATE
		`

	return r.getAccount(ctx, "Postgres.GetAccountForUpdate", query, accountID)
}

func (r *Postgres) getAccount(ctx context.Context, op, query string, accountID int64) (account model.Account, err error) {
	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID})
	defer func() { done(err) }()

	dbAccount := dbModel.Account{}
	err = r.txOrDb(ctx).GetContext(ctx, &dbAccount, query, accountID)
	if err != nil {
		return model.Account{}, mapError(err)
	}

	return dbConverter.ConvertAccount(dbAccount), nil
}

func (r *Postgres) UpdateAccountBalance(ctx context.Context, accountID int64, cashBalance decimal.Decimal) (err error) {
	op := "Postgres.UpdateAccountBalance"
	query := `
		UPDATE accounts
		SET cash_balance = $1
		WHERE account_id = $2
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID, "cashBalance": cashBalance})
	defer func() { done(err) }()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, cashBalance, accountID)
	if err != nil {
		return mapError(err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return repository.ErrNotFound
	}

	return nil
}
