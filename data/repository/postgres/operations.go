package postgres

import (
	"context"
	"database/sql"

	"github.com/KotFed0t/carteira_acoes/internal/converter/dbConverter"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/model/dbModel"
	"github.com/shopspring/decimal"
)

func (r *Postgres) InsertOperation(ctx context.Context, operation model.Operation) (err error) {
	op := "Postgres.InsertOperation"
	query := `
		INSERT INTO operations(account_id, kind, symbol, quantity, price, total, balance_after)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		`

	done := logQuery(ctx, op, query, map[string]any{"operation": operation})
	defer func() { done(err) }()

	symbol := sql.NullString{String: operation.Symbol, Valid: operation.Symbol != ""}
	quantity := sql.NullInt64{Int64: operation.Quantity, Valid: operation.Quantity != 0}
	price := decimal.NullDecimal{Decimal: operation.Price, Valid: operation.Symbol != ""}

	_, err = r.txOrDb(ctx).ExecContext(
		ctx,
		query,
		operation.AccountID,
		string(operation.Kind),
		symbol,
		quantity,
		price,
		operation.Total,
		operation.BalanceAfter,
	)
	if err != nil {
		return mapError(err)
	}

	return nil
}

// GetOperations returns the latest operations first.
func (r *Postgres) GetOperations(ctx context.Context, accountID int64, limit int) (operations []model.Operation, err error) {
	op := "Postgres.GetOperations"
	query := `
		SELECT operation_id, account_id, kind, symbol, quantity, price, total, balance_after, dt_create
		FROM operations
		WHERE account_id = $1
		ORDER BY operation_id DESC
		LIMIT $2
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID, "limit": limit})
	defer func() { done(err) }()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, accountID, limit)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	operations = make([]model.Operation, 0, limit)
	for rows.Next() {
		var dbOperation dbModel.Operation
		err = rows.StructScan(&dbOperation)
		if err != nil {
			return nil, err
		}
		operations = append(operations, dbConverter.ConvertOperation(dbOperation))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return operations, nil
}
