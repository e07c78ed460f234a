package postgres

import (
	"context"

	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/converter/dbConverter"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/model/dbModel"
)

func (r *Postgres) GetPosition(ctx context.Context, accountID int64, symbol string) (position model.Position, err error) {
	op := "Postgres.GetPosition"
	query := `
		SELECT account_id, symbol, quantity, average_cost, dt_update
		FROM positions
		WHERE account_id = $1
		AND symbol = $2
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID, "symbol": symbol})
	defer func() { done(err) }()

	dbPosition := dbModel.Position{}
	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, accountID, symbol).StructScan(&dbPosition)
	if err != nil {
		return model.Position{}, mapError(err)
	}

	return dbConverter.ConvertPosition(dbPosition), nil
}

func (r *Postgres) GetPositions(ctx context.Context, accountID int64) (positions []model.Position, err error) {
	op := "Postgres.GetPositions"
	query := `
		SELECT account_id, symbol, quantity, average_cost, dt_update
		FROM positions
		WHERE account_id = $1
		ORDER BY symbol
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID})
	defer func() { done(err) }()

	rows, err := r.txOrDb(ctx).QueryxContext(ctx, query, accountID)
	if err != nil {
		return nil, err
	}

	defer rows.Close()

	positions = make([]model.Position, 0)
	for rows.Next() {
		var dbPosition dbModel.Position
		err = rows.StructScan(&dbPosition)
		if err != nil {
			return nil, err
		}
		positions = append(positions, dbConverter.ConvertPosition(dbPosition))
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return positions, nil
}

// UpsertPosition writes the full state of a position, creating the row on first buy.
func (r *Postgres) UpsertPosition(ctx context.Context, position model.Position) (err error) {
	op := "Postgres.UpsertPosition"
	query := `
		INSERT INTO positions(account_id, symbol, quantity, average_cost, dt_update)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (account_id, symbol) DO UPDATE SET
			quantity = EXCLUDED.quantity,
			average_cost = EXCLUDED.average_cost,
			dt_update = EXCLUDED.dt_update
		`

	done := logQuery(ctx, op, query, map[string]any{"position": position})
	defer func() { done(err) }()

	_, err = r.txOrDb(ctx).ExecContext(ctx, query, position.AccountID, position.Symbol, position.Quantity, position.AverageCost)
	if err != nil {
		return mapError(err)
	}

	return nil
}

func (r *Postgres) DeletePosition(ctx context.Context, accountID int64, symbol string) (err error) {
	op := "Postgres.DeletePosition"
	query := `
		DELETE FROM positions
		WHERE
			account_id = $1
			AND symbol = $2
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID, "symbol": symbol})
	defer func() { done(err) }()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, accountID, symbol)
	if err != nil {
		return err
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
