package postgres

import (
	"context"

	"github.com/KotFed0t/carteira_acoes/data/repository"
	"github.com/KotFed0t/carteira_acoes/internal/converter/dbConverter"
	"github.com/KotFed0t/carteira_acoes/internal/model"
	"github.com/KotFed0t/carteira_acoes/internal/model/dbModel"
)

func (r *Postgres) InsertAlert(ctx context.Context, alert model.Alert) (alertID int64, err error) {
	op := "Postgres.InsertAlert"
	query := `
		INSERT INTO alerts(account_id, symbol, target_price)
		VALUES ($1, $2, $3)
		RETURNING alert_id
		`

	done := logQuery(ctx, op, query, map[string]any{"alert": alert})
	defer func() { done(err) }()

	err = r.txOrDb(ctx).QueryRowxContext(ctx, query, alert.AccountID, alert.Symbol, alert.TargetPrice).Scan(&alertID)
	if err != nil {
		return 0, mapError(err)
	}

	return alertID, nil
}

func (r *Postgres) GetAlerts(ctx context.Context, accountID int64) (alerts []model.Alert, err error) {
	query := `
		SELECT alert_id, account_id, symbol, target_price, triggered, dt_create, dt_triggered
		FROM alerts
		WHERE account_id = $1
		ORDER BY alert_id
		`

	return r.selectAlerts(ctx, "Postgres.GetAlerts", query, accountID)
}

// GetActiveAlerts returns not yet triggered alerts of every account.
func (r *Postgres) GetActiveAlerts(ctx context.Context) (alerts []model.Alert, err error) {
	query := `
		SELECT alert_id, account_id, symbol, target_price, triggered, dt_create, dt_triggered
		FROM alerts
		WHERE triggered = false
		ORDER BY alert_id
		`

	return r.selectAlerts(ctx, "Postgres.GetActiveAlerts", query)
}

func (r *Postgres) selectAlerts(ctx context.Context, op, query string, args ...any) (alerts []model.Alert, err error) {
	done := logQuery(ctx, op, query, map[string]any{"args": args})
	defer func() { done(err) }()

	dbAlerts := make([]dbModel.Alert, 0)
	err = r.txOrDb(ctx).SelectContext(ctx, &dbAlerts, query, args...)
	if err != nil {
		return nil, err
	}

	alerts = make([]model.Alert, 0, len(dbAlerts))
	for _, dbAlert := range dbAlerts {
		alerts = append(alerts, dbConverter.ConvertAlert(dbAlert))
	}

	return alerts, nil
}

// DeleteAlert removes an alert owned by accountID. Alerts of other accounts are reported as not found.
func (r *Postgres) DeleteAlert(ctx context.Context, accountID, alertID int64) (err error) {
	op := "Postgres.DeleteAlert"
	query := `
		DELETE FROM alerts
		WHERE
			alert_id = $1
			AND account_id = $2
		`

	done := logQuery(ctx, op, query, map[string]any{"accountID": accountID, "alertID": alertID})
	defer func() { done(err) }()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, alertID, accountID)
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

// MarkAlertTriggered flips the alert once. It reports false when the alert is gone or already triggered.
func (r *Postgres) MarkAlertTriggered(ctx context.Context, alertID int64) (flipped bool, err error) {
	op := "Postgres.MarkAlertTriggered"
	query := `
		UPDATE alerts
		SET triggered = true, dt_triggered = now()
		WHERE
			alert_id = $1
			AND triggered = false
		`

	done := logQuery(ctx, op, query, map[string]any{"alertID": alertID})
	defer func() { done(err) }()

	res, err := r.txOrDb(ctx).ExecContext(ctx, query, alertID)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}
