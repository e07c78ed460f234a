package dbModel

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

type Alert struct {
	AlertID     int64           `db:"alert_id"`
	AccountID   int64           `db:"account_id"`
	Symbol      string          `db:"symbol"`
	TargetPrice decimal.Decimal `db:"target_price"`
	Triggered   bool            `db:"triggered"`
	DtCreate    time.Time       `db:"dt_create"`
	DtTriggered sql.NullTime    `db:"dt_triggered"`
}

type Operation struct {
	OperationID  int64               `db:"operation_id"`
	AccountID    int64               `db:"account_id"`
	Kind         string              `db:"kind"`
	Symbol       sql.NullString      `db:"symbol"`
	Quantity     sql.NullInt64       `db:"quantity"`
	Price        decimal.NullDecimal `db:"price"`
	Total        decimal.Decimal     `db:"total"`
	BalanceAfter decimal.Decimal     `db:"balance_after"`
	DtCreate     time.Time           `db:"dt_create"`
}
