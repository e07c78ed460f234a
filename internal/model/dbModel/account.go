package dbModel

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	AccountID   int64           `db:"account_id"`
	CashBalance decimal.Decimal `db:"cash_balance"`
	DtCreate    time.Time       `db:"dt_create"`
}

type Position struct {
	AccountID   int64           `db:"account_id"`
	Symbol      string          `db:"symbol"`
	Quantity    int64           `db:"quantity"`
	AverageCost decimal.Decimal `db:"average_cost"`
	DtUpdate    time.Time       `db:"dt_update"`
}
