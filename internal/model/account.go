package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID          int64
	CashBalance decimal.Decimal
	CreatedAt   time.Time
}
