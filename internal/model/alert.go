package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Alert struct {
	ID          int64
	AccountID   int64
	Symbol      string
	TargetPrice decimal.Decimal
	Triggered   bool
	CreatedAt   time.Time
	TriggeredAt *time.Time
}

// IsTriggeredBy reports an upward breakout. A price equal to the target does not trigger.
func (a Alert) IsTriggeredBy(price decimal.Decimal) bool {
	return price.GreaterThan(a.TargetPrice)
}

type EvaluationSummary struct {
	Evaluated int
	Triggered int
	// Skipped counts alerts whose symbol had no quote in the batch.
	Skipped int
}
