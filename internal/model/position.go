package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Position is the holding of one symbol. Quantity is always positive for a stored position.
type Position struct {
	AccountID   int64
	Symbol      string
	Quantity    int64
	AverageCost decimal.Decimal
	UpdatedAt   time.Time
}

func (p Position) CostBasis() decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(p.Quantity))
}

func (p Position) MarketValue(price decimal.Decimal) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(p.Quantity))
}

// Result is the unrealized gain (or loss when negative) at price.
func (p Position) Result(price decimal.Decimal) decimal.Decimal {
	return price.Sub(p.AverageCost).Mul(decimal.NewFromInt(p.Quantity))
}

type PositionProfitability struct {
	Position
	// Price and Result are nil when no quote was available for the symbol.
	Price  *decimal.Decimal
	Result *decimal.Decimal
}

type Profitability struct {
	Positions []PositionProfitability
	Total     decimal.Decimal
}
