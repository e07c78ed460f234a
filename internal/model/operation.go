package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OperationKind string

const (
	OperationDeposit  OperationKind = "deposit"
	OperationWithdraw OperationKind = "withdraw"
	OperationBuy      OperationKind = "buy"
	OperationSell     OperationKind = "sell"
)

// Operation is an entry of the account statement. Symbol, Quantity and Price are empty for cash operations.
type Operation struct {
	ID           int64
	AccountID    int64
	Kind         OperationKind
	Symbol       string
	Quantity     int64
	Price        decimal.Decimal
	Total        decimal.Decimal
	BalanceAfter decimal.Decimal
	CreatedAt    time.Time
}

type TradeResult struct {
	Symbol   string
	Quantity int64
	Price    decimal.Decimal
	Total    decimal.Decimal
	Balance  decimal.Decimal
}

type Quote struct {
	Symbol    string
	LastPrice decimal.Decimal
}

type Report struct {
	AccountID     int64
	Balance       decimal.Decimal
	Profitability Profitability
	Operations    []Operation
	GeneratedAt   time.Time
}
