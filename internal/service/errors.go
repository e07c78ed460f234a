package service

import "errors"

var (
	ErrInvalidAmount        = errors.New("error invalid amount")
	ErrInvalidQuantity      = errors.New("error invalid quantity")
	ErrInvalidSymbol        = errors.New("error invalid symbol")
	ErrInsufficientFunds    = errors.New("error insufficient funds")
	ErrInsufficientShares   = errors.New("error insufficient shares")
	ErrQuoteUnavailable     = errors.New("error quote unavailable")
	ErrAccountNotFound      = errors.New("error account not found")
	ErrAlertNotFound        = errors.New("error alert not found")
	ErrEvaluationInProgress = errors.New("error alert evaluation already in progress")
	ErrSharingDisabled      = errors.New("error report sharing disabled")
)
