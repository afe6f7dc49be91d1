package domain

import "errors"

// Errors shared by the catalog, order builder, settlement, ledger and session.
var (
	ErrInvalidValue        = errors.New("invalid value")
	ErrNotFound            = errors.New("item not found")
	ErrUnknownItem         = errors.New("unknown item")
	ErrDuplicateItem       = errors.New("item already exists")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrInsufficientPayment = errors.New("insufficient payment")
	ErrStockRace           = errors.New("stock changed between order build and commit")
	ErrIndexOutOfRange     = errors.New("transaction index out of range")
	ErrEmptyOrder          = errors.New("order is empty, nothing to settle")
	ErrOrderClosed         = errors.New("order is already finalized or cancelled")
	ErrOrderInProgress     = errors.New("another order is already being built")
	ErrPersistence         = errors.New("persistence failed")
	ErrCancelled           = errors.New("cancelled by operator")
)
