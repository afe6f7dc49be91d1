package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	PaymentCash  PaymentMethod = "CASH"
	PaymentGCash PaymentMethod = "GCASH"
)

func (m PaymentMethod) Valid() bool {
	return m == PaymentCash || m == PaymentGCash
}

func (m PaymentMethod) String() string {
	return string(m)
}

type TransactionStatus string

const (
	StatusPaid          TransactionStatus = "PAID"
	StatusUnpaidPending TransactionStatus = "UNPAID_PENDING"
)

// IsPaid reports whether the transaction counted toward revenue and stock deduction.
func (s TransactionStatus) IsPaid() bool {
	return s == StatusPaid
}

func (s TransactionStatus) Valid() bool {
	return s == StatusPaid || s == StatusUnpaidPending
}

// String representation (for logging)
func (s TransactionStatus) String() string {
	return string(s)
}

// Transaction is a settled order as recorded in the ledger. Items carry the unit
// price charged at order time, so later catalog price changes never affect it.
type Transaction struct {
	ID        string            `json:"id"`
	Customer  string            `json:"customer"`
	Items     []Line            `json:"items"`
	Total     decimal.Decimal   `json:"total_amount"`
	Method    PaymentMethod     `json:"payment_method"`
	Status    TransactionStatus `json:"status"`
	CreatedAt time.Time         `json:"created_at"`
}

// Quantities returns the item key -> quantity mapping of the transaction.
func (t Transaction) Quantities() map[string]int {
	q := make(map[string]int, len(t.Items))
	for _, l := range t.Items {
		q[l.Key] += l.Quantity
	}
	return q
}

// Clone returns a copy that shares no slices with t.
func (t Transaction) Clone() Transaction {
	c := t
	c.Items = append([]Line(nil), t.Items...)
	return c
}
