package payment

import (
	"fmt"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// Tender is what the customer offered for an order total.
type Tender struct {
	Method domain.PaymentMethod
	// Tendered is the cash handed over. Ignored for GCash.
	Tendered decimal.Decimal
	// Confirmed is the operator's GCash confirmation. Ignored for cash.
	Confirmed bool
}

func Cash(tendered decimal.Decimal) Tender {
	return Tender{Method: domain.PaymentCash, Tendered: tendered}
}

func GCash(confirmed bool) Tender {
	return Tender{Method: domain.PaymentGCash, Confirmed: confirmed}
}

// Settlement is the outcome of one settle call. Change is reported to the
// caller and is never persisted.
type Settlement struct {
	Committed decimal.Decimal
	Status    domain.TransactionStatus
	Method    domain.PaymentMethod
	Change    decimal.Decimal
}

// Settle resolves a payment for total. It has no side effects; the caller
// re-prompts on ErrInsufficientPayment.
func Settle(total decimal.Decimal, t Tender) (Settlement, error) {
	if total.IsNegative() {
		return Settlement{}, fmt.Errorf("%w: total cannot be negative", domain.ErrInvalidValue)
	}

	switch t.Method {
	case domain.PaymentCash:
		if t.Tendered.IsNegative() {
			return Settlement{}, fmt.Errorf("%w: tendered amount cannot be negative", domain.ErrInvalidValue)
		}
		if t.Tendered.LessThan(total) {
			return Settlement{}, fmt.Errorf("%w: tendered %s, due %s", domain.ErrInsufficientPayment, t.Tendered.StringFixed(2), total.StringFixed(2))
		}
		return Settlement{
			Committed: total,
			Status:    domain.StatusPaid,
			Method:    domain.PaymentCash,
			Change:    t.Tendered.Sub(total),
		}, nil

	case domain.PaymentGCash:
		if !t.Confirmed {
			return Settlement{
				Committed: decimal.Zero,
				Status:    domain.StatusUnpaidPending,
				Method:    domain.PaymentGCash,
				Change:    decimal.Zero,
			}, nil
		}
		return Settlement{
			Committed: total,
			Status:    domain.StatusPaid,
			Method:    domain.PaymentGCash,
			Change:    decimal.Zero,
		}, nil

	default:
		return Settlement{}, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidValue, t.Method)
	}
}
