package domain

import "github.com/shopspring/decimal"

// DefaultCustomer is recorded when the operator leaves the customer name blank.
const DefaultCustomer = "Guest"

// Line is one item of an order with the unit price captured when it was added.
type Line struct {
	Key       string          `json:"key"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

func (l Line) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is a finalized, immutable set of lines for one customer.
type Order struct {
	Customer string
	Lines    []Line
}

// Total sums every line at its frozen unit price.
func (o Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

// Quantities returns item key -> ordered quantity.
func (o Order) Quantities() map[string]int {
	q := make(map[string]int, len(o.Lines))
	for _, l := range o.Lines {
		q[l.Key] += l.Quantity
	}
	return q
}

func (o Order) IsEmpty() bool {
	return len(o.Lines) == 0
}
