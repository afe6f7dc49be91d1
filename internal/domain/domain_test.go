package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizeKey(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"guppy", "guppy"},
		{"  Guppy ", "guppy"},
		{"Red   Dragon\tBetta", "red dragon betta"},
		{"HALFMOON", "halfmoon"},
		{"ÉCLAIR Tetra", "éclair tetra"},
		{"   ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeKey(tt.in), "input %q", tt.in)
	}
}

func TestOrder_TotalAndQuantities(t *testing.T) {
	o := Order{
		Customer: "Ana",
		Lines: []Line{
			{Key: "guppy", Name: "Guppy", Quantity: 3, UnitPrice: decimal.RequireFromString("10.00")},
			{Key: "betta", Name: "Betta", Quantity: 1, UnitPrice: decimal.RequireFromString("150.50")},
		},
	}

	assert.True(t, o.Total().Equal(decimal.RequireFromString("180.50")))
	assert.Equal(t, map[string]int{"guppy": 3, "betta": 1}, o.Quantities())
	assert.False(t, o.IsEmpty())
	assert.True(t, Order{}.Total().IsZero())
}

func TestTransaction_CloneDoesNotShareItems(t *testing.T) {
	tx := Transaction{ID: "t1", Items: []Line{{Key: "guppy", Quantity: 2}}}
	c := tx.Clone()
	c.Items[0].Quantity = 99

	assert.Equal(t, 2, tx.Items[0].Quantity)
	assert.Equal(t, map[string]int{"guppy": 2}, tx.Quantities())
}

func TestStatusAndMethod(t *testing.T) {
	assert.True(t, StatusPaid.IsPaid())
	assert.False(t, StatusUnpaidPending.IsPaid())
	assert.True(t, StatusUnpaidPending.Valid())
	assert.False(t, TransactionStatus("REFUNDED").Valid())
	assert.True(t, PaymentCash.Valid())
	assert.False(t, PaymentMethod("CARD").Valid())
}
