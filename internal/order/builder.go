package order

import (
	"fmt"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// Inventory is the live catalog view a builder checks availability against.
type Inventory interface {
	Lookup(name string) (domain.Item, bool)
}

// State represents the life cycle of an order being built
type State string

const (
	StateEmpty        State = "EMPTY"
	StateAccumulating State = "ACCUMULATING"
	StateFinalized    State = "FINALIZED"
	StateCancelled    State = "CANCELLED"
)

func (s State) IsTerminal() bool {
	return s == StateFinalized || s == StateCancelled
}

// String representation (for logging)
func (s State) String() string {
	return string(s)
}

// Builder accumulates lines for one customer order. It only reads stock;
// nothing is deducted until the session commits a paid order, so cancelling
// needs no rollback.
type Builder struct {
	inv   Inventory
	lines []domain.Line
	index map[string]int // key -> position in lines
	state State
	order domain.Order // set by Finalize
}

func NewBuilder(inv Inventory) *Builder {
	return &Builder{
		inv:   inv,
		index: make(map[string]int),
		state: StateEmpty,
	}
}

func (b *Builder) State() State {
	return b.state
}

// AddLine adds qty units of the named item. Repeated calls for the same item
// accumulate into one line whose unit price is the one seen on the first call.
func (b *Builder) AddLine(name string, qty int) (domain.Line, error) {
	if b.state.IsTerminal() {
		return domain.Line{}, domain.ErrOrderClosed
	}
	item, ok := b.inv.Lookup(name)
	if !ok {
		return domain.Line{}, fmt.Errorf("%w: %q", domain.ErrUnknownItem, name)
	}
	if qty <= 0 {
		return domain.Line{}, fmt.Errorf("%w: quantity must be greater than 0", domain.ErrInvalidValue)
	}
	remaining := item.Stock - b.reserved(item.Key)
	if qty > remaining {
		return domain.Line{}, fmt.Errorf("%w: only %d of %s available", domain.ErrInsufficientStock, max(remaining, 0), item.Name)
	}

	if i, exists := b.index[item.Key]; exists {
		b.lines[i].Quantity += qty
		return b.lines[i], nil
	}
	line := domain.Line{
		Key:       item.Key,
		Name:      item.Name,
		Quantity:  qty,
		UnitPrice: item.Price,
	}
	b.index[item.Key] = len(b.lines)
	b.lines = append(b.lines, line)
	b.state = StateAccumulating
	return line, nil
}

// Remaining is how many more units of the item this order may still take.
func (b *Builder) Remaining(name string) (int, error) {
	item, ok := b.inv.Lookup(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", domain.ErrUnknownItem, name)
	}
	return max(item.Stock-b.reserved(item.Key), 0), nil
}

func (b *Builder) reserved(key string) int {
	if i, exists := b.index[key]; exists {
		return b.lines[i].Quantity
	}
	return 0
}

// Cancel abandons the order. Cancelling twice is allowed; cancelling a
// finalized order is not.
func (b *Builder) Cancel() error {
	if b.state == StateFinalized {
		return domain.ErrOrderClosed
	}
	b.state = StateCancelled
	return nil
}

// Finalize closes the builder and returns the order. A blank customer name
// is recorded as domain.DefaultCustomer.
func (b *Builder) Finalize(customer string) (domain.Order, error) {
	if b.state.IsTerminal() {
		return domain.Order{}, domain.ErrOrderClosed
	}
	if len(b.lines) == 0 {
		return domain.Order{}, domain.ErrEmptyOrder
	}
	customer = domain.CleanName(customer)
	if customer == "" {
		customer = domain.DefaultCustomer
	}
	b.state = StateFinalized
	b.order = domain.Order{
		Customer: customer,
		Lines:    b.Lines(),
	}
	return b.Order()
}

// Order returns the finalized order. An empty builder reports ErrEmptyOrder;
// any other unfinalized builder reports ErrInvalidValue.
func (b *Builder) Order() (domain.Order, error) {
	switch {
	case b.state == StateFinalized:
		return domain.Order{
			Customer: b.order.Customer,
			Lines:    append([]domain.Line(nil), b.order.Lines...),
		}, nil
	case len(b.lines) == 0:
		return domain.Order{}, domain.ErrEmptyOrder
	default:
		return domain.Order{}, fmt.Errorf("%w: order is %s, finalize it first", domain.ErrInvalidValue, b.state)
	}
}

// Lines returns a copy of the lines added so far
func (b *Builder) Lines() []domain.Line {
	return append([]domain.Line(nil), b.lines...)
}

// Total is the running order total at frozen unit prices
func (b *Builder) Total() decimal.Decimal {
	return domain.Order{Lines: b.lines}.Total()
}
