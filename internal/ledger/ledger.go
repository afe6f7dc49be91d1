package ledger

import (
	"fmt"
	"iter"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// Ledger keeps settled transactions in insertion order.
type Ledger struct {
	txs []domain.Transaction
}

// New creates a ledger seeded with previously recorded history.
func New(history []domain.Transaction) *Ledger {
	l := &Ledger{txs: make([]domain.Transaction, 0, len(history))}
	for _, tx := range history {
		l.Append(tx)
	}
	return l
}

func (l *Ledger) Append(tx domain.Transaction) {
	l.txs = append(l.txs, tx.Clone())
}

// RemoveAt deletes the transaction at index and returns it so the caller can
// apply the reversal.
func (l *Ledger) RemoveAt(index int) (domain.Transaction, error) {
	if index < 0 || index >= len(l.txs) {
		return domain.Transaction{}, fmt.Errorf("%w: %d (ledger has %d)", domain.ErrIndexOutOfRange, index, len(l.txs))
	}
	removed := l.txs[index]
	l.txs = append(l.txs[:index:index], l.txs[index+1:]...)
	return removed, nil
}

func (l *Ledger) At(index int) (domain.Transaction, error) {
	if index < 0 || index >= len(l.txs) {
		return domain.Transaction{}, fmt.Errorf("%w: %d (ledger has %d)", domain.ErrIndexOutOfRange, index, len(l.txs))
	}
	return l.txs[index].Clone(), nil
}

func (l *Ledger) Len() int {
	return len(l.txs)
}

// All yields index and transaction pairs in insertion order. Each iteration
// sees the ledger as it is when the iteration starts.
func (l *Ledger) All() iter.Seq2[int, domain.Transaction] {
	return func(yield func(int, domain.Transaction) bool) {
		txs := l.txs
		for i, tx := range txs {
			if !yield(i, tx.Clone()) {
				return
			}
		}
	}
}

// Transactions returns a copy of the full history, e.g. for rewriting storage.
func (l *Ledger) Transactions() []domain.Transaction {
	out := make([]domain.Transaction, 0, len(l.txs))
	for _, tx := range l.All() {
		out = append(out, tx)
	}
	return out
}

// Revenue sums the totals of paid transactions.
func (l *Ledger) Revenue() decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range l.txs {
		if tx.Status.IsPaid() {
			sum = sum.Add(tx.Total)
		}
	}
	return sum
}

// Pending returns the transactions still awaiting payment.
func (l *Ledger) Pending() []domain.Transaction {
	var out []domain.Transaction
	for _, tx := range l.All() {
		if tx.Status == domain.StatusUnpaidPending {
			out = append(out, tx)
		}
	}
	return out
}
