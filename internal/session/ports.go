package session

import (
	"context"

	"github.com/fjod/go_till/internal/catalog"
	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// CatalogStore persists the item table.
// Consumers define this interface, not the storage implementations.
type CatalogStore interface {
	LoadCatalog(ctx context.Context) ([]domain.Item, error)
	SaveCatalog(ctx context.Context, items []domain.Item) error
}

// HistoryStore persists the transaction log. The log is append-only on disk,
// so removals rewrite it completely.
type HistoryStore interface {
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)
	AppendTransaction(ctx context.Context, tx domain.Transaction) error
	RewriteTransactions(ctx context.Context, txs []domain.Transaction) error
}

// Publisher delivers ledger events to downstream consumers. Failures are
// logged by the controller and never affect till state.
type Publisher interface {
	Publish(ctx context.Context, event domain.TransactionEvent) error
}

type SelectionKind int

const (
	SelectContinue SelectionKind = iota
	SelectFinish
	SelectCancel
)

// Selection is the operator's answer to "which item next?".
type Selection struct {
	Kind SelectionKind
	Item string // set for SelectContinue
}

func Continue(item string) Selection {
	return Selection{Kind: SelectContinue, Item: item}
}

func Finish() Selection {
	return Selection{Kind: SelectFinish}
}

func Cancel() Selection {
	return Selection{Kind: SelectCancel}
}

// Prompter collects validated operator input for one order. Each method
// re-asks until it has a valid value and returns domain.ErrCancelled when the
// operator backs out.
type Prompter interface {
	ItemSelection(ctx context.Context, view catalog.Snapshot, lines []domain.Line) (Selection, error)
	Quantity(ctx context.Context, item domain.Item, max int) (int, error)
	CustomerName(ctx context.Context) (string, error)
	PaymentMethod(ctx context.Context, total decimal.Decimal) (domain.PaymentMethod, error)
	CashTendered(ctx context.Context, total decimal.Decimal) (decimal.Decimal, error)
	GCashConfirmation(ctx context.Context, total decimal.Decimal) (bool, error)
	// Rejected tells the operator why the last input was not accepted.
	Rejected(err error)
}
