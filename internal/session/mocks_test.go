package session

import (
	"context"
	"errors"

	"github.com/fjod/go_till/internal/catalog"
	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

// MockStore implements CatalogStore and HistoryStore in memory
type MockStore struct {
	Items []domain.Item
	Txs   []domain.Transaction

	LoadErr    error
	SaveErr    error
	AppendErr  error
	RewriteErr error

	Saves    int
	Rewrites int
}

func (m *MockStore) LoadCatalog(_ context.Context) ([]domain.Item, error) {
	return append([]domain.Item(nil), m.Items...), m.LoadErr
}

func (m *MockStore) SaveCatalog(_ context.Context, items []domain.Item) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saves++
	m.Items = append([]domain.Item(nil), items...)
	return nil
}

func (m *MockStore) LoadTransactions(_ context.Context) ([]domain.Transaction, error) {
	return append([]domain.Transaction(nil), m.Txs...), m.LoadErr
}

func (m *MockStore) AppendTransaction(_ context.Context, tx domain.Transaction) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.Txs = append(m.Txs, tx)
	return nil
}

func (m *MockStore) RewriteTransactions(_ context.Context, txs []domain.Transaction) error {
	if m.RewriteErr != nil {
		return m.RewriteErr
	}
	m.Rewrites++
	m.Txs = append([]domain.Transaction(nil), txs...)
	return nil
}

// MockPublisher records published events
type MockPublisher struct {
	Events []domain.TransactionEvent
	Err    error
}

func (m *MockPublisher) Publish(_ context.Context, event domain.TransactionEvent) error {
	m.Events = append(m.Events, event)
	return m.Err
}

var errScriptExhausted = errors.New("prompt script exhausted")

// ScriptedPrompter answers prompts from fixed queues
type ScriptedPrompter struct {
	Selections    []Selection
	Quantities    []int
	Customer      string
	Methods       []domain.PaymentMethod
	Cash          []decimal.Decimal
	Confirmations []bool

	// CancelAt makes the named prompt return domain.ErrCancelled
	CancelAt string

	Rejections  []error
	MaxOffered  []int
	LinesOnExit []domain.Line
}

func (p *ScriptedPrompter) ItemSelection(_ context.Context, _ catalog.Snapshot, lines []domain.Line) (Selection, error) {
	p.LinesOnExit = lines
	if len(p.Selections) == 0 {
		return Selection{}, errScriptExhausted
	}
	sel := p.Selections[0]
	p.Selections = p.Selections[1:]
	return sel, nil
}

func (p *ScriptedPrompter) Quantity(_ context.Context, _ domain.Item, max int) (int, error) {
	p.MaxOffered = append(p.MaxOffered, max)
	if p.CancelAt == "quantity" {
		return 0, domain.ErrCancelled
	}
	if len(p.Quantities) == 0 {
		return 0, errScriptExhausted
	}
	q := p.Quantities[0]
	p.Quantities = p.Quantities[1:]
	return q, nil
}

func (p *ScriptedPrompter) CustomerName(_ context.Context) (string, error) {
	if p.CancelAt == "customer" {
		return "", domain.ErrCancelled
	}
	return p.Customer, nil
}

func (p *ScriptedPrompter) PaymentMethod(_ context.Context, _ decimal.Decimal) (domain.PaymentMethod, error) {
	if p.CancelAt == "payment" {
		return "", domain.ErrCancelled
	}
	if len(p.Methods) == 0 {
		return "", errScriptExhausted
	}
	m := p.Methods[0]
	p.Methods = p.Methods[1:]
	return m, nil
}

func (p *ScriptedPrompter) CashTendered(_ context.Context, _ decimal.Decimal) (decimal.Decimal, error) {
	if len(p.Cash) == 0 {
		return decimal.Zero, errScriptExhausted
	}
	c := p.Cash[0]
	p.Cash = p.Cash[1:]
	return c, nil
}

func (p *ScriptedPrompter) GCashConfirmation(_ context.Context, _ decimal.Decimal) (bool, error) {
	if len(p.Confirmations) == 0 {
		return false, errScriptExhausted
	}
	c := p.Confirmations[0]
	p.Confirmations = p.Confirmations[1:]
	return c, nil
}

func (p *ScriptedPrompter) Rejected(err error) {
	p.Rejections = append(p.Rejections, err)
}
