package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/order"
	"github.com/fjod/go_till/internal/payment"
	"github.com/fjod/go_till/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"
)

// Receipt is the result of a checkout. Placed is false when the operator
// finished or cancelled without ordering anything.
type Receipt struct {
	Placed      bool
	Transaction domain.Transaction
	Settlement  payment.Settlement
}

// NewOrder starts a builder against the live catalog. Only one order may be
// open at a time.
func (c *Controller) NewOrder() (*order.Builder, error) {
	if c.active != nil && !c.active.State().IsTerminal() {
		return nil, domain.ErrOrderInProgress
	}
	c.active = order.NewBuilder(c.catalog)
	return c.active, nil
}

// Commit settles the order finalized on b and records it. b must be the
// builder returned by the latest NewOrder; once its order is recorded it is
// released and committing it again fails with ErrOrderClosed. A failed
// settlement keeps b committable, so the caller can retry with another
// tender.
//
// A paid order deducts every line from the catalog in one step; if any line
// no longer fits the stock the whole commit fails with ErrStockRace and
// nothing changes. A pending GCash order is recorded without touching stock
// or revenue. A persistence error is returned together with a valid receipt.
func (c *Controller) Commit(ctx context.Context, b *order.Builder, tender payment.Tender) (Receipt, error) {
	ctx, span := c.tracer.Start(ctx, "session.checkout")
	defer span.End()

	if b == nil || b != c.active {
		return Receipt{}, domain.ErrOrderClosed
	}
	ord, err := b.Order()
	if err != nil {
		return Receipt{}, err
	}
	if err := checkLines(ord); err != nil {
		return Receipt{}, err
	}

	total := ord.Total()
	settlement, err := payment.Settle(total, tender)
	if err != nil {
		return Receipt{}, err
	}

	if settlement.Status.IsPaid() {
		deltas := make(map[string]int, len(ord.Lines))
		for key, qty := range ord.Quantities() {
			deltas[key] = -qty
		}
		if err := c.catalog.ApplyDeltas(deltas); err != nil {
			span.SetStatus(codes.Error, "stock changed since the order was built")
			return Receipt{}, fmt.Errorf("%w: %w", domain.ErrStockRace, err)
		}
	}

	tx := domain.Transaction{
		ID:        c.newID(),
		Customer:  ord.Customer,
		Items:     append([]domain.Line(nil), ord.Lines...),
		Total:     total,
		Method:    settlement.Method,
		Status:    settlement.Status,
		CreatedAt: c.now().UTC(),
	}
	c.ledger.Append(tx)
	c.active = nil
	if tx.Status.IsPaid() {
		c.revenue = c.revenue.Add(tx.Total)
	}

	span.SetAttributes(
		attribute.String("transaction.id", tx.ID),
		attribute.String("transaction.status", tx.Status.String()),
		attribute.String("transaction.total", tx.Total.StringFixed(2)),
	)
	logger.WithTrace(ctx, c.logger).Info("transaction recorded",
		zap.String("transaction_id", tx.ID),
		zap.String("status", tx.Status.String()),
		zap.String("total", tx.Total.StringFixed(2)),
		zap.Int("lines", len(tx.Items)))

	var errs []error
	if tx.Status.IsPaid() {
		errs = append(errs, c.saveCatalog(ctx))
	}
	errs = append(errs, c.persisted("append transaction", c.history.AppendTransaction(ctx, tx)))

	c.publish(ctx, domain.TransactionEvent{
		Type:        domain.EventTransactionRecorded,
		Transaction: tx,
		OccurredAt:  tx.CreatedAt,
	})

	return Receipt{Placed: true, Transaction: tx, Settlement: settlement}, errors.Join(errs...)
}

// TakeOrder runs one interactive checkout through p. Cancelling at any prompt
// before the order is committed leaves the catalog and ledger untouched.
func (c *Controller) TakeOrder(ctx context.Context, p Prompter) (Receipt, error) {
	b, err := c.NewOrder()
	if err != nil {
		return Receipt{}, err
	}
	defer func() {
		if !b.State().IsTerminal() {
			_ = b.Cancel()
		}
		if c.active == b {
			c.active = nil
		}
	}()

	finished, err := c.collectLines(ctx, p, b)
	if err != nil || !finished || len(b.Lines()) == 0 {
		return Receipt{}, ignoreCancel(err)
	}

	customer, err := p.CustomerName(ctx)
	if err != nil {
		return Receipt{}, ignoreCancel(err)
	}
	ord, err := b.Finalize(customer)
	if err != nil {
		return Receipt{}, err
	}

	total := ord.Total()
	tender, err := c.promptTender(ctx, p, total)
	for err == nil {
		receipt, commitErr := c.Commit(ctx, b, tender)
		if !errors.Is(commitErr, domain.ErrInsufficientPayment) {
			return receipt, commitErr
		}
		// only the amount is asked again; the method stays
		p.Rejected(commitErr)
		var tendered decimal.Decimal
		tendered, err = p.CashTendered(ctx, total)
		tender = payment.Cash(tendered)
	}
	c.logger.Info("order abandoned at payment", zap.String("total", total.StringFixed(2)))
	return Receipt{}, ignoreCancel(err)
}

// checkLines rejects orders that would add stock back on a sale.
func checkLines(ord domain.Order) error {
	if ord.IsEmpty() {
		return domain.ErrEmptyOrder
	}
	for _, l := range ord.Lines {
		if l.Quantity <= 0 {
			return fmt.Errorf("%w: %s has quantity %d", domain.ErrInvalidValue, l.Name, l.Quantity)
		}
	}
	return nil
}

// collectLines reports whether the operator finished the order, as opposed to
// cancelling it.
func (c *Controller) collectLines(ctx context.Context, p Prompter, b *order.Builder) (bool, error) {
	for {
		sel, err := p.ItemSelection(ctx, c.catalog.Snapshot(), b.Lines())
		if err != nil {
			return false, err
		}

		switch sel.Kind {
		case SelectFinish:
			return true, nil
		case SelectCancel:
			return false, b.Cancel()
		}

		item, ok := c.catalog.Lookup(sel.Item)
		if !ok {
			p.Rejected(fmt.Errorf("%w: %q", domain.ErrUnknownItem, sel.Item))
			continue
		}
		remaining, err := b.Remaining(item.Key)
		if err != nil {
			p.Rejected(err)
			continue
		}
		if remaining == 0 {
			p.Rejected(fmt.Errorf("%w: %s is out of stock", domain.ErrInsufficientStock, item.Name))
			continue
		}

		qty, err := p.Quantity(ctx, item, remaining)
		if errors.Is(err, domain.ErrCancelled) {
			continue
		}
		if err != nil {
			return false, err
		}
		if _, err := b.AddLine(item.Key, qty); err != nil {
			p.Rejected(err)
		}
	}
}

func (c *Controller) promptTender(ctx context.Context, p Prompter, total decimal.Decimal) (payment.Tender, error) {
	method, err := p.PaymentMethod(ctx, total)
	if err != nil {
		return payment.Tender{}, err
	}
	switch method {
	case domain.PaymentCash:
		tendered, err := p.CashTendered(ctx, total)
		if err != nil {
			return payment.Tender{}, err
		}
		return payment.Cash(tendered), nil
	case domain.PaymentGCash:
		confirmed, err := p.GCashConfirmation(ctx, total)
		if err != nil {
			return payment.Tender{}, err
		}
		return payment.GCash(confirmed), nil
	default:
		return payment.Tender{}, fmt.Errorf("%w: unsupported payment method %q", domain.ErrInvalidValue, method)
	}
}

func ignoreCancel(err error) error {
	if errors.Is(err, domain.ErrCancelled) {
		return nil
	}
	return err
}
