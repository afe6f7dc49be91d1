package session

import (
	"context"
	"errors"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/pkg/logger"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// Reversal describes what removing a transaction undid.
type Reversal struct {
	Transaction  domain.Transaction
	RevenueDelta decimal.Decimal
	Restocked    map[string]int
}

// RemoveTransaction deletes the ledger entry at index (as listed by
// Transactions) and reverses its effect.
//
// A paid transaction is taken out of revenue. Its goods go back on the shelf
// only when the session was opened with RestockOnVoid; items deleted from the
// catalog since the sale are skipped. A pending transaction never moved stock
// or revenue, so removing it only drops the entry.
func (c *Controller) RemoveTransaction(ctx context.Context, index int) (Reversal, error) {
	ctx, span := c.tracer.Start(ctx, "session.remove_transaction")
	defer span.End()

	removed, err := c.ledger.RemoveAt(index)
	if err != nil {
		return Reversal{}, err
	}
	rev := Reversal{Transaction: removed, RevenueDelta: decimal.Zero}

	if removed.Status.IsPaid() {
		c.revenue = c.revenue.Sub(removed.Total)
		rev.RevenueDelta = removed.Total.Neg()
		if c.restockOnVoid {
			rev.Restocked = c.restock(removed)
		}
	}

	span.SetAttributes(
		attribute.String("transaction.id", removed.ID),
		attribute.String("transaction.status", removed.Status.String()),
	)
	logger.WithTrace(ctx, c.logger).Info("transaction removed",
		zap.String("transaction_id", removed.ID),
		zap.String("status", removed.Status.String()),
		zap.String("total", removed.Total.StringFixed(2)),
		zap.Int("restocked_items", len(rev.Restocked)))

	var errs []error
	if len(rev.Restocked) > 0 {
		errs = append(errs, c.saveCatalog(ctx))
	}
	errs = append(errs, c.persisted("rewrite transactions", c.history.RewriteTransactions(ctx, c.ledger.Transactions())))

	c.publish(ctx, domain.TransactionEvent{
		Type:        domain.EventTransactionVoided,
		Transaction: removed,
		Restocked:   rev.Restocked,
		OccurredAt:  c.now().UTC(),
	})

	return rev, errors.Join(errs...)
}

func (c *Controller) restock(tx domain.Transaction) map[string]int {
	restocked := make(map[string]int)
	for key, qty := range tx.Quantities() {
		if _, err := c.catalog.AdjustStock(key, qty); err != nil {
			c.logger.Warn("skipping restock of item",
				zap.String("transaction_id", tx.ID),
				zap.String("item", key),
				zap.Error(err))
			continue
		}
		restocked[key] = qty
	}
	return restocked
}
