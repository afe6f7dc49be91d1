package session

import (
	"context"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/ledger"
	"go.uber.org/zap"
)

// Report is the end-of-session summary.
type Report struct {
	ledger.Summary
	Stock   []domain.Item
	EndedAt time.Time
}

// EndSession abandons any open order, saves the catalog one last time and
// returns the final report. The report is valid even when the save fails.
func (c *Controller) EndSession(ctx context.Context) (Report, error) {
	ctx, span := c.tracer.Start(ctx, "session.end")
	defer span.End()

	if c.active != nil && !c.active.State().IsTerminal() {
		_ = c.active.Cancel()
		c.active = nil
		c.logger.Info("open order cancelled at end of session")
	}

	report := Report{
		Summary: c.ledger.Summary(),
		Stock:   c.catalog.Snapshot().Items(),
		EndedAt: c.now().UTC(),
	}
	report.Revenue = c.revenue

	c.logger.Info("session ended",
		zap.String("revenue", report.Revenue.StringFixed(2)),
		zap.Int("transactions", report.TransactionCount),
		zap.Int("pending", len(report.Pending)))

	return report, c.saveCatalog(ctx)
}
