package session

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/fjod/go_till/internal/catalog"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/ledger"
	"github.com/fjod/go_till/internal/order"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/fjod/go_till/internal/session"

type Config struct {
	Catalog   CatalogStore
	History   HistoryStore
	Publisher Publisher // optional
	Logger    *zap.Logger

	// RestockOnVoid puts the goods of a removed PAID transaction back into
	// stock. When false a paid removal only corrects revenue.
	RestockOnVoid bool

	Now   func() time.Time // defaults to time.Now
	NewID func() string    // defaults to a random UUID
}

// Controller runs a till session: it owns the catalog, the ledger and the
// order currently being built, and persists every committed change.
type Controller struct {
	catalog *catalog.Catalog
	ledger  *ledger.Ledger
	revenue decimal.Decimal
	active  *order.Builder

	catalogStore CatalogStore
	history      HistoryStore
	publisher    Publisher
	logger       *zap.Logger
	tracer       trace.Tracer

	restockOnVoid bool
	now           func() time.Time
	newID         func() string
}

// Open loads the catalog and transaction history and starts a session.
// Session revenue is recomputed from the loaded history.
func Open(ctx context.Context, cfg Config) (*Controller, error) {
	if cfg.Catalog == nil || cfg.History == nil {
		return nil, fmt.Errorf("session: catalog and history stores are required")
	}

	items, err := cfg.Catalog.LoadCatalog(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	items, dropped := catalog.MergeDuplicates(items)
	for _, it := range dropped {
		logger.Warn("merged duplicate catalog row",
			zap.String("item", domain.NormalizeKey(it.Name)),
			zap.String("name", it.Name),
			zap.Int("stock", it.Stock))
	}
	cat, err := catalog.FromItems(items)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	history, err := cfg.History.LoadTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transaction history: %w", err)
	}
	led := ledger.New(history)

	c := &Controller{
		catalog:       cat,
		ledger:        led,
		revenue:       led.Revenue(),
		catalogStore:  cfg.Catalog,
		history:       cfg.History,
		publisher:     cfg.Publisher,
		logger:        logger,
		tracer:        otel.Tracer(tracerName),
		restockOnVoid: cfg.RestockOnVoid,
		now:           cfg.Now,
		newID:         cfg.NewID,
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = func() string { return uuid.New().String() }
	}

	c.logger.Info("session opened",
		zap.Int("items", cat.Len()),
		zap.Int("transactions", led.Len()),
		zap.String("revenue", c.revenue.StringFixed(2)))
	return c, nil
}

// CurrentStock returns a snapshot of the catalog
func (c *Controller) CurrentStock() catalog.Snapshot {
	return c.catalog.Snapshot()
}

// CurrentRevenue is the sum of paid transactions in the ledger
func (c *Controller) CurrentRevenue() decimal.Decimal {
	return c.revenue
}

// Transactions lists the ledger in insertion order
func (c *Controller) Transactions() iter.Seq2[int, domain.Transaction] {
	return c.ledger.All()
}

func (c *Controller) TransactionCount() int {
	return c.ledger.Len()
}

// persisted wraps a storage failure. The in-memory change that triggered the
// write stays applied.
func (c *Controller) persisted(op string, err error) error {
	if err == nil {
		return nil
	}
	c.logger.Warn("persistence failed, in-memory state kept", zap.String("op", op), zap.Error(err))
	return fmt.Errorf("%w: %s: %w", domain.ErrPersistence, op, err)
}

func (c *Controller) saveCatalog(ctx context.Context) error {
	return c.persisted("save catalog", c.catalogStore.SaveCatalog(ctx, c.catalog.Snapshot().Items()))
}

func (c *Controller) publish(ctx context.Context, event domain.TransactionEvent) {
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(ctx, event); err != nil {
		c.logger.Warn("failed to publish event",
			zap.String("event_type", string(event.Type)),
			zap.String("transaction_id", event.Transaction.ID),
			zap.Error(err))
	}
}
