// Package app assembles the till's stores and publisher from configuration.
package app

import (
	"context"
	"fmt"
	"os"

	"github.com/fjod/go_till/internal/config"
	"github.com/fjod/go_till/internal/csvstore"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/publisher"
	"github.com/fjod/go_till/internal/repository"
	"go.uber.org/zap"
)

// Store holds both the catalog and the transaction history.
type Store interface {
	LoadCatalog(ctx context.Context) ([]domain.Item, error)
	SaveCatalog(ctx context.Context, items []domain.Item) error
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)
	AppendTransaction(ctx context.Context, tx domain.Transaction) error
	RewriteTransactions(ctx context.Context, txs []domain.Transaction) error
}

// Publisher is a session publisher that must be closed on exit.
type Publisher interface {
	Publish(ctx context.Context, event domain.TransactionEvent) error
	Close() error
}

// OpenStore opens the configured backend. SQL backends are migrated before
// they are returned. closeFn releases the backend and is never nil.
func OpenStore(cfg config.StoreConfig, logger *zap.Logger) (store Store, closeFn func() error, err error) {
	switch cfg.Driver {
	case config.DriverCSV:
		s, err := csvstore.New(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using csv store", zap.String("dir", cfg.DataDir))
		return s, func() error { return nil }, nil

	case config.DriverSQLite, config.DriverPostgres:
		if cfg.Driver == config.DriverSQLite && cfg.DataDir != "" {
			if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("failed to create data dir: %w", err)
			}
		}
		repo, err := repository.NewRepository(repository.Driver(cfg.Driver), cfg.DSN)
		if err != nil {
			return nil, nil, err
		}
		if err := repo.RunMigrations(); err != nil {
			_ = repo.Close()
			return nil, nil, err
		}
		logger.Info("using sql store", zap.String("driver", cfg.Driver))
		return repo, repo.Close, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown store.driver %q", config.ErrInvalidConfig, cfg.Driver)
	}
}

// NewPublisher returns a Kafka publisher when brokers are configured and a
// no-op one otherwise.
func NewPublisher(cfg config.KafkaConfig, logger *zap.Logger) Publisher {
	if !cfg.Enabled() {
		return publisher.Nop{}
	}
	logger.Info("publishing transaction events", zap.Strings("brokers", cfg.Brokers), zap.String("topic", cfg.Topic))
	return publisher.NewKafkaPublisher(publisher.Config{Brokers: cfg.Brokers, Topic: cfg.Topic}, logger)
}
