package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/fjod/go_till/internal/config"
	"github.com/fjod/go_till/internal/csvstore"
	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/publisher"
	"github.com/fjod/go_till/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOpenStore(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name string
		cfg  config.StoreConfig
		want any
	}{
		{"csv", config.StoreConfig{Driver: config.DriverCSV, DataDir: filepath.Join(dir, "csv")}, &csvstore.Store{}},
		{"sqlite", config.StoreConfig{Driver: config.DriverSQLite, DataDir: filepath.Join(dir, "db"),
			DSN: filepath.Join(dir, "db", "till.db")}, &repository.Repository{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, closeStore, err := OpenStore(tt.cfg, zap.NewNop())
			require.NoError(t, err)
			defer func() { assert.NoError(t, closeStore()) }()
			assert.IsType(t, tt.want, store)

			ctx := context.Background()
			items := []domain.Item{{Key: "guppy", Name: "Guppy", Price: decimal.NewFromInt(10), Stock: 5}}
			require.NoError(t, store.SaveCatalog(ctx, items))
			loaded, err := store.LoadCatalog(ctx)
			require.NoError(t, err)
			require.Len(t, loaded, 1)
			assert.Equal(t, "Guppy", loaded[0].Name)
		})
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	_, _, err := OpenStore(config.StoreConfig{Driver: "mongo"}, zap.NewNop())

	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestNewPublisher(t *testing.T) {
	assert.IsType(t, publisher.Nop{}, NewPublisher(config.KafkaConfig{}, zap.NewNop()))

	p := NewPublisher(config.KafkaConfig{Brokers: []string{"localhost:9092"}, Topic: "t"}, zap.NewNop())
	assert.IsType(t, &publisher.KafkaPublisher{}, p)
	assert.NoError(t, p.Close())
}
