package repository

import (
	"context"
	"testing"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func setupSQLite(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(DriverSQLite, ":memory:")
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func setupPostgres(t *testing.T) *Repository {
	t.Helper()
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	repo, err := NewRepository(DriverPostgres, dsn)
	require.NoError(t, err)
	require.NoError(t, repo.RunMigrations())
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func sampleItems() []domain.Item {
	return []domain.Item{
		{Key: "guppy", Name: "Guppy", Price: decimal.RequireFromString("10.00"), Stock: 5},
		{Key: "betta halfmoon", Name: "Betta Halfmoon", Price: decimal.RequireFromString("150.75"), Stock: 0},
		{Key: "neon tetra", Name: "Neon Tetra", Price: decimal.RequireFromString("4.25"), Stock: 30},
	}
}

func sampleTx(id string, status domain.TransactionStatus) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Customer: "Ana",
		Items: []domain.Line{
			{Key: "guppy", Name: "Guppy", Quantity: 3, UnitPrice: decimal.RequireFromString("10.00")},
		},
		Total:     decimal.RequireFromString("30.00"),
		Method:    domain.PaymentCash,
		Status:    status,
		CreatedAt: time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

// exercise runs the same contract against every backend
func exercise(t *testing.T, setup func(*testing.T) *Repository) {
	t.Run("empty store loads empty", func(t *testing.T) {
		repo := setup(t)
		items, err := repo.LoadCatalog(context.Background())
		require.NoError(t, err)
		assert.Empty(t, items)

		txs, err := repo.LoadTransactions(context.Background())
		require.NoError(t, err)
		assert.Empty(t, txs)
	})

	t.Run("catalog round trip", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		require.NoError(t, repo.SaveCatalog(ctx, sampleItems()))

		// saving again replaces rather than appends
		updated := sampleItems()[:2]
		updated[0].Stock = 2
		require.NoError(t, repo.SaveCatalog(ctx, updated))

		got, err := repo.LoadCatalog(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for i, want := range updated {
			assert.Equal(t, want.Key, got[i].Key)
			assert.Equal(t, want.Name, got[i].Name)
			assert.Equal(t, want.Stock, got[i].Stock)
			assert.True(t, want.Price.Equal(got[i].Price), "price of %s: %s", want.Key, got[i].Price)
		}
	})

	t.Run("transactions round trip", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		require.NoError(t, repo.AppendTransaction(ctx, sampleTx("tx-1", domain.StatusPaid)))
		require.NoError(t, repo.AppendTransaction(ctx, sampleTx("tx-2", domain.StatusUnpaidPending)))

		got, err := repo.LoadTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "tx-1", got[0].ID)
		assert.Equal(t, domain.StatusUnpaidPending, got[1].Status)
		assert.Equal(t, domain.PaymentCash, got[0].Method)
		assert.True(t, got[0].Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, got[0].CreatedAt.Equal(sampleTx("", "").CreatedAt))
		require.Len(t, got[0].Items, 1)
		assert.Equal(t, 3, got[0].Items[0].Quantity)
		assert.True(t, got[0].Items[0].UnitPrice.Equal(decimal.NewFromInt(10)))
	})

	t.Run("duplicate id", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		require.NoError(t, repo.AppendTransaction(ctx, sampleTx("tx-1", domain.StatusPaid)))

		err := repo.AppendTransaction(ctx, sampleTx("tx-1", domain.StatusPaid))
		assert.ErrorIs(t, err, ErrDuplicateTransaction)
	})

	t.Run("rewrite keeps order", func(t *testing.T) {
		repo := setup(t)
		ctx := context.Background()
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, repo.AppendTransaction(ctx, sampleTx(id, domain.StatusPaid)))
		}

		require.NoError(t, repo.RewriteTransactions(ctx, []domain.Transaction{
			sampleTx("c", domain.StatusPaid),
			sampleTx("a", domain.StatusPaid),
		}))

		got, err := repo.LoadTransactions(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "c", got[0].ID)
		assert.Equal(t, "a", got[1].ID)
	})
}

func TestRepository_SQLite(t *testing.T) {
	exercise(t, setupSQLite)
}

func TestRepository_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container test skipped in short mode")
	}
	exercise(t, setupPostgres)
}

func TestRunMigrations_Idempotent(t *testing.T) {
	repo := setupSQLite(t)
	assert.NoError(t, repo.RunMigrations())
}

func TestNewRepository_UnknownDriver(t *testing.T) {
	_, err := NewRepository("mysql", "whatever")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestLoadCatalog_CancelledContext(t *testing.T) {
	repo := setupSQLite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := repo.LoadCatalog(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLoadTransactions_RejectsUnknownEnums(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(tx *domain.Transaction)
	}{
		{
			name:   "unknown payment method",
			mutate: func(tx *domain.Transaction) { tx.Method = "Barter" },
		},
		{
			name:   "unknown status",
			mutate: func(tx *domain.Transaction) { tx.Status = "Refunded" },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := setupSQLite(t)
			ctx := context.Background()

			tx := sampleTx("t-bad", domain.StatusPaid)
			tt.mutate(&tx)
			require.NoError(t, repo.AppendTransaction(ctx, tx))

			txs, err := repo.LoadTransactions(ctx)
			assert.ErrorIs(t, err, domain.ErrInvalidValue)
			assert.Nil(t, txs)
		})
	}
}
