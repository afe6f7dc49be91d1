package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// --- Mock ---

type MockStore struct {
	items []domain.Item
	txs   []domain.Transaction
	err   error
}

func (m MockStore) LoadCatalog(_ context.Context) ([]domain.Item, error) {
	return m.items, m.err
}

func (m MockStore) LoadTransactions(_ context.Context) ([]domain.Transaction, error) {
	return m.txs, m.err
}

// --- helper ---

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleStore() MockStore {
	created := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	guppy := domain.Line{Key: "guppy", Name: "Guppy", Quantity: 3, UnitPrice: dec("10")}
	betta := domain.Line{Key: "betta", Name: "Betta", Quantity: 1, UnitPrice: dec("25.5")}
	return MockStore{
		items: []domain.Item{
			{Key: "guppy", Name: "Guppy", Price: dec("10"), Stock: 2},
			{Key: "betta", Name: "Betta", Price: dec("25.5"), Stock: 0},
		},
		txs: []domain.Transaction{
			{ID: "tx-1", Customer: "Ana", Items: []domain.Line{guppy}, Total: dec("30"),
				Method: domain.PaymentCash, Status: domain.StatusPaid, CreatedAt: created},
			{ID: "tx-2", Customer: "Guest", Items: []domain.Line{betta}, Total: dec("25.5"),
				Method: domain.PaymentGCash, Status: domain.StatusUnpaidPending, CreatedAt: created},
		},
	}
}

func serve(t *testing.T, store MockStore, path string) *httptest.ResponseRecorder {
	t.Helper()
	router := NewRouter(NewReportHandler(store, store, 5*time.Second, nil), 5*time.Second)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, path, nil))
	return recorder
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

// --- tests ---

func TestHealth(t *testing.T) {
	rec := serve(t, MockStore{}, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode[map[string]string](t, rec)["status"])
	assert.NotEmpty(t, rec.Header().Get("Content-Type"))
}

func TestCatalog_Success(t *testing.T) {
	rec := serve(t, sampleStore(), "/api/v1/catalog")

	require.Equal(t, http.StatusOK, rec.Code)
	items := decode[[]ItemDTO](t, rec)
	require.Len(t, items, 2)
	assert.Equal(t, ItemDTO{Key: "guppy", Name: "Guppy", Price: "10.00", Stock: 2, InStock: true}, items[0])
	assert.Equal(t, "25.50", items[1].Price)
	assert.False(t, items[1].InStock)
}

func TestCatalog_EmptyIsArray(t *testing.T) {
	rec := serve(t, MockStore{}, "/api/v1/catalog")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestTransactions(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantIDs []string
	}{
		{"all", "", []string{"tx-1", "tx-2"}},
		{"paid", "?status=PAID", []string{"tx-1"}},
		{"pending lower case", "?status=unpaid_pending", []string{"tx-2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, sampleStore(), "/api/v1/transactions"+tt.query)

			require.Equal(t, http.StatusOK, rec.Code)
			var ids []string
			for _, tx := range decode[[]TransactionDTO](t, rec) {
				ids = append(ids, tx.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestTransactions_Shape(t *testing.T) {
	rec := serve(t, sampleStore(), "/api/v1/transactions?status=PAID")

	txs := decode[[]TransactionDTO](t, rec)
	require.Len(t, txs, 1)
	assert.Equal(t, "30.00", txs[0].TotalAmount)
	assert.Equal(t, "CASH", txs[0].PaymentMethod)
	assert.Equal(t, "2026-03-14T09:30:00Z", txs[0].CreatedAt)
	assert.Equal(t, []LineDTO{{Name: "Guppy", Quantity: 3, UnitPrice: "10.00", Subtotal: "30.00"}}, txs[0].Items)
}

func TestTransactions_InvalidStatus(t *testing.T) {
	rec := serve(t, sampleStore(), "/api/v1/transactions?status=refunded")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_status", decode[ErrorResponse](t, rec).Code)
}

func TestReport(t *testing.T) {
	rec := serve(t, sampleStore(), "/api/v1/report")

	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[ReportDTO](t, rec)
	assert.Equal(t, "30.00", report.TotalRevenue)
	assert.Equal(t, 2, report.TotalTransactions)
	assert.Equal(t, 1, report.PaidTransactions)
	require.Len(t, report.PendingTransactions, 1)
	assert.Equal(t, "tx-2", report.PendingTransactions[0].ID)
	require.NotNil(t, report.BestSeller)
	assert.Equal(t, BestSellerDTO{Name: "Guppy", QuantitySold: 3}, *report.BestSeller)
}

func TestReport_NoSales(t *testing.T) {
	rec := serve(t, MockStore{}, "/api/v1/report")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"total_revenue": "0.00",
		"total_transactions": 0,
		"paid_transactions": 0,
		"pending_transactions": [],
		"best_seller": null
	}`, rec.Body.String())
}

func TestStoreError(t *testing.T) {
	store := MockStore{err: errors.New("database is locked")}

	for _, path := range []string{"/api/v1/catalog", "/api/v1/transactions", "/api/v1/report"} {
		t.Run(path, func(t *testing.T) {
			rec := serve(t, store, path)

			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			resp := decode[ErrorResponse](t, rec)
			assert.Equal(t, "store_unavailable", resp.Code)
			assert.NotContains(t, resp.Error, "database is locked")
		})
	}
}

func TestStoreError_LogsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	store := MockStore{err: errors.New("boom")}
	router := NewRouter(NewReportHandler(store, store, time.Second, zap.New(core)), time.Second)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/report", nil)
	req.Header.Set("X-Request-Id", "req-42")

	router.ServeHTTP(httptest.NewRecorder(), req)

	failures := logs.FilterMessage("store read failed").All()
	require.Len(t, failures, 1)
	assert.Equal(t, "req-42", failures[0].ContextMap()["request_id"])
	assert.Equal(t, 1, logs.FilterMessage("request").Len())
}
