package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/fjod/go_till/internal/ledger"
	"go.uber.org/zap"
)

// CatalogReader and HistoryReader are the read side of the till's stores.
type CatalogReader interface {
	LoadCatalog(ctx context.Context) ([]domain.Item, error)
}

type HistoryReader interface {
	LoadTransactions(ctx context.Context) ([]domain.Transaction, error)
}

// ReportHandler serves the till's persisted state. It never writes.
type ReportHandler struct {
	catalog CatalogReader
	history HistoryReader
	timeout time.Duration
	logger  *zap.Logger
}

func NewReportHandler(catalog CatalogReader, history HistoryReader, timeout time.Duration, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{
		catalog: catalog,
		history: history,
		timeout: timeout,
		logger:  logger,
	}
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type ItemDTO struct {
	Key     string `json:"key"`
	Name    string `json:"name"`
	Price   string `json:"price"`
	Stock   int    `json:"stock"`
	InStock bool   `json:"in_stock"`
}

type LineDTO struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice string `json:"unit_price"`
	Subtotal  string `json:"subtotal"`
}

type TransactionDTO struct {
	ID            string    `json:"id"`
	Customer      string    `json:"customer"`
	Items         []LineDTO `json:"items"`
	TotalAmount   string    `json:"total_amount"`
	PaymentMethod string    `json:"payment_method"`
	Status        string    `json:"status"`
	CreatedAt     string    `json:"created_at"`
}

type BestSellerDTO struct {
	Name         string `json:"name"`
	QuantitySold int    `json:"quantity_sold"`
}

type ReportDTO struct {
	TotalRevenue        string           `json:"total_revenue"`
	TotalTransactions   int              `json:"total_transactions"`
	PaidTransactions    int              `json:"paid_transactions"`
	PendingTransactions []TransactionDTO `json:"pending_transactions"`
	BestSeller          *BestSellerDTO   `json:"best_seller"`
}

// GET /api/v1/catalog
func (h *ReportHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	items, err := h.catalog.LoadCatalog(ctx)
	if err != nil {
		h.storeError(w, r, "load catalog", err)
		return
	}

	dtos := make([]ItemDTO, 0, len(items))
	for _, it := range items {
		dtos = append(dtos, ItemDTO{
			Key:     it.Key,
			Name:    it.Name,
			Price:   it.Price.StringFixed(2),
			Stock:   it.Stock,
			InStock: it.InStock(),
		})
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/transactions?status=PAID
func (h *ReportHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	var filter domain.TransactionStatus
	if s := r.URL.Query().Get("status"); s != "" {
		filter = domain.TransactionStatus(strings.ToUpper(s))
		if !filter.Valid() {
			respondError(w, http.StatusBadRequest, "invalid_status", "status must be PAID or UNPAID_PENDING")
			return
		}
	}

	txs, err := h.history.LoadTransactions(ctx)
	if err != nil {
		h.storeError(w, r, "load transactions", err)
		return
	}

	dtos := make([]TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		if filter != "" && tx.Status != filter {
			continue
		}
		dtos = append(dtos, convertTransaction(tx))
	}
	respondJSON(w, http.StatusOK, dtos)
}

// GET /api/v1/report
func (h *ReportHandler) Report(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	txs, err := h.history.LoadTransactions(ctx)
	if err != nil {
		h.storeError(w, r, "load transactions", err)
		return
	}

	s := ledger.Summarize(txs)
	dto := ReportDTO{
		TotalRevenue:        s.Revenue.StringFixed(2),
		TotalTransactions:   s.TransactionCount,
		PaidTransactions:    s.PaidCount,
		PendingTransactions: make([]TransactionDTO, 0, len(s.Pending)),
	}
	for _, tx := range s.Pending {
		dto.PendingTransactions = append(dto.PendingTransactions, convertTransaction(tx))
	}
	if s.BestSeller.Quantity > 0 {
		dto.BestSeller = &BestSellerDTO{Name: s.BestSeller.Name, QuantitySold: s.BestSeller.Quantity}
	}
	respondJSON(w, http.StatusOK, dto)
}

func convertTransaction(tx domain.Transaction) TransactionDTO {
	items := make([]LineDTO, 0, len(tx.Items))
	for _, l := range tx.Items {
		items = append(items, LineDTO{
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.StringFixed(2),
			Subtotal:  l.Subtotal().StringFixed(2),
		})
	}
	return TransactionDTO{
		ID:            tx.ID,
		Customer:      tx.Customer,
		Items:         items,
		TotalAmount:   tx.Total.StringFixed(2),
		PaymentMethod: tx.Method.String(),
		Status:        tx.Status.String(),
		CreatedAt:     tx.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ReportHandler) storeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error("store read failed",
		zap.String("op", op),
		zap.String("request_id", getRequestID(r.Context())),
		zap.Error(err))
	respondError(w, http.StatusServiceUnavailable, "store_unavailable", "failed to "+op)
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}
