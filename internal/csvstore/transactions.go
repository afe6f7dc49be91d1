package csvstore

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fjod/go_till/internal/domain"
	"github.com/shopspring/decimal"
)

func (s *Store) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	records, err := s.readRecords(HistoryFile, historyHeader)
	if err != nil {
		return nil, err
	}

	txs := make([]domain.Transaction, 0, len(records))
	for i, rec := range records {
		tx, err := parseTransaction(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %s row %d: %w", ErrMalformed, HistoryFile, i+1, err)
		}
		txs = append(txs, tx)
	}
	return txs, nil
}

// AppendTransaction adds one row to the history file, writing the header
// first if the file is new.
func (s *Store) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	row, err := formatTransaction(tx)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(s.path(HistoryFile), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", HistoryFile, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", HistoryFile, err)
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(historyHeader); err != nil {
			return fmt.Errorf("failed to write %s: %w", HistoryFile, err)
		}
	}
	if err := w.Write(row); err != nil {
		return fmt.Errorf("failed to write %s: %w", HistoryFile, err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write %s: %w", HistoryFile, err)
	}
	return f.Sync()
}

func (s *Store) RewriteTransactions(ctx context.Context, txs []domain.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	rows := make([][]string, 0, len(txs))
	for _, tx := range txs {
		row, err := formatTransaction(tx)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return s.writeAtomic(HistoryFile, historyHeader, rows)
}

func formatTransaction(tx domain.Transaction) ([]string, error) {
	items, err := json.Marshal(tx.Items)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction items: %w", err)
	}
	return []string{
		tx.ID,
		tx.Customer,
		string(items),
		tx.Total.String(),
		string(tx.Method),
		string(tx.Status),
		tx.CreatedAt.UTC().Format(time.RFC3339Nano),
	}, nil
}

func parseTransaction(rec map[string]string) (domain.Transaction, error) {
	tx := domain.Transaction{
		ID:       rec["ID"],
		Customer: rec["Customer"],
		Method:   domain.PaymentMethod(rec["Method"]),
		Status:   domain.TransactionStatus(rec["Status"]),
	}
	if !tx.Method.Valid() {
		return tx, fmt.Errorf("payment method %q", rec["Method"])
	}
	if !tx.Status.Valid() {
		return tx, fmt.Errorf("status %q", rec["Status"])
	}

	var err error
	if tx.Total, err = decimal.NewFromString(rec["Total"]); err != nil {
		return tx, fmt.Errorf("total %q", rec["Total"])
	}
	if tx.CreatedAt, err = time.Parse(time.RFC3339Nano, rec["CreatedAt"]); err != nil {
		return tx, fmt.Errorf("created at %q", rec["CreatedAt"])
	}
	if err := json.Unmarshal([]byte(rec["Items"]), &tx.Items); err != nil {
		return tx, fmt.Errorf("items: %w", err)
	}
	return tx, nil
}
