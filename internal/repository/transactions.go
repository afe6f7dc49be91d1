package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fjod/go_till/internal/domain"
	"github.com/lib/pq"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const insertTransaction = `
	INSERT INTO transactions (id, customer, items, total_amount, payment_method, status, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
`

// execer is satisfied by *sql.DB and *sql.Tx
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (r *Repository) LoadTransactions(ctx context.Context) ([]domain.Transaction, error) {
	query := `
		SELECT id, customer, items, total_amount, payment_method, status, created_at
		FROM transactions
		ORDER BY seq
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txs []domain.Transaction
	for rows.Next() {
		var tx domain.Transaction
		var itemsJSON []byte
		if err := rows.Scan(
			&tx.ID,
			&tx.Customer,
			&itemsJSON,
			&tx.Total,
			&tx.Method,
			&tx.Status,
			&tx.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if !tx.Method.Valid() {
			return nil, fmt.Errorf("%w: transaction %s: payment method %q", domain.ErrInvalidValue, tx.ID, tx.Method)
		}
		if !tx.Status.Valid() {
			return nil, fmt.Errorf("%w: transaction %s: status %q", domain.ErrInvalidValue, tx.ID, tx.Status)
		}
		if err := json.Unmarshal(itemsJSON, &tx.Items); err != nil {
			return nil, fmt.Errorf("unmarshal items of transaction %s: %w", tx.ID, err)
		}
		txs = append(txs, tx)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return txs, nil
}

func (r *Repository) AppendTransaction(ctx context.Context, tx domain.Transaction) error {
	return r.insertTransaction(ctx, r.db, tx)
}

// RewriteTransactions replaces the stored history with txs, keeping their order.
func (r *Repository) RewriteTransactions(ctx context.Context, txs []domain.Transaction) error {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if _, err := sqlTx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("failed to clear transactions: %w", err)
	}
	for _, tx := range txs {
		if err := r.insertTransaction(ctx, sqlTx, tx); err != nil {
			return err
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transactions: %w", err)
	}
	return nil
}

func (r *Repository) insertTransaction(ctx context.Context, db execer, tx domain.Transaction) error {
	itemsJSON, err := json.Marshal(tx.Items)
	if err != nil {
		return fmt.Errorf("failed to marshal transaction items: %w", err)
	}

	_, err = db.ExecContext(ctx, insertTransaction,
		tx.ID,
		tx.Customer,
		string(itemsJSON),
		tx.Total.String(),
		string(tx.Method),
		string(tx.Status),
		tx.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: %s", ErrDuplicateTransaction, tx.ID)
		}
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	var liteErr *sqlite.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE ||
			liteErr.Code() == sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY
	}
	return false
}
