package transactions

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
)

// Store owns the transactions table. Replace swaps the whole table so a
// rerun of the generate stage overwrites the previous dataset.
type Store interface {
	Add(ctx context.Context, rows []store.TransactionRow) error
	Replace(ctx context.Context, rows []store.TransactionRow) error
	GetAll(ctx context.Context) ([]store.TransactionRow, error)
	Count(ctx context.Context) (int64, error)
}

type txnStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &txnStore{db: db}, nil
}

const insertQuery = `
	INSERT INTO transactions (
		transaction_id, ts, week_number, country, currency, amount, amount_usd,
		card_brand, card_type, issuer_bank, status, decline_reason,
		merchant_id, customer_id, is_recurring, hour_of_day
	) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

func (s *txnStore) Add(ctx context.Context, rows []store.TransactionRow) error {
	if len(rows) == 0 {
		return nil
	}

	tx := duckdb.GetTransaction(ctx)

	var stmt *sql.Stmt
	var err error
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, insertQuery)
	} else {
		stmt, err = tx.PrepareContext(ctx, insertQuery)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		declineReason := sql.NullString{String: row.DeclineReason, Valid: row.DeclineReason != ""}

		_, err = stmt.ExecContext(ctx,
			row.ID,
			row.Timestamp,
			row.WeekNumber,
			row.Country,
			row.Currency,
			row.Amount,
			row.AmountUSD,
			row.CardBrand,
			row.CardType,
			row.IssuerBank,
			row.Status,
			declineReason,
			row.MerchantID,
			row.CustomerID,
			row.IsRecurring,
			row.HourOfDay,
		)
		if err != nil {
			return fmt.Errorf("insert transaction: %w", err)
		}
	}

	return nil
}

func (s *txnStore) Replace(ctx context.Context, rows []store.TransactionRow) error {
	tx := duckdb.GetTransaction(ctx)

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, `DELETE FROM transactions`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM transactions`)
	}
	if err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	return s.Add(ctx, rows)
}

func (s *txnStore) GetAll(ctx context.Context) ([]store.TransactionRow, error) {
	query := `
		SELECT transaction_id, ts, week_number, country, currency, amount, amount_usd,
			card_brand, card_type, issuer_bank, status, decline_reason,
			merchant_id, customer_id, is_recurring, hour_of_day
		FROM transactions
		ORDER BY ts, transaction_id
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()
	return scanTransactionRows(rows)
}

func (s *txnStore) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return count, nil
}

func scanTransactionRows(rows *sql.Rows) ([]store.TransactionRow, error) {
	records := make([]store.TransactionRow, 0)
	for rows.Next() {
		var r store.TransactionRow
		var declineReason sql.NullString
		if err := rows.Scan(
			&r.ID,
			&r.Timestamp,
			&r.WeekNumber,
			&r.Country,
			&r.Currency,
			&r.Amount,
			&r.AmountUSD,
			&r.CardBrand,
			&r.CardType,
			&r.IssuerBank,
			&r.Status,
			&declineReason,
			&r.MerchantID,
			&r.CustomerID,
			&r.IsRecurring,
			&r.HourOfDay,
		); err != nil {
			return nil, err
		}
		r.DeclineReason = declineReason.String
		records = append(records, r)
	}
	return records, rows.Err()
}
