package segments

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
)

// Filter narrows segment stat reads. Zero values mean "all".
type Filter struct {
	SegmentType string
	Period      string
}

// Store owns the segment_stats and weekly_trends tables produced by the
// pipeline stage.
type Store interface {
	ReplaceStats(ctx context.Context, rows []store.SegmentStatRow) error
	GetStats(ctx context.Context, filter Filter) ([]store.SegmentStatRow, error)
	ReplaceTrends(ctx context.Context, rows []store.WeeklyTrendRow) error
	GetTrends(ctx context.Context) ([]store.WeeklyTrendRow, error)
}

type segmentStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &segmentStore{db: db}, nil
}

const insertStatQuery = `
	INSERT INTO segment_stats (
		segment_type, segment_key, dimension_1, dimension_2, dimension_3, dimension_4,
		period, total_transactions, approved_transactions, declined_transactions,
		approval_rate, total_amount_usd, approved_amount_usd
	) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

func (s *segmentStore) ReplaceStats(ctx context.Context, rows []store.SegmentStatRow) error {
	tx := duckdb.GetTransaction(ctx)

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, `DELETE FROM segment_stats`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM segment_stats`)
	}
	if err != nil {
		return fmt.Errorf("clear segment stats: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	var stmt *sql.Stmt
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, insertStatQuery)
	} else {
		stmt, err = tx.PrepareContext(ctx, insertStatQuery)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			row.SegmentType,
			row.SegmentKey,
			row.Dimension1,
			row.Dimension2,
			row.Dimension3,
			row.Dimension4,
			row.Period,
			row.TotalTransactions,
			row.ApprovedTransactions,
			row.DeclinedTransactions,
			row.ApprovalRate,
			row.TotalAmountUSD,
			row.ApprovedAmountUSD,
		)
		if err != nil {
			return fmt.Errorf("insert segment stat: %w", err)
		}
	}

	return nil
}

func (s *segmentStore) GetStats(ctx context.Context, filter Filter) ([]store.SegmentStatRow, error) {
	query := `
		SELECT segment_type, segment_key, dimension_1, dimension_2, dimension_3, dimension_4,
			period, total_transactions, approved_transactions, declined_transactions,
			approval_rate, total_amount_usd, approved_amount_usd
		FROM segment_stats
		WHERE 1=1`
	args := make([]interface{}, 0, 2)
	if filter.SegmentType != "" {
		query += " AND segment_type = ?"
		args = append(args, filter.SegmentType)
	}
	if filter.Period != "" {
		query += " AND period = ?"
		args = append(args, filter.Period)
	}
	query += " ORDER BY segment_type, segment_key, period"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query segment stats: %w", err)
	}
	defer rows.Close()
	return scanStatRows(rows)
}

func (s *segmentStore) ReplaceTrends(ctx context.Context, rows []store.WeeklyTrendRow) error {
	tx := duckdb.GetTransaction(ctx)

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, `DELETE FROM weekly_trends`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM weekly_trends`)
	}
	if err != nil {
		return fmt.Errorf("clear weekly trends: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	query := `
		INSERT INTO weekly_trends (
			week_number, total_transactions, approved_transactions, approval_rate, total_amount_usd
		) VALUES (?, ?, ?, ?, ?)`

	var stmt *sql.Stmt
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, query)
	} else {
		stmt, err = tx.PrepareContext(ctx, query)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			row.WeekNumber,
			row.TotalTransactions,
			row.ApprovedTransactions,
			row.ApprovalRate,
			row.TotalAmountUSD,
		)
		if err != nil {
			return fmt.Errorf("insert weekly trend: %w", err)
		}
	}

	return nil
}

func (s *segmentStore) GetTrends(ctx context.Context) ([]store.WeeklyTrendRow, error) {
	query := `
		SELECT week_number, total_transactions, approved_transactions, approval_rate, total_amount_usd
		FROM weekly_trends
		ORDER BY week_number
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query weekly trends: %w", err)
	}
	defer rows.Close()

	records := make([]store.WeeklyTrendRow, 0)
	for rows.Next() {
		var r store.WeeklyTrendRow
		if err := rows.Scan(
			&r.WeekNumber,
			&r.TotalTransactions,
			&r.ApprovedTransactions,
			&r.ApprovalRate,
			&r.TotalAmountUSD,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanStatRows(rows *sql.Rows) ([]store.SegmentStatRow, error) {
	records := make([]store.SegmentStatRow, 0)
	for rows.Next() {
		var r store.SegmentStatRow
		if err := rows.Scan(
			&r.SegmentType,
			&r.SegmentKey,
			&r.Dimension1,
			&r.Dimension2,
			&r.Dimension3,
			&r.Dimension4,
			&r.Period,
			&r.TotalTransactions,
			&r.ApprovedTransactions,
			&r.DeclinedTransactions,
			&r.ApprovalRate,
			&r.TotalAmountUSD,
			&r.ApprovedAmountUSD,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
