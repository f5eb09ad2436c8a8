package analytics

import (
	"context"
	"database/sql"
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
)

// Store owns the anomalies and insights tables produced by the analyze
// stage.
type Store interface {
	ReplaceAnomalies(ctx context.Context, rows []store.AnomalyRow) error
	GetAnomalies(ctx context.Context) ([]store.AnomalyRow, error)
	ReplaceInsights(ctx context.Context, rows []store.InsightRow) error
	GetInsights(ctx context.Context) ([]store.InsightRow, error)
}

type analyticsStore struct {
	db *sql.DB
}

func NewStore(db *sql.DB) (Store, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	return &analyticsStore{db: db}, nil
}

const insertAnomalyQuery = `
	INSERT INTO anomalies (
		segment_type, segment_key, baseline_rate, current_rate, rate_change,
		affected_transactions, z_score, z_score_valid, p_value, eligible, is_anomaly,
		avg_ticket_usd, estimated_revenue_impact_usd, dominant_decline_reasons
	) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

func (s *analyticsStore) ReplaceAnomalies(ctx context.Context, rows []store.AnomalyRow) error {
	tx := duckdb.GetTransaction(ctx)

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, `DELETE FROM anomalies`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM anomalies`)
	}
	if err != nil {
		return fmt.Errorf("clear anomalies: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	var stmt *sql.Stmt
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, insertAnomalyQuery)
	} else {
		stmt, err = tx.PrepareContext(ctx, insertAnomalyQuery)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		reasons, err := json.Marshal(row.DominantDeclineReasons)
		if err != nil {
			return fmt.Errorf("marshal decline reasons: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			row.SegmentType,
			row.SegmentKey,
			row.BaselineRate,
			row.CurrentRate,
			row.RateChange,
			row.AffectedTransactions,
			row.ZScore,
			row.ZScoreValid,
			row.PValue,
			row.Eligible,
			row.IsAnomaly,
			row.AvgTicketUSD,
			row.EstimatedRevenueImpactUSD,
			string(reasons),
		)
		if err != nil {
			return fmt.Errorf("insert anomaly: %w", err)
		}
	}

	return nil
}

func (s *analyticsStore) GetAnomalies(ctx context.Context) ([]store.AnomalyRow, error) {
	query := `
		SELECT segment_type, segment_key, baseline_rate, current_rate, rate_change,
			affected_transactions, z_score, z_score_valid, p_value, eligible, is_anomaly,
			avg_ticket_usd, estimated_revenue_impact_usd, dominant_decline_reasons
		FROM anomalies
		ORDER BY segment_type, segment_key
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query anomalies: %w", err)
	}
	defer rows.Close()

	records := make([]store.AnomalyRow, 0)
	for rows.Next() {
		var r store.AnomalyRow
		var reasonsRaw []byte
		if err := rows.Scan(
			&r.SegmentType,
			&r.SegmentKey,
			&r.BaselineRate,
			&r.CurrentRate,
			&r.RateChange,
			&r.AffectedTransactions,
			&r.ZScore,
			&r.ZScoreValid,
			&r.PValue,
			&r.Eligible,
			&r.IsAnomaly,
			&r.AvgTicketUSD,
			&r.EstimatedRevenueImpactUSD,
			&reasonsRaw,
		); err != nil {
			return nil, err
		}
		if len(reasonsRaw) > 0 {
			if err := json.Unmarshal(reasonsRaw, &r.DominantDeclineReasons); err != nil {
				return nil, fmt.Errorf("unmarshal decline reasons: %w", err)
			}
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

const insertInsightQuery = `
	INSERT INTO insights (
		insight_rank, insight_id, title, description, segment_type, segment_key,
		baseline_rate, current_rate, rate_change, affected_transactions,
		estimated_revenue_impact_usd, severity, score
	) VALUES (
		?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
	)`

func (s *analyticsStore) ReplaceInsights(ctx context.Context, rows []store.InsightRow) error {
	tx := duckdb.GetTransaction(ctx)

	var err error
	if tx == nil {
		_, err = s.db.ExecContext(ctx, `DELETE FROM insights`)
	} else {
		_, err = tx.ExecContext(ctx, `DELETE FROM insights`)
	}
	if err != nil {
		return fmt.Errorf("clear insights: %w", err)
	}

	if len(rows) == 0 {
		return nil
	}

	var stmt *sql.Stmt
	if tx == nil {
		stmt, err = s.db.PrepareContext(ctx, insertInsightQuery)
	} else {
		stmt, err = tx.PrepareContext(ctx, insertInsightQuery)
	}
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	for _, row := range rows {
		_, err = stmt.ExecContext(ctx,
			row.Rank,
			row.ID,
			row.Title,
			row.Description,
			row.SegmentType,
			row.SegmentKey,
			row.BaselineRate,
			row.CurrentRate,
			row.RateChange,
			row.AffectedTransactions,
			row.EstimatedRevenueImpactUSD,
			row.Severity,
			row.Score,
		)
		if err != nil {
			return fmt.Errorf("insert insight: %w", err)
		}
	}

	return nil
}

func (s *analyticsStore) GetInsights(ctx context.Context) ([]store.InsightRow, error) {
	query := `
		SELECT insight_rank, insight_id, title, description, segment_type, segment_key,
			baseline_rate, current_rate, rate_change, affected_transactions,
			estimated_revenue_impact_usd, severity, score
		FROM insights
		ORDER BY insight_rank
	`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query insights: %w", err)
	}
	defer rows.Close()

	records := make([]store.InsightRow, 0)
	for rows.Next() {
		var r store.InsightRow
		if err := rows.Scan(
			&r.Rank,
			&r.ID,
			&r.Title,
			&r.Description,
			&r.SegmentType,
			&r.SegmentKey,
			&r.BaselineRate,
			&r.CurrentRate,
			&r.RateChange,
			&r.AffectedTransactions,
			&r.EstimatedRevenueImpactUSD,
			&r.Severity,
			&r.Score,
		); err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}
