package duckdb

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const TransactionsTableSchema = `
	CREATE TABLE IF NOT EXISTS transactions (
		transaction_id VARCHAR NOT NULL PRIMARY KEY,
		ts TIMESTAMP NOT NULL,
		week_number INTEGER NOT NULL,
		country VARCHAR NOT NULL,
		currency VARCHAR NOT NULL,
		amount DOUBLE NOT NULL,
		amount_usd DOUBLE NOT NULL,
		card_brand VARCHAR NOT NULL,
		card_type VARCHAR NOT NULL,
		issuer_bank VARCHAR NOT NULL,
		status VARCHAR NOT NULL,
		decline_reason VARCHAR,
		merchant_id VARCHAR NOT NULL,
		customer_id VARCHAR NOT NULL,
		is_recurring BOOLEAN NOT NULL,
		hour_of_day INTEGER NOT NULL
	);
`

const SegmentStatsTableSchema = `
	CREATE TABLE IF NOT EXISTS segment_stats (
		segment_type VARCHAR NOT NULL,
		segment_key VARCHAR NOT NULL,
		dimension_1 VARCHAR,
		dimension_2 VARCHAR,
		dimension_3 VARCHAR,
		dimension_4 VARCHAR,
		period VARCHAR NOT NULL,
		total_transactions BIGINT NOT NULL,
		approved_transactions BIGINT NOT NULL,
		declined_transactions BIGINT NOT NULL,
		approval_rate DOUBLE NOT NULL,
		total_amount_usd DOUBLE NOT NULL,
		approved_amount_usd DOUBLE NOT NULL,
		PRIMARY KEY (segment_type, segment_key, period)
	);
`

const WeeklyTrendsTableSchema = `
	CREATE TABLE IF NOT EXISTS weekly_trends (
		week_number INTEGER NOT NULL PRIMARY KEY,
		total_transactions BIGINT NOT NULL,
		approved_transactions BIGINT NOT NULL,
		approval_rate DOUBLE NOT NULL,
		total_amount_usd DOUBLE NOT NULL
	);
`

const AnomaliesTableSchema = `
	CREATE TABLE IF NOT EXISTS anomalies (
		segment_type VARCHAR NOT NULL,
		segment_key VARCHAR NOT NULL,
		baseline_rate DOUBLE NOT NULL,
		current_rate DOUBLE NOT NULL,
		rate_change DOUBLE NOT NULL,
		affected_transactions BIGINT NOT NULL,
		z_score DOUBLE NOT NULL,
		z_score_valid BOOLEAN NOT NULL,
		p_value DOUBLE NOT NULL,
		eligible BOOLEAN NOT NULL,
		is_anomaly BOOLEAN NOT NULL,
		avg_ticket_usd DOUBLE NOT NULL,
		estimated_revenue_impact_usd DOUBLE NOT NULL,
		dominant_decline_reasons JSON,
		PRIMARY KEY (segment_type, segment_key)
	);
`

const InsightsTableSchema = `
	CREATE TABLE IF NOT EXISTS insights (
		insight_rank INTEGER NOT NULL,
		insight_id VARCHAR NOT NULL PRIMARY KEY,
		title VARCHAR NOT NULL,
		description VARCHAR NOT NULL,
		segment_type VARCHAR NOT NULL,
		segment_key VARCHAR NOT NULL,
		baseline_rate DOUBLE NOT NULL,
		current_rate DOUBLE NOT NULL,
		rate_change DOUBLE NOT NULL,
		affected_transactions BIGINT NOT NULL,
		estimated_revenue_impact_usd DOUBLE NOT NULL,
		severity VARCHAR NOT NULL,
		score DOUBLE NOT NULL
	);
`

var bootQueries = []string{
	TransactionsTableSchema,
	SegmentStatsTableSchema,
	WeeklyTrendsTableSchema,
	AnomaliesTableSchema,
	InsightsTableSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		bootQueries := append([]string{}, bootQueries...)

		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
