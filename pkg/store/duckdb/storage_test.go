package duckdb

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDB_BootSchema(t *testing.T) {
	tmpDir, err := os.MkdirTemp("", "duckdb-test-*")
	require.NoError(t, err)

	defer func() {
		err := os.RemoveAll(tmpDir)
		if err != nil {
			t.Errorf("failed to cleanup test directory: %v", err)
		}
	}()

	dbPath := filepath.Join(tmpDir, "test.db")
	db, err := NewDB(Settings{
		DbPath: dbPath,
	})
	require.NoError(t, err)
	require.NotNil(t, db)

	defer func() {
		err := db.Close()
		if err != nil {
			t.Errorf("failed to close database connection: %v", err)
		}
	}()

	_, err = db.Exec(
		`INSERT INTO transactions (
			transaction_id, ts, week_number, country, currency, amount, amount_usd,
			card_brand, card_type, issuer_bank, status, decline_reason,
			merchant_id, customer_id, is_recurring, hour_of_day
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		"txn-001", time.Date(2026, 1, 5, 14, 0, 0, 0, time.UTC), 1, "MX", "MXN",
		1724.14, 100.0, "Visa", "Credit", "BBVA", "approved", "",
		"MERCH_0001", "CUST_000001", false, 14,
	)
	require.NoError(t, err)

	var count int
	err = db.QueryRow("SELECT COUNT(*) FROM transactions WHERE transaction_id = ?", "txn-001").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	// All artifact tables exist after boot.
	for _, table := range []string{"segment_stats", "weekly_trends", "anomalies", "insights"} {
		err = db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, 0, count)
	}
}
