package segments

import (
	"context"
	"database/sql"
	"testing"

	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	db    *sql.DB
	store Store
}

func setupFixture(t *testing.T) *fixture {
	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)

	store, err := NewStore(db)
	require.NoError(t, err)

	t.Cleanup(func() {
		db.Close()
	})

	return &fixture{
		db:    db,
		store: store,
	}
}

func statRow(segmentType, key, period string, total, approved int64) store.SegmentStatRow {
	return store.SegmentStatRow{
		SegmentType:          segmentType,
		SegmentKey:           key,
		Dimension1:           sql.NullString{String: key, Valid: true},
		Period:               period,
		TotalTransactions:    total,
		ApprovedTransactions: approved,
		DeclinedTransactions: total - approved,
		ApprovalRate:         float64(approved) / float64(total),
		TotalAmountUSD:       float64(total) * 45.0,
		ApprovedAmountUSD:    float64(approved) * 45.0,
	}
}

func TestSegmentStore_Stats(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := []store.SegmentStatRow{
		statRow("country", "MX", "weeks_1_3", 2100, 1722),
		statRow("country", "MX", "weeks_4_6", 2130, 1342),
		statRow("country", "BR", "weeks_1_3", 3400, 2822),
		statRow("hour_bucket", "evening_17_20", "weeks_4_6", 710, 390),
	}

	t.Run("success - replace and read back", func(t *testing.T) {
		err := f.store.ReplaceStats(ctx, rows)
		require.NoError(t, err)

		got, err := f.store.GetStats(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, got, 4)
	})

	t.Run("success - filter by type", func(t *testing.T) {
		got, err := f.store.GetStats(ctx, Filter{SegmentType: "country"})
		require.NoError(t, err)
		require.Len(t, got, 3)
		for _, row := range got {
			assert.Equal(t, "country", row.SegmentType)
		}
	})

	t.Run("success - filter by type and period", func(t *testing.T) {
		got, err := f.store.GetStats(ctx, Filter{SegmentType: "country", Period: "weeks_4_6"})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "MX", got[0].SegmentKey)
		assert.Equal(t, int64(2130), got[0].TotalTransactions)
	})

	t.Run("success - rerun overwrites", func(t *testing.T) {
		err := f.store.ReplaceStats(ctx, rows[:1])
		require.NoError(t, err)

		got, err := f.store.GetStats(ctx, Filter{})
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestSegmentStore_Trends(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := []store.WeeklyTrendRow{
		{WeekNumber: 2, TotalTransactions: 1333, ApprovedTransactions: 1093, ApprovalRate: 0.82, TotalAmountUSD: 339915.0},
		{WeekNumber: 1, TotalTransactions: 1333, ApprovedTransactions: 1106, ApprovalRate: 0.8297, TotalAmountUSD: 341200.0},
	}

	err := f.store.ReplaceTrends(ctx, rows)
	require.NoError(t, err)

	got, err := f.store.GetTrends(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Ordered by week regardless of insert order.
	assert.Equal(t, 1, got[0].WeekNumber)
	assert.Equal(t, 2, got[1].WeekNumber)
}
