package analytics

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

func TestAnalyticsStore_Anomalies(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := []store.AnomalyRow{
		{
			SegmentType:               "issuer",
			SegmentKey:                "MX|BBVA",
			BaselineRate:              0.85,
			CurrentRate:               0.45,
			RateChange:                -0.40,
			AffectedTransactions:      1200,
			ZScore:                    -3.2,
			ZScoreValid:               true,
			PValue:                    0.0001,
			Eligible:                  true,
			IsAnomaly:                 true,
			AvgTicketUSD:              85.0,
			EstimatedRevenueImpactUSD: 176664.0,
			DominantDeclineReasons:    []string{"do_not_honor", "fraud_suspected"},
		},
		{
			SegmentType:          "country",
			SegmentKey:           "CO",
			BaselineRate:         0.80,
			CurrentRate:          0.79,
			RateChange:           -0.01,
			AffectedTransactions: 1210,
			ZScoreValid:          true,
			PValue:               0.61,
			Eligible:             true,
		},
	}

	t.Run("success - replace and read back", func(t *testing.T) {
		err := f.store.ReplaceAnomalies(ctx, rows)
		require.NoError(t, err)

		got, err := f.store.GetAnomalies(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)

		// Ordered by (segment_type, segment_key).
		assert.Equal(t, "CO", got[0].SegmentKey)
		assert.Equal(t, "MX|BBVA", got[1].SegmentKey)
		assert.Equal(t, []string{"do_not_honor", "fraud_suspected"}, got[1].DominantDeclineReasons)
		assert.True(t, got[1].IsAnomaly)
		assert.InDelta(t, -0.40, got[1].RateChange, 1e-9)
	})

	t.Run("success - rerun overwrites", func(t *testing.T) {
		err := f.store.ReplaceAnomalies(ctx, rows[:1])
		require.NoError(t, err)

		got, err := f.store.GetAnomalies(ctx)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})
}

func TestAnalyticsStore_Insights(t *testing.T) {
	f := setupFixture(t)
	ctx := context.Background()

	rows := []store.InsightRow{
		{
			Rank:                      1,
			ID:                        "3f2a7c1e-0000-5000-8000-000000000001",
			Title:                     "critical: issuer MX|BBVA approval rate down 40pp",
			Description:               "85% → 45% (-40pp)",
			SegmentType:               "issuer",
			SegmentKey:                "MX|BBVA",
			BaselineRate:              0.85,
			CurrentRate:               0.45,
			RateChange:                -0.40,
			AffectedTransactions:      1200,
			EstimatedRevenueImpactUSD: 176664.0,
			Severity:                  "critical",
			Score:                     0.97,
		},
		{
			Rank:        2,
			ID:          "3f2a7c1e-0000-5000-8000-000000000002",
			Title:       "high: amount_bucket $200-350 approval rate down 25pp",
			SegmentType: "amount_bucket",
			SegmentKey:  "$200-350",
			Severity:    "high",
			Score:       0.61,
		},
	}

	err := f.store.ReplaceInsights(ctx, rows)
	require.NoError(t, err)

	got, err := f.store.GetInsights(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, 1, got[0].Rank)
	assert.Equal(t, "MX|BBVA", got[0].SegmentKey)
	assert.Contains(t, got[0].Description, "85% → 45% (-40pp)")
	assert.Equal(t, "high", got[1].Severity)
}
