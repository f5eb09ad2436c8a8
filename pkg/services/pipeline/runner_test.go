package pipeline

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/marcboeker/go-duckdb/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/services/config"
	"github.com/de-tools/txn-atlas/pkg/services/generate"
	"github.com/de-tools/txn-atlas/pkg/services/ingest"
	"github.com/de-tools/txn-atlas/pkg/services/segment"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/analytics"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/transactions"
)

type fixture struct {
	db        *sql.DB
	runner    *Runner
	dir       string
	txnStore  transactions.Store
	segStore  segments.Store
	analytics analytics.Store
}

func setupFixture(t *testing.T, txnCount int) *fixture {
	t.Helper()

	db, err := duckdb.NewDB(duckdb.Settings{DbPath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	txnStore, err := transactions.NewStore(db)
	require.NoError(t, err)
	segStore, err := segments.NewStore(db)
	require.NoError(t, err)
	analyticsStore, err := analytics.NewStore(db)
	require.NoError(t, err)

	dir := t.TempDir()
	artifactStore, err := artifacts.NewStore(dir)
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Generator.Transactions = txnCount

	runner, err := NewRunner(Deps{
		DB:           db,
		Transactions: txnStore,
		Segments:     segStore,
		Analytics:    analyticsStore,
		Artifacts:    artifactStore,
		Config:       cfg,
	})
	require.NoError(t, err)
	runner.now = func() time.Time {
		return time.Date(2026, time.February, 20, 12, 0, 0, 0, time.UTC)
	}

	return &fixture{
		db:        db,
		runner:    runner,
		dir:       dir,
		txnStore:  txnStore,
		segStore:  segStore,
		analytics: analyticsStore,
	}
}

func TestRunner_RunAll(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t, 2000)

	result, err := f.runner.RunAll(ctx)
	require.NoError(t, err)

	count, err := f.txnStore.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2000), count)

	stats, err := f.segStore.GetStats(ctx, segments.Filter{})
	require.NoError(t, err)
	assert.NotEmpty(t, stats)

	weekly, err := f.segStore.GetStats(ctx, segments.Filter{
		SegmentType: domain.SegmentTypeTimeWeekly,
		Period:      domain.PeriodBaseline,
	})
	require.NoError(t, err)
	assert.Len(t, weekly, 3)

	trends, err := f.segStore.GetTrends(ctx)
	require.NoError(t, err)
	assert.Len(t, trends, 6)

	assert.Greater(t, result.Summary.SegmentsCompared, 0)
	assert.GreaterOrEqual(t, result.Summary.AnomaliesFlagged, 1)
	assert.Less(t, result.Summary.CurrentRate, result.Summary.BaselineRate)

	require.NotEmpty(t, result.Insights)
	assert.LessOrEqual(t, len(result.Insights), 5)
	assert.Negative(t, result.Insights[0].RateChange)
	assert.NotEmpty(t, result.Insights[0].Title)

	anomalies, err := f.analytics.GetAnomalies(ctx)
	require.NoError(t, err)
	assert.Len(t, anomalies, result.Summary.SegmentsCompared)

	insights, err := f.analytics.GetInsights(ctx)
	require.NoError(t, err)
	assert.Len(t, insights, len(result.Insights))

	for _, name := range []string{"insights.json", "summary.json", "cohorts.json", "sample.csv"} {
		_, err := os.Stat(filepath.Join(f.dir, name))
		assert.NoError(t, err, "artifact %s should exist", name)
	}
}

func TestRunner_RunAll_Deterministic(t *testing.T) {
	ctx := context.Background()

	first := setupFixture(t, 1500)
	_, err := first.runner.RunAll(ctx)
	require.NoError(t, err)

	second := setupFixture(t, 1500)
	_, err = second.runner.RunAll(ctx)
	require.NoError(t, err)

	for _, name := range []string{"insights.json", "summary.json", "cohorts.json", "sample.csv"} {
		a, err := os.ReadFile(filepath.Join(first.dir, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(second.dir, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, "artifact %s should be byte identical across reruns", name)
	}
}

func TestRunner_Pipeline(t *testing.T) {
	ctx := context.Background()

	t.Run("error - empty transactions table", func(t *testing.T) {
		f := setupFixture(t, 100)

		_, err := f.runner.Pipeline(ctx, ingest.NewStoreSource(f.txnStore))

		var insufficientErr *domain.InsufficientDataError
		require.ErrorAs(t, err, &insufficientErr)
	})

	t.Run("success - synthetic source works without stored transactions", func(t *testing.T) {
		f := setupFixture(t, 100)

		source := ingest.NewSyntheticSource(generate.NewGenerator(generate.Config{Seed: 7, Transactions: 300}))
		result, err := f.runner.Pipeline(ctx, source)
		require.NoError(t, err)
		assert.Equal(t, 300, result.Transactions)
		assert.Greater(t, result.SegmentStats, 0)
		assert.Equal(t, 6, result.WeeklyTrends)

		countries, err := f.segStore.GetStats(ctx, segments.Filter{
			SegmentType: "country",
			Period:      domain.PeriodOverall,
		})
		require.NoError(t, err)
		assert.Len(t, countries, 3)
	})
}

func TestRunner_Analyze_DemoSegments(t *testing.T) {
	ctx := context.Background()
	f := setupFixture(t, 100)

	result, err := f.runner.Analyze(ctx, segment.NewDemoSource())
	require.NoError(t, err)

	assert.Equal(t, 27, result.Summary.SegmentsCompared)
	assert.GreaterOrEqual(t, result.Summary.AnomaliesFlagged, 1)
	require.NotEmpty(t, result.Insights)
	assert.Negative(t, result.Insights[0].RateChange)
	// No raw transactions behind the demo table, so no reason narrative.
	assert.NotContains(t, result.Insights[0].Description, "Dominant decline reasons")

	_, err = os.Stat(filepath.Join(f.dir, "summary.json"))
	assert.NoError(t, err)
}

func TestNewRunner(t *testing.T) {
	_, err := NewRunner(Deps{})
	require.Error(t, err)
}
