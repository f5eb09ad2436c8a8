package artifacts

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

func newTestStore(t *testing.T) (Store, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)
	return store, dir
}

func sampleInsight(rank int) domain.Insight {
	return domain.Insight{
		Rank:                      rank,
		ID:                        fmt.Sprintf("00000000-0000-0000-0000-%012d", rank),
		Title:                     "critical: issuer MX|BBVA approval rate down 40pp",
		Description:               "Approval rate fell 85% -> 45%.",
		SegmentType:               "issuer",
		SegmentKey:                "MX|BBVA",
		BaselineRate:              0.85,
		CurrentRate:               0.45,
		RateChange:                -0.40,
		AffectedTransactions:      1200,
		EstimatedRevenueImpactUSD: 176664,
		Severity:                  domain.SeverityCritical,
		Score:                     0.93,
	}
}

func TestStore_Insights(t *testing.T) {
	ctx := context.Background()

	t.Run("success - round trip", func(t *testing.T) {
		store, _ := newTestStore(t)
		insights := []domain.Insight{sampleInsight(1), sampleInsight(2)}

		require.NoError(t, store.WriteInsights(ctx, insights))

		got, err := store.ReadInsights(ctx)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, 1, got[0].Rank)
		assert.Equal(t, "MX|BBVA", got[0].SegmentKey)
		assert.Equal(t, "critical", got[0].Severity)
		assert.InDelta(t, -0.40, got[0].RateChange, 1e-9)
		assert.Equal(t, int64(1200), got[0].AffectedTransactions)
	})

	t.Run("success - byte identical across reruns", func(t *testing.T) {
		store, dir := newTestStore(t)
		insights := []domain.Insight{sampleInsight(1)}

		require.NoError(t, store.WriteInsights(ctx, insights))
		first, err := os.ReadFile(filepath.Join(dir, "insights.json"))
		require.NoError(t, err)

		require.NoError(t, store.WriteInsights(ctx, insights))
		second, err := os.ReadFile(filepath.Join(dir, "insights.json"))
		require.NoError(t, err)

		assert.Equal(t, first, second)
		assert.True(t, strings.HasSuffix(string(first), "\n"))
	})

	t.Run("success - no insights writes an empty list", func(t *testing.T) {
		store, dir := newTestStore(t)

		require.NoError(t, store.WriteInsights(ctx, nil))

		data, err := os.ReadFile(filepath.Join(dir, "insights.json"))
		require.NoError(t, err)
		assert.Equal(t, "[]\n", string(data))

		got, err := store.ReadInsights(ctx)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("error - artifact missing", func(t *testing.T) {
		store, _ := newTestStore(t)

		_, err := store.ReadInsights(ctx)
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestStore_Summary(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	summary := domain.AnalysisSummary{
		BaselineRate:          0.85,
		CurrentRate:           0.65,
		RateChange:            -0.2,
		TotalMonthlyImpactUSD: 191664.60,
		SegmentsCompared:      42,
		AnomaliesFlagged:      6,
		ExcludedSegments:      3,
		IneligibleSegments:    4,
		MalformedKeys:         1,
		CriticalInsights:      1,
		MediumInsights:        2,
		GeneratedAt:           time.Date(2026, time.February, 20, 12, 0, 0, 0, time.UTC),
	}
	require.NoError(t, store.WriteSummary(ctx, summary))

	got, err := store.ReadSummary(ctx)
	require.NoError(t, err)
	assert.InDelta(t, 0.85, got.BaselineRate, 1e-9)
	assert.InDelta(t, -0.2, got.RateChange, 1e-9)
	assert.Equal(t, 42, got.SegmentsCompared)
	assert.Equal(t, 6, got.AnomaliesFlagged)
	assert.Equal(t, 1, got.MalformedKeys)
	assert.True(t, summary.GeneratedAt.Equal(got.GeneratedAt))
}

func TestStore_Cohorts(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestStore(t)

	report := domain.CohortReport{
		FirstTimeVsReturning: []domain.CustomerTypeRate{
			{Week: 1, FirstTimeRate: 0.9, FirstTimeCount: 100, ReturningRate: 0.85, ReturningCount: 40},
		},
		RecurringVsOneTime: []domain.RecurringRate{
			{Week: 1, RecurringRate: 0.95, RecurringCount: 20, OneTimeRate: 0.86, OneTimeCount: 120},
		},
		AcquisitionCohorts: []domain.AcquisitionCohort{
			{CohortWeek: 1, TransactionWeek: 2, ApprovalRate: 0.88, Customers: 30, Transactions: 45},
		},
	}
	require.NoError(t, store.WriteCohorts(ctx, report))

	got, err := store.ReadCohorts(ctx)
	require.NoError(t, err)
	require.Len(t, got.FirstTimeVsReturning, 1)
	assert.InDelta(t, 0.9, got.FirstTimeVsReturning[0].FirstTimeRate, 1e-9)
	require.Len(t, got.AcquisitionCohorts, 1)
	assert.Equal(t, 2, got.AcquisitionCohorts[0].TransactionWeek)
	assert.Equal(t, int64(30), got.AcquisitionCohorts[0].Customers)
}

func TestStore_WriteTransactionSample(t *testing.T) {
	ctx := context.Background()
	store, dir := newTestStore(t)

	txns := make([]domain.Transaction, 0, 150)
	for i := 0; i < 150; i++ {
		txns = append(txns, domain.Transaction{
			ID:          fmt.Sprintf("txn-%03d", i),
			Timestamp:   time.Date(2026, time.January, 5, 12, 0, i, 0, time.UTC),
			WeekNumber:  1,
			Country:     "MX",
			Currency:    "MXN",
			Amount:      1234.5,
			AmountUSD:   72.62,
			CardBrand:   "Visa",
			CardType:    "Credit",
			IssuerBank:  "BBVA",
			Status:      domain.StatusApproved,
			MerchantID:  "MERCH_0001",
			CustomerID:  "CUST_000001",
			IsRecurring: false,
			HourOfDay:   12,
		})
	}

	require.NoError(t, store.WriteTransactionSample(ctx, txns))

	f, err := os.Open(filepath.Join(dir, "sample.csv"))
	require.NoError(t, err)
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 101) // header + capped rows

	assert.Equal(t, "transaction_id", records[0][0])
	assert.Equal(t, "is_recurring", records[0][14])
	assert.Equal(t, "hour_of_day", records[0][15])

	first := records[1]
	assert.Equal(t, "txn-000", first[0])
	assert.Equal(t, "2026-01-05T12:00:00Z", first[1])
	assert.Equal(t, "1234.50", first[5])
	assert.Equal(t, "72.62", first[6])
	assert.Equal(t, "false", first[14])
}

func TestNewStore(t *testing.T) {
	_, err := NewStore("")
	require.Error(t, err)
}
