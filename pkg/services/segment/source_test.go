package segment

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
)

type mockSegmentStore struct {
	mock.Mock
}

func (m *mockSegmentStore) ReplaceStats(ctx context.Context, rows []store.SegmentStatRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockSegmentStore) GetStats(ctx context.Context, filter segments.Filter) ([]store.SegmentStatRow, error) {
	args := m.Called(ctx, filter)
	if rows := args.Get(0); rows != nil {
		return rows.([]store.SegmentStatRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockSegmentStore) ReplaceTrends(ctx context.Context, rows []store.WeeklyTrendRow) error {
	args := m.Called(ctx, rows)
	return args.Error(0)
}

func (m *mockSegmentStore) GetTrends(ctx context.Context) ([]store.WeeklyTrendRow, error) {
	args := m.Called(ctx)
	if rows := args.Get(0); rows != nil {
		return rows.([]store.WeeklyTrendRow), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestStoreSource_Segments(t *testing.T) {
	ctx := context.Background()

	t.Run("success - rows map to domain", func(t *testing.T) {
		row := adapters.MapSegmentStatDomainToStore(domain.SegmentStat{
			SegmentType:          "country",
			SegmentKey:           "MX",
			Dimensions:           []string{"MX"},
			Period:               domain.PeriodBaseline,
			TotalTransactions:    100,
			ApprovedTransactions: 85,
			DeclinedTransactions: 15,
			ApprovalRate:         0.85,
			TotalAmountUSD:       4500,
			ApprovedAmountUSD:    3825,
		})
		segmentStore := &mockSegmentStore{}
		segmentStore.On("GetStats", ctx, segments.Filter{}).Return([]store.SegmentStatRow{row}, nil)

		stats, err := NewStoreSource(segmentStore).Segments(ctx)
		require.NoError(t, err)
		require.Len(t, stats, 1)
		assert.Equal(t, "MX", stats[0].SegmentKey)
		assert.Equal(t, []string{"MX"}, stats[0].Dimensions)
	})

	t.Run("error - empty table", func(t *testing.T) {
		segmentStore := &mockSegmentStore{}
		segmentStore.On("GetStats", ctx, segments.Filter{}).Return([]store.SegmentStatRow{}, nil)

		_, err := NewStoreSource(segmentStore).Segments(ctx)
		var insufficientErr *domain.InsufficientDataError
		assert.ErrorAs(t, err, &insufficientErr)
	})
}

func TestDemoSource_Segments(t *testing.T) {
	ctx := context.Background()

	stats, err := NewDemoSource().Segments(ctx)
	require.NoError(t, err)
	require.Len(t, stats, 54)

	t.Run("success - every key parses against the catalog", func(t *testing.T) {
		for _, s := range stats {
			def, ok := domain.SegmentDefinitionFor(s.SegmentType)
			require.True(t, ok, "unknown segment type %s", s.SegmentType)

			dims, err := domain.ParseSegmentKey(def, s.SegmentKey)
			require.NoError(t, err)
			assert.Len(t, dims, len(def.Dimensions))
			assert.NoError(t, s.Validate())
		}
	})

	t.Run("success - incident issuer collapses", func(t *testing.T) {
		baseline := findStat(t, stats, "issuer_brand_type", "MX|BBVA|Mastercard|Debit", domain.PeriodBaseline)
		current := findStat(t, stats, "issuer_brand_type", "MX|BBVA|Mastercard|Debit", domain.PeriodCurrent)

		assert.InDelta(t, 0.85, baseline.ApprovalRate, 0.01)
		assert.InDelta(t, 0.44, current.ApprovalRate, 0.01)
		assert.Equal(t, int64(1200), current.TotalTransactions)
	})
}
