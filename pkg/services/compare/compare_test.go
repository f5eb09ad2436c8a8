package compare

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

func stat(segmentType, key, period string, total, approved int64) domain.SegmentStat {
	return domain.SegmentStat{
		SegmentType:          segmentType,
		SegmentKey:           key,
		Dimensions:           []string{key},
		Period:               period,
		TotalTransactions:    total,
		ApprovedTransactions: approved,
		DeclinedTransactions: total - approved,
		ApprovalRate:         float64(approved) / float64(total),
		TotalAmountUSD:       float64(total) * 50,
		ApprovedAmountUSD:    float64(approved) * 50,
	}
}

func TestPeriods(t *testing.T) {
	ctx := context.Background()

	t.Run("success - pairs both halves", func(t *testing.T) {
		stats := []domain.SegmentStat{
			stat("country", "MX", domain.PeriodBaseline, 1000, 850),
			stat("country", "MX", domain.PeriodCurrent, 1100, 500),
			stat("country", "BR", domain.PeriodBaseline, 2000, 1660),
			stat("country", "BR", domain.PeriodCurrent, 2050, 1350),
		}

		result := Periods(ctx, stats)
		require.Len(t, result.Comparisons, 2)
		assert.Zero(t, result.Excluded)

		assert.Equal(t, "BR", result.Comparisons[0].SegmentKey)
		mx := result.Comparisons[1]
		assert.Equal(t, "MX", mx.SegmentKey)
		assert.InDelta(t, 0.85, mx.BaselineRate, 1e-9)
		assert.Equal(t, int64(1100), mx.CurrentTotal)
		assert.InDelta(t, 0.85-500.0/1100.0, -mx.RateChange(), 1e-9)
	})

	t.Run("success - one-sided segments are excluded and counted", func(t *testing.T) {
		stats := []domain.SegmentStat{
			stat("country", "MX", domain.PeriodBaseline, 1000, 850),
			stat("country", "MX", domain.PeriodCurrent, 1100, 500),
			// BR only seen in the baseline half, CO only in the current.
			stat("country", "BR", domain.PeriodBaseline, 2000, 1660),
			stat("country", "CO", domain.PeriodCurrent, 400, 260),
		}

		result := Periods(ctx, stats)
		require.Len(t, result.Comparisons, 1)
		assert.Equal(t, "MX", result.Comparisons[0].SegmentKey)
		assert.Equal(t, 2, result.Excluded)
	})

	t.Run("success - other periods are ignored", func(t *testing.T) {
		stats := []domain.SegmentStat{
			stat("country", "MX", "week_1", 300, 260),
			stat("country", "MX", domain.PeriodOverall, 2100, 1350),
			stat("country", "MX", domain.PeriodBaseline, 1000, 850),
			stat("country", "MX", domain.PeriodCurrent, 1100, 500),
		}

		result := Periods(ctx, stats)
		require.Len(t, result.Comparisons, 1)
		assert.Equal(t, int64(1000), result.Comparisons[0].BaselineTotal)
		assert.Equal(t, int64(1100), result.Comparisons[0].CurrentTotal)
	})

	t.Run("success - empty input", func(t *testing.T) {
		result := Periods(ctx, nil)
		assert.Empty(t, result.Comparisons)
		assert.Zero(t, result.Excluded)
	})
}
