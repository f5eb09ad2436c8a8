package cohort

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

func txn(id, customer string, week int, ts time.Time, status string, recurring bool) domain.Transaction {
	return domain.Transaction{
		ID:          id,
		Timestamp:   ts,
		WeekNumber:  week,
		Country:     "MX",
		Currency:    "MXN",
		Status:      status,
		CustomerID:  customer,
		MerchantID:  "MERCH_0001",
		IsRecurring: recurring,
	}
}

func TestAnalyze(t *testing.T) {
	ctx := context.Background()
	day := func(offset int) time.Time {
		return time.Date(2026, time.January, 5+offset, 12, 0, 0, 0, time.UTC)
	}

	t.Run("success - three views over a small customer base", func(t *testing.T) {
		txns := []domain.Transaction{
			// C1 acquired week 1, transacts again in weeks 1 and 2.
			txn("t1", "C1", 1, day(0), domain.StatusApproved, false),
			txn("t2", "C1", 1, day(1), domain.StatusDeclined, false),
			txn("t3", "C1", 2, day(7), domain.StatusApproved, false),
			// C2 acquired week 2, single declined transaction.
			txn("t4", "C2", 2, day(8), domain.StatusDeclined, false),
			// C3 acquired week 1 on a recurring plan, returns in week 4.
			txn("t5", "C3", 1, day(2), domain.StatusApproved, true),
			txn("t6", "C3", 4, day(22), domain.StatusApproved, true),
		}

		report, err := Analyze(ctx, txns)
		require.NoError(t, err)

		require.Len(t, report.FirstTimeVsReturning, 3)
		w1 := report.FirstTimeVsReturning[0]
		assert.Equal(t, 1, w1.Week)
		assert.InDelta(t, 1.0, w1.FirstTimeRate, 1e-9)
		assert.Equal(t, int64(2), w1.FirstTimeCount)
		assert.InDelta(t, 0.0, w1.ReturningRate, 1e-9)
		assert.Equal(t, int64(1), w1.ReturningCount)
		w2 := report.FirstTimeVsReturning[1]
		assert.Equal(t, 2, w2.Week)
		assert.InDelta(t, 0.0, w2.FirstTimeRate, 1e-9)
		assert.InDelta(t, 1.0, w2.ReturningRate, 1e-9)
		w4 := report.FirstTimeVsReturning[2]
		assert.Equal(t, 4, w4.Week)
		assert.Zero(t, w4.FirstTimeCount)
		assert.InDelta(t, 0.0, w4.FirstTimeRate, 1e-9)
		assert.Equal(t, int64(1), w4.ReturningCount)

		require.Len(t, report.RecurringVsOneTime, 3)
		r1 := report.RecurringVsOneTime[0]
		assert.Equal(t, 1, r1.Week)
		assert.InDelta(t, 1.0, r1.RecurringRate, 1e-9)
		assert.Equal(t, int64(1), r1.RecurringCount)
		assert.InDelta(t, 0.5, r1.OneTimeRate, 1e-9)
		assert.Equal(t, int64(2), r1.OneTimeCount)
		r2 := report.RecurringVsOneTime[1]
		assert.Zero(t, r2.RecurringCount)
		assert.InDelta(t, 0.0, r2.RecurringRate, 1e-9)
		assert.InDelta(t, 0.5, r2.OneTimeRate, 1e-9)

		require.Len(t, report.AcquisitionCohorts, 4)
		c11 := report.AcquisitionCohorts[0]
		assert.Equal(t, 1, c11.CohortWeek)
		assert.Equal(t, 1, c11.TransactionWeek)
		assert.InDelta(t, 0.6667, c11.ApprovalRate, 1e-9)
		assert.Equal(t, int64(2), c11.Customers)
		assert.Equal(t, int64(3), c11.Transactions)
		c12 := report.AcquisitionCohorts[1]
		assert.Equal(t, 1, c12.CohortWeek)
		assert.Equal(t, 2, c12.TransactionWeek)
		assert.Equal(t, int64(1), c12.Customers)
		c14 := report.AcquisitionCohorts[2]
		assert.Equal(t, 4, c14.TransactionWeek)
		assert.InDelta(t, 1.0, c14.ApprovalRate, 1e-9)
		c22 := report.AcquisitionCohorts[3]
		assert.Equal(t, 2, c22.CohortWeek)
		assert.Equal(t, 2, c22.TransactionWeek)
		assert.InDelta(t, 0.0, c22.ApprovalRate, 1e-9)
		assert.Equal(t, int64(1), c22.Customers)
	})

	t.Run("success - equal timestamps break ties on transaction id", func(t *testing.T) {
		ts := day(0)
		txns := []domain.Transaction{
			txn("tb", "C1", 1, ts, domain.StatusDeclined, false),
			txn("ta", "C1", 1, ts, domain.StatusApproved, false),
		}

		report, err := Analyze(ctx, txns)
		require.NoError(t, err)

		require.Len(t, report.FirstTimeVsReturning, 1)
		w1 := report.FirstTimeVsReturning[0]
		assert.InDelta(t, 1.0, w1.FirstTimeRate, 1e-9)
		assert.Equal(t, int64(1), w1.FirstTimeCount)
		assert.InDelta(t, 0.0, w1.ReturningRate, 1e-9)
		assert.Equal(t, int64(1), w1.ReturningCount)
	})

	t.Run("error - no transactions", func(t *testing.T) {
		_, err := Analyze(ctx, nil)

		var insufficientErr *domain.InsufficientDataError
		require.ErrorAs(t, err, &insufficientErr)
	})
}
