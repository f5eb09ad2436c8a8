package compare

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Result carries the paired segments plus the count of keys dropped for
// being observed in only one half.
type Result struct {
	Comparisons []domain.SegmentComparison
	Excluded    int
}

// Periods pairs every segment's weeks_1_3 row with its weeks_4_6 row.
// A segment missing either half cannot be compared and is excluded.
func Periods(ctx context.Context, stats []domain.SegmentStat) Result {
	type segID struct {
		Type string
		Key  string
	}

	baseline := make(map[segID]domain.SegmentStat)
	current := make(map[segID]domain.SegmentStat)
	for _, s := range stats {
		id := segID{Type: s.SegmentType, Key: s.SegmentKey}
		switch s.Period {
		case domain.PeriodBaseline:
			baseline[id] = s
		case domain.PeriodCurrent:
			current[id] = s
		}
	}

	comparisons := make([]domain.SegmentComparison, 0, len(baseline))
	excluded := 0
	for id, b := range baseline {
		c, ok := current[id]
		if !ok {
			excluded++
			continue
		}
		comparisons = append(comparisons, domain.SegmentComparison{
			SegmentType:               id.Type,
			SegmentKey:                id.Key,
			BaselineRate:              b.ApprovalRate,
			BaselineApproved:          b.ApprovedTransactions,
			BaselineTotal:             b.TotalTransactions,
			BaselineAmountUSD:         b.TotalAmountUSD,
			BaselineApprovedAmountUSD: b.ApprovedAmountUSD,
			CurrentRate:               c.ApprovalRate,
			CurrentApproved:           c.ApprovedTransactions,
			CurrentTotal:              c.TotalTransactions,
			CurrentAmountUSD:          c.TotalAmountUSD,
			CurrentApprovedAmountUSD:  c.ApprovedAmountUSD,
		})
	}
	for id := range current {
		if _, ok := baseline[id]; !ok {
			excluded++
		}
	}

	sort.Slice(comparisons, func(i, j int) bool {
		if comparisons[i].SegmentType != comparisons[j].SegmentType {
			return comparisons[i].SegmentType < comparisons[j].SegmentType
		}
		return comparisons[i].SegmentKey < comparisons[j].SegmentKey
	})

	logger := zerolog.Ctx(ctx)
	event := logger.Info()
	if excluded > 0 {
		event = logger.Warn()
	}
	event.
		Int("compared", len(comparisons)).
		Int("excluded", excluded).
		Msg("paired baseline and current segment halves")

	return Result{Comparisons: comparisons, Excluded: excluded}
}
