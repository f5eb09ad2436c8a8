package segment

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Aggregator fans the enriched table out across the segment catalog and
// collects approval stats per segment and time bucket. Only observed
// combinations are emitted.
type Aggregator struct{}

func NewAggregator() *Aggregator {
	return &Aggregator{}
}

// BuildSegments runs one worker per catalog definition and merges the
// results into a deterministic order: (segment_type, segment_key, period).
func (a *Aggregator) BuildSegments(ctx context.Context, txns []domain.EnrichedTransaction) ([]domain.SegmentStat, error) {
	defs := domain.SegmentCatalog()

	results := make([][]domain.SegmentStat, len(defs))
	errs := make([]error, len(defs))

	var wg sync.WaitGroup
	for i, def := range defs {
		wg.Add(1)
		go func(i int, def domain.SegmentDefinition) {
			defer wg.Done()
			results[i], errs[i] = segmentStats(def, txns)
		}(i, def)
	}
	wg.Wait()

	var stats []domain.SegmentStat
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("aggregate %s segments: %w", defs[i].Type, err)
		}
		stats = append(stats, results[i]...)
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].SegmentType != stats[j].SegmentType {
			return stats[i].SegmentType < stats[j].SegmentType
		}
		if stats[i].SegmentKey != stats[j].SegmentKey {
			return stats[i].SegmentKey < stats[j].SegmentKey
		}
		return stats[i].Period < stats[j].Period
	})

	for _, stat := range stats {
		if err := stat.Validate(); err != nil {
			return nil, err
		}
	}

	zerolog.Ctx(ctx).Info().
		Int("segment_rows", len(stats)).
		Int("definitions", len(defs)).
		Msg("built segment statistics")
	return stats, nil
}

// BuildWeeklyTrends projects the headline weekly rollup out of the
// time_weekly rows.
func (a *Aggregator) BuildWeeklyTrends(stats []domain.SegmentStat) ([]domain.WeeklyTrend, error) {
	var trends []domain.WeeklyTrend
	for _, stat := range stats {
		if stat.SegmentType != domain.SegmentTypeTimeWeekly || stat.Period != domain.PeriodOverall {
			continue
		}
		week, err := strconv.Atoi(stat.SegmentKey)
		if err != nil {
			return nil, &domain.SchemaError{
				Table:  "segment_stats",
				Field:  "segment_key",
				Reason: fmt.Sprintf("time_weekly key %q is not a week number", stat.SegmentKey),
			}
		}
		trends = append(trends, domain.WeeklyTrend{
			WeekNumber:           week,
			TotalTransactions:    stat.TotalTransactions,
			ApprovedTransactions: stat.ApprovedTransactions,
			ApprovalRate:         stat.ApprovalRate,
			TotalAmountUSD:       stat.TotalAmountUSD,
		})
	}

	sort.Slice(trends, func(i, j int) bool { return trends[i].WeekNumber < trends[j].WeekNumber })
	return trends, nil
}

type statAcc struct {
	dims           []string
	total          int64
	approved       int64
	totalAmount    float64
	approvedAmount float64
}

func segmentStats(def domain.SegmentDefinition, txns []domain.EnrichedTransaction) ([]domain.SegmentStat, error) {
	// period -> segment key -> accumulator
	accs := map[string]map[string]*statAcc{}

	for _, txn := range txns {
		values := make([]string, len(def.Dimensions))
		for i, dim := range def.Dimensions {
			value, ok := txn.DimensionValue(dim)
			if !ok {
				return nil, &domain.SchemaError{
					Table:  "transactions",
					Field:  dim,
					Reason: "unknown dimension column",
				}
			}
			values[i] = value
		}
		key := domain.BuildSegmentKey(values)

		for _, period := range []string{domain.WeekPeriod(txn.WeekNumber), txn.PeriodHalf, domain.PeriodOverall} {
			bucket := accs[period]
			if bucket == nil {
				bucket = map[string]*statAcc{}
				accs[period] = bucket
			}
			acc := bucket[key]
			if acc == nil {
				acc = &statAcc{dims: values}
				bucket[key] = acc
			}
			acc.total++
			acc.totalAmount += txn.AmountUSD
			if txn.Approved() {
				acc.approved++
				acc.approvedAmount += txn.AmountUSD
			}
		}
	}

	var stats []domain.SegmentStat
	for period, bucket := range accs {
		for key, acc := range bucket {
			stats = append(stats, domain.SegmentStat{
				SegmentType:          def.Type,
				SegmentKey:           key,
				Dimensions:           acc.dims,
				Period:               period,
				TotalTransactions:    acc.total,
				ApprovedTransactions: acc.approved,
				DeclinedTransactions: acc.total - acc.approved,
				ApprovalRate:         float64(acc.approved) / float64(acc.total),
				TotalAmountUSD:       acc.totalAmount,
				ApprovedAmountUSD:    acc.approvedAmount,
			})
		}
	}
	return stats, nil
}
