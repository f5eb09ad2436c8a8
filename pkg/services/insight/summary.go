package insight

import (
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// SummaryInput collects everything one analyze run produced.
type SummaryInput struct {
	Stats       []domain.SegmentStat
	Comparisons []domain.SegmentComparison
	Anomalies   []domain.AnomalyRecord
	Insights    []domain.Insight
	Excluded    int
	Ineligible  int
	Malformed   int
	GeneratedAt time.Time
}

// BuildSummary assembles the run-level rollup. Overall rates are
// transaction-weighted: summed from the weekly segment rows of each half
// when the pipeline produced them, otherwise from the comparisons.
func BuildSummary(in SummaryInput) domain.AnalysisSummary {
	var blApproved, blTotal, curApproved, curTotal int64
	for _, s := range in.Stats {
		if s.SegmentType != domain.SegmentTypeTimeWeekly {
			continue
		}
		switch s.Period {
		case domain.PeriodBaseline:
			blApproved += s.ApprovedTransactions
			blTotal += s.TotalTransactions
		case domain.PeriodCurrent:
			curApproved += s.ApprovedTransactions
			curTotal += s.TotalTransactions
		}
	}
	if blTotal == 0 || curTotal == 0 {
		blApproved, blTotal, curApproved, curTotal = 0, 0, 0, 0
		for _, c := range in.Comparisons {
			blApproved += c.BaselineApproved
			blTotal += c.BaselineTotal
			curApproved += c.CurrentApproved
			curTotal += c.CurrentTotal
		}
	}

	baselineRate := 0.0
	if blTotal > 0 {
		baselineRate = float64(blApproved) / float64(blTotal)
	}
	currentRate := 0.0
	if curTotal > 0 {
		currentRate = float64(curApproved) / float64(curTotal)
	}

	flagged := 0
	for _, rec := range in.Anomalies {
		if rec.IsAnomaly {
			flagged++
		}
	}

	totalImpact := 0.0
	summary := domain.AnalysisSummary{
		BaselineRate:       round4(baselineRate),
		CurrentRate:        round4(currentRate),
		RateChange:         round4(currentRate - baselineRate),
		SegmentsCompared:   len(in.Comparisons),
		AnomaliesFlagged:   flagged,
		ExcludedSegments:   in.Excluded,
		IneligibleSegments: in.Ineligible,
		MalformedKeys:      in.Malformed,
		GeneratedAt:        in.GeneratedAt,
	}
	for _, ins := range in.Insights {
		totalImpact += ins.EstimatedRevenueImpactUSD
		switch ins.Severity {
		case domain.SeverityCritical:
			summary.CriticalInsights++
		case domain.SeverityHigh:
			summary.HighInsights++
		case domain.SeverityMedium:
			summary.MediumInsights++
		case domain.SeverityLow:
			summary.LowInsights++
		}
	}
	summary.TotalMonthlyImpactUSD = decimal.NewFromFloat(totalImpact).Round(2).InexactFloat64()

	return summary
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
