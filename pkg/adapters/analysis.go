package adapters

import (
	"slices"

	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
)

func MapAnomalyDomainToStore(a domain.AnomalyRecord) store.AnomalyRow {
	return store.AnomalyRow{
		SegmentType:               a.SegmentType,
		SegmentKey:                a.SegmentKey,
		BaselineRate:              a.BaselineRate,
		CurrentRate:               a.CurrentRate,
		RateChange:                a.RateChange,
		AffectedTransactions:      a.AffectedTransactions,
		ZScore:                    a.ZScore,
		ZScoreValid:               a.ZScoreValid,
		PValue:                    a.PValue,
		Eligible:                  a.Eligible,
		IsAnomaly:                 a.IsAnomaly,
		AvgTicketUSD:              a.AvgTicketUSD,
		EstimatedRevenueImpactUSD: a.EstimatedRevenueImpactUSD,
		DominantDeclineReasons:    slices.Clone(a.DominantDeclineReasons),
	}
}

func MapAnomalyStoreToDomain(r store.AnomalyRow) domain.AnomalyRecord {
	return domain.AnomalyRecord{
		SegmentType:               r.SegmentType,
		SegmentKey:                r.SegmentKey,
		BaselineRate:              r.BaselineRate,
		CurrentRate:               r.CurrentRate,
		RateChange:                r.RateChange,
		AffectedTransactions:      r.AffectedTransactions,
		ZScore:                    r.ZScore,
		ZScoreValid:               r.ZScoreValid,
		PValue:                    r.PValue,
		Eligible:                  r.Eligible,
		IsAnomaly:                 r.IsAnomaly,
		AvgTicketUSD:              r.AvgTicketUSD,
		EstimatedRevenueImpactUSD: r.EstimatedRevenueImpactUSD,
		DominantDeclineReasons:    slices.Clone(r.DominantDeclineReasons),
	}
}

func MapAnomalyDomainToApi(a domain.AnomalyRecord) api.Anomaly {
	reasons := a.DominantDeclineReasons
	if reasons == nil {
		reasons = []string{}
	}
	return api.Anomaly{
		SegmentType:               a.SegmentType,
		SegmentKey:                a.SegmentKey,
		BaselineRate:              a.BaselineRate,
		CurrentRate:               a.CurrentRate,
		RateChange:                a.RateChange,
		AffectedTransactions:      a.AffectedTransactions,
		ZScore:                    a.ZScore,
		ZScoreValid:               a.ZScoreValid,
		PValue:                    a.PValue,
		Eligible:                  a.Eligible,
		IsAnomaly:                 a.IsAnomaly,
		AvgTicketUSD:              a.AvgTicketUSD,
		EstimatedRevenueImpactUSD: a.EstimatedRevenueImpactUSD,
		DominantDeclineReasons:    slices.Clone(reasons),
	}
}

func MapInsightDomainToStore(i domain.Insight) store.InsightRow {
	return store.InsightRow{
		Rank:                      i.Rank,
		ID:                        i.ID,
		Title:                     i.Title,
		Description:               i.Description,
		SegmentType:               i.SegmentType,
		SegmentKey:                i.SegmentKey,
		BaselineRate:              i.BaselineRate,
		CurrentRate:               i.CurrentRate,
		RateChange:                i.RateChange,
		AffectedTransactions:      i.AffectedTransactions,
		EstimatedRevenueImpactUSD: i.EstimatedRevenueImpactUSD,
		Severity:                  string(i.Severity),
		Score:                     i.Score,
	}
}

func MapInsightStoreToDomain(r store.InsightRow) domain.Insight {
	return domain.Insight{
		Rank:                      r.Rank,
		ID:                        r.ID,
		Title:                     r.Title,
		Description:               r.Description,
		SegmentType:               r.SegmentType,
		SegmentKey:                r.SegmentKey,
		BaselineRate:              r.BaselineRate,
		CurrentRate:               r.CurrentRate,
		RateChange:                r.RateChange,
		AffectedTransactions:      r.AffectedTransactions,
		EstimatedRevenueImpactUSD: r.EstimatedRevenueImpactUSD,
		Severity:                  domain.Severity(r.Severity),
		Score:                     r.Score,
	}
}

func MapInsightDomainToApi(i domain.Insight) api.Insight {
	return api.Insight{
		Rank:                      i.Rank,
		ID:                        i.ID,
		Title:                     i.Title,
		Description:               i.Description,
		SegmentType:               i.SegmentType,
		SegmentKey:                i.SegmentKey,
		BaselineRate:              i.BaselineRate,
		CurrentRate:               i.CurrentRate,
		RateChange:                i.RateChange,
		AffectedTransactions:      i.AffectedTransactions,
		EstimatedRevenueImpactUSD: i.EstimatedRevenueImpactUSD,
		Severity:                  string(i.Severity),
		Score:                     i.Score,
	}
}

func MapSummaryDomainToApi(s domain.AnalysisSummary) api.Summary {
	return api.Summary{
		BaselineRate:          s.BaselineRate,
		CurrentRate:           s.CurrentRate,
		RateChange:            s.RateChange,
		TotalMonthlyImpactUSD: s.TotalMonthlyImpactUSD,
		SegmentsCompared:      s.SegmentsCompared,
		AnomaliesFlagged:      s.AnomaliesFlagged,
		ExcludedSegments:      s.ExcludedSegments,
		IneligibleSegments:    s.IneligibleSegments,
		MalformedKeys:         s.MalformedKeys,
		CriticalInsights:      s.CriticalInsights,
		HighInsights:          s.HighInsights,
		MediumInsights:        s.MediumInsights,
		LowInsights:           s.LowInsights,
		GeneratedAt:           s.GeneratedAt,
	}
}

func MapCohortReportDomainToApi(r domain.CohortReport) api.CohortReport {
	out := api.CohortReport{
		FirstTimeVsReturning: make([]api.CustomerTypeRate, 0, len(r.FirstTimeVsReturning)),
		RecurringVsOneTime:   make([]api.RecurringRate, 0, len(r.RecurringVsOneTime)),
		AcquisitionCohorts:   make([]api.AcquisitionCohort, 0, len(r.AcquisitionCohorts)),
	}
	for _, w := range r.FirstTimeVsReturning {
		out.FirstTimeVsReturning = append(out.FirstTimeVsReturning, api.CustomerTypeRate{
			Week:           w.Week,
			FirstTimeRate:  w.FirstTimeRate,
			FirstTimeCount: w.FirstTimeCount,
			ReturningRate:  w.ReturningRate,
			ReturningCount: w.ReturningCount,
		})
	}
	for _, w := range r.RecurringVsOneTime {
		out.RecurringVsOneTime = append(out.RecurringVsOneTime, api.RecurringRate{
			Week:           w.Week,
			RecurringRate:  w.RecurringRate,
			RecurringCount: w.RecurringCount,
			OneTimeRate:    w.OneTimeRate,
			OneTimeCount:   w.OneTimeCount,
		})
	}
	for _, c := range r.AcquisitionCohorts {
		out.AcquisitionCohorts = append(out.AcquisitionCohorts, api.AcquisitionCohort{
			CohortWeek:      c.CohortWeek,
			TransactionWeek: c.TransactionWeek,
			ApprovalRate:    c.ApprovalRate,
			Customers:       c.Customers,
			Transactions:    c.Transactions,
		})
	}
	return out
}
