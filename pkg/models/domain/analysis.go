package domain

import "time"

// SegmentComparison pairs one segment's baseline half (weeks 1-3) with
// its current half (weeks 4-6).
type SegmentComparison struct {
	SegmentType string
	SegmentKey  string

	BaselineRate              float64
	BaselineApproved          int64
	BaselineTotal             int64
	BaselineAmountUSD         float64
	BaselineApprovedAmountUSD float64

	CurrentRate              float64
	CurrentApproved          int64
	CurrentTotal             int64
	CurrentAmountUSD         float64
	CurrentApprovedAmountUSD float64
}

func (c SegmentComparison) RateChange() float64 {
	return c.CurrentRate - c.BaselineRate
}

// AnomalyRecord is the scored form of a comparison.
type AnomalyRecord struct {
	SegmentType  string
	SegmentKey   string
	BaselineRate float64
	CurrentRate  float64
	RateChange   float64

	// AffectedTransactions is the current-period total.
	AffectedTransactions int64

	// ZScore standardizes RateChange against the eligible population.
	// ZScoreValid is false when that population cannot support one
	// (fewer than two rows, or zero spread).
	ZScore      float64
	ZScoreValid bool

	// PValue is the two-sided two-proportion z-test result; degenerate
	// inputs yield 1.0.
	PValue float64

	Eligible  bool
	IsAnomaly bool

	AvgTicketUSD              float64
	EstimatedRevenueImpactUSD float64

	// DominantDeclineReasons holds the top two current-period decline
	// reasons, empty when raw transactions were not available.
	DominantDeclineReasons []string
}

type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
	SeverityLow      Severity = "low"
)

// SeverityFor buckets a monthly revenue impact estimate.
func SeverityFor(impactUSD float64) Severity {
	switch {
	case impactUSD > 100_000:
		return SeverityCritical
	case impactUSD > 50_000:
		return SeverityHigh
	case impactUSD > 10_000:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

// Insight is one ranked, human-readable finding.
type Insight struct {
	Rank                      int
	ID                        string
	Title                     string
	Description               string
	SegmentType               string
	SegmentKey                string
	BaselineRate              float64
	CurrentRate               float64
	RateChange                float64
	AffectedTransactions      int64
	EstimatedRevenueImpactUSD float64
	Severity                  Severity
	Score                     float64
}

// WeeklyTrend is the headline per-week rollup.
type WeeklyTrend struct {
	WeekNumber           int
	TotalTransactions    int64
	ApprovedTransactions int64
	ApprovalRate         float64
	TotalAmountUSD       float64
}

// AnalysisSummary aggregates one analyze run for reporting.
type AnalysisSummary struct {
	BaselineRate          float64
	CurrentRate           float64
	RateChange            float64
	TotalMonthlyImpactUSD float64

	SegmentsCompared   int
	AnomaliesFlagged   int
	ExcludedSegments   int // present in only one half
	IneligibleSegments int // below the support threshold
	MalformedKeys      int // dropped before scoring

	CriticalInsights int
	HighInsights     int
	MediumInsights   int
	LowInsights      int

	GeneratedAt time.Time
}
