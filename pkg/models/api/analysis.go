package api

import "time"

// JSON shapes served by the dashboard API and written to the insight
// artifacts. Field order is fixed; artifact bytes must be stable
// across reruns on identical input.

type WeeklyTrend struct {
	WeekNumber           int     `json:"week_number"`
	TotalTransactions    int64   `json:"total_transactions"`
	ApprovedTransactions int64   `json:"approved_transactions"`
	ApprovalRate         float64 `json:"approval_rate"`
	TotalAmountUSD       float64 `json:"total_amount_usd"`
}

type SegmentStat struct {
	SegmentType          string   `json:"segment_type"`
	SegmentKey           string   `json:"segment_key"`
	Dimensions           []string `json:"dimensions"`
	Period               string   `json:"period"`
	TotalTransactions    int64    `json:"total_transactions"`
	ApprovedTransactions int64    `json:"approved_transactions"`
	DeclinedTransactions int64    `json:"declined_transactions"`
	ApprovalRate         float64  `json:"approval_rate"`
	TotalAmountUSD       float64  `json:"total_amount_usd"`
	ApprovedAmountUSD    float64  `json:"approved_amount_usd"`
}

type Anomaly struct {
	SegmentType               string   `json:"segment_type"`
	SegmentKey                string   `json:"segment_key"`
	BaselineRate              float64  `json:"baseline_rate"`
	CurrentRate               float64  `json:"current_rate"`
	RateChange                float64  `json:"rate_change"`
	AffectedTransactions      int64    `json:"affected_transactions"`
	ZScore                    float64  `json:"z_score"`
	ZScoreValid               bool     `json:"z_score_valid"`
	PValue                    float64  `json:"p_value"`
	Eligible                  bool     `json:"eligible"`
	IsAnomaly                 bool     `json:"is_anomaly"`
	AvgTicketUSD              float64  `json:"avg_ticket_usd"`
	EstimatedRevenueImpactUSD float64  `json:"estimated_revenue_impact_usd"`
	DominantDeclineReasons    []string `json:"dominant_decline_reasons"`
}

type Insight struct {
	Rank                      int     `json:"rank"`
	ID                        string  `json:"insight_id"`
	Title                     string  `json:"title"`
	Description               string  `json:"description"`
	SegmentType               string  `json:"segment_type"`
	SegmentKey                string  `json:"segment_key"`
	BaselineRate              float64 `json:"baseline_rate"`
	CurrentRate               float64 `json:"current_rate"`
	RateChange                float64 `json:"rate_change"`
	AffectedTransactions      int64   `json:"affected_transactions"`
	EstimatedRevenueImpactUSD float64 `json:"estimated_revenue_impact_usd"`
	Severity                  string  `json:"severity"`
	Score                     float64 `json:"score"`
}

type Summary struct {
	BaselineRate          float64 `json:"overall_baseline_rate"`
	CurrentRate           float64 `json:"overall_current_rate"`
	RateChange            float64 `json:"total_rate_change"`
	TotalMonthlyImpactUSD float64 `json:"total_monthly_revenue_impact_usd"`

	SegmentsCompared   int `json:"segments_compared"`
	AnomaliesFlagged   int `json:"anomalies_flagged"`
	ExcludedSegments   int `json:"excluded_segments"`
	IneligibleSegments int `json:"ineligible_segments"`
	MalformedKeys      int `json:"malformed_keys"`

	CriticalInsights int `json:"critical_insights"`
	HighInsights     int `json:"high_insights"`
	MediumInsights   int `json:"medium_insights"`
	LowInsights      int `json:"low_insights"`

	GeneratedAt time.Time `json:"generated_at"`
}

type CustomerTypeRate struct {
	Week           int     `json:"week"`
	FirstTimeRate  float64 `json:"first_time_rate"`
	FirstTimeCount int64   `json:"first_time_n"`
	ReturningRate  float64 `json:"returning_rate"`
	ReturningCount int64   `json:"returning_n"`
}

type RecurringRate struct {
	Week           int     `json:"week"`
	RecurringRate  float64 `json:"recurring_rate"`
	RecurringCount int64   `json:"recurring_n"`
	OneTimeRate    float64 `json:"onetime_rate"`
	OneTimeCount   int64   `json:"onetime_n"`
}

type AcquisitionCohort struct {
	CohortWeek      int     `json:"cohort_week"`
	TransactionWeek int     `json:"transaction_week"`
	ApprovalRate    float64 `json:"approval_rate"`
	Customers       int64   `json:"n_customers"`
	Transactions    int64   `json:"n_transactions"`
}

type CohortReport struct {
	FirstTimeVsReturning []CustomerTypeRate  `json:"first_time_vs_returning"`
	RecurringVsOneTime   []RecurringRate     `json:"recurring_vs_onetime"`
	AcquisitionCohorts   []AcquisitionCohort `json:"acquisition_cohorts"`
}
