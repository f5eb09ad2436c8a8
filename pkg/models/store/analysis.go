package store

// AnomalyRow mirrors the anomalies table. DominantDeclineReasons is
// persisted as a JSON array.
type AnomalyRow struct {
	SegmentType               string
	SegmentKey                string
	BaselineRate              float64
	CurrentRate               float64
	RateChange                float64
	AffectedTransactions      int64
	ZScore                    float64
	ZScoreValid               bool
	PValue                    float64
	Eligible                  bool
	IsAnomaly                 bool
	AvgTicketUSD              float64
	EstimatedRevenueImpactUSD float64
	DominantDeclineReasons    []string
}

type InsightRow struct {
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
	Severity                  string
	Score                     float64
}
