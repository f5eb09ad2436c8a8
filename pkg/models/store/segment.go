package store

import "database/sql"

// SegmentStatRow mirrors the segment_stats table. Dimension columns
// beyond the definition's arity are NULL.
type SegmentStatRow struct {
	SegmentType          string
	SegmentKey           string
	Dimension1           sql.NullString
	Dimension2           sql.NullString
	Dimension3           sql.NullString
	Dimension4           sql.NullString
	Period               string
	TotalTransactions    int64
	ApprovedTransactions int64
	DeclinedTransactions int64
	ApprovalRate         float64
	TotalAmountUSD       float64
	ApprovedAmountUSD    float64
}

type WeeklyTrendRow struct {
	WeekNumber           int
	TotalTransactions    int64
	ApprovedTransactions int64
	ApprovalRate         float64
	TotalAmountUSD       float64
}
