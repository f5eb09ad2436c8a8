package domain

// Cohort views computed over raw transactions. Rates are 0.0 when the
// denominator is zero.

type CustomerTypeRate struct {
	Week           int
	FirstTimeRate  float64
	FirstTimeCount int64
	ReturningRate  float64
	ReturningCount int64
}

type RecurringRate struct {
	Week           int
	RecurringRate  float64
	RecurringCount int64
	OneTimeRate    float64
	OneTimeCount   int64
}

// AcquisitionCohort tracks customers acquired in CohortWeek through
// their transactions in TransactionWeek.
type AcquisitionCohort struct {
	CohortWeek      int
	TransactionWeek int
	ApprovalRate    float64
	Customers       int64
	Transactions    int64
}

type CohortReport struct {
	FirstTimeVsReturning []CustomerTypeRate
	RecurringVsOneTime   []RecurringRate
	AcquisitionCohorts   []AcquisitionCohort
}
