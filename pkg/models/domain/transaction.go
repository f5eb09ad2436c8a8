package domain

import "time"

const (
	StatusApproved = "approved"
	StatusDeclined = "declined"
)

// Transaction is one card payment attempt as produced by the generator
// or loaded from the transactions table.
type Transaction struct {
	ID            string
	Timestamp     time.Time
	WeekNumber    int     // 1-6
	Country       string  // BR, MX, CO
	Currency      string  // BRL, MXN, COP
	Amount        float64 // local currency
	AmountUSD     float64
	CardBrand     string // Visa, Mastercard, Amex
	CardType      string // Credit, Debit, Prepaid
	IssuerBank    string
	Status        string // approved, declined
	DeclineReason string // empty when approved
	MerchantID    string
	CustomerID    string
	IsRecurring   bool
	HourOfDay     int // 0-23
}

func (t Transaction) Approved() bool {
	return t.Status == StatusApproved
}

// EnrichedTransaction carries the derived columns added at ingest time.
type EnrichedTransaction struct {
	Transaction
	AmountBucket string
	HourBucket   string
	PeriodHalf   string // weeks_1_3 or weeks_4_6
}
