package store

import "time"

// TransactionRow mirrors the transactions table. Validation tags
// express the raw-table contract checked at load time.
type TransactionRow struct {
	ID            string    `validate:"required"`
	Timestamp     time.Time `validate:"required"`
	WeekNumber    int       `validate:"min=1,max=6"`
	Country       string    `validate:"required,len=2"`
	Currency      string    `validate:"required,len=3"`
	Amount        float64   `validate:"gt=0"`
	AmountUSD     float64   `validate:"gt=0"`
	CardBrand     string    `validate:"required"`
	CardType      string    `validate:"required"`
	IssuerBank    string    `validate:"required"`
	Status        string    `validate:"required,oneof=approved declined"`
	DeclineReason string    `validate:"required_if=Status declined,excluded_if=Status approved"`
	MerchantID    string    `validate:"required"`
	CustomerID    string    `validate:"required"`
	IsRecurring   bool
	HourOfDay     int `validate:"min=0,max=23"`
}
