package adapters

import (
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
)

func MapTransactionDomainToStore(t domain.Transaction) store.TransactionRow {
	return store.TransactionRow{
		ID:            t.ID,
		Timestamp:     t.Timestamp,
		WeekNumber:    t.WeekNumber,
		Country:       t.Country,
		Currency:      t.Currency,
		Amount:        t.Amount,
		AmountUSD:     t.AmountUSD,
		CardBrand:     t.CardBrand,
		CardType:      t.CardType,
		IssuerBank:    t.IssuerBank,
		Status:        t.Status,
		DeclineReason: t.DeclineReason,
		MerchantID:    t.MerchantID,
		CustomerID:    t.CustomerID,
		IsRecurring:   t.IsRecurring,
		HourOfDay:     t.HourOfDay,
	}
}

func MapTransactionStoreToDomain(r store.TransactionRow) domain.Transaction {
	return domain.Transaction{
		ID:            r.ID,
		Timestamp:     r.Timestamp,
		WeekNumber:    r.WeekNumber,
		Country:       r.Country,
		Currency:      r.Currency,
		Amount:        r.Amount,
		AmountUSD:     r.AmountUSD,
		CardBrand:     r.CardBrand,
		CardType:      r.CardType,
		IssuerBank:    r.IssuerBank,
		Status:        r.Status,
		DeclineReason: r.DeclineReason,
		MerchantID:    r.MerchantID,
		CustomerID:    r.CustomerID,
		IsRecurring:   r.IsRecurring,
		HourOfDay:     r.HourOfDay,
	}
}
