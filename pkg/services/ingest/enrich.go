package ingest

import "github.com/de-tools/txn-atlas/pkg/models/domain"

// Enrich derives the bucket columns the segmentation stage groups on.
func Enrich(txns []domain.Transaction) []domain.EnrichedTransaction {
	enriched := make([]domain.EnrichedTransaction, len(txns))
	for i, txn := range txns {
		enriched[i] = domain.EnrichedTransaction{
			Transaction:  txn,
			AmountBucket: domain.AmountBucketFor(txn.AmountUSD),
			HourBucket:   domain.HourBucketFor(txn.HourOfDay),
			PeriodHalf:   domain.PeriodHalfFor(txn.WeekNumber),
		}
	}
	return enriched
}
