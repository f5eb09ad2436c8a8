package cohort

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Analyze computes the three cohort views over raw transactions:
// first-time vs returning approval rates per week, recurring vs one-time
// rates per week, and acquisition cohorts keyed by the week each customer
// first transacted. A customer's first transaction is the one with the
// earliest timestamp, transaction ID breaking ties.
func Analyze(ctx context.Context, txns []domain.Transaction) (domain.CohortReport, error) {
	if len(txns) == 0 {
		return domain.CohortReport{}, &domain.InsufficientDataError{
			Subject: "cohort analysis",
			Reason:  "no transactions to analyze",
		}
	}

	first := firstTransactions(txns)

	report := domain.CohortReport{
		FirstTimeVsReturning: firstTimeVsReturning(txns, first),
		RecurringVsOneTime:   recurringVsOneTime(txns),
		AcquisitionCohorts:   acquisitionCohorts(txns, first),
	}

	zerolog.Ctx(ctx).Info().
		Int("transactions", len(txns)).
		Int("customers", len(first)).
		Int("weeks", len(report.FirstTimeVsReturning)).
		Int("cohort_cells", len(report.AcquisitionCohorts)).
		Msg("computed cohort views")

	return report, nil
}

// firstTransactions maps each customer to their earliest transaction.
func firstTransactions(txns []domain.Transaction) map[string]domain.Transaction {
	first := make(map[string]domain.Transaction)
	for _, t := range txns {
		e, ok := first[t.CustomerID]
		if !ok || t.Timestamp.Before(e.Timestamp) ||
			(t.Timestamp.Equal(e.Timestamp) && t.ID < e.ID) {
			first[t.CustomerID] = t
		}
	}
	return first
}

type rateAcc struct {
	approved int64
	total    int64
}

func (a *rateAcc) add(approved bool) {
	a.total++
	if approved {
		a.approved++
	}
}

func (a rateAcc) rate() float64 {
	if a.total == 0 {
		return 0.0
	}
	return round4(float64(a.approved) / float64(a.total))
}

func firstTimeVsReturning(txns []domain.Transaction, first map[string]domain.Transaction) []domain.CustomerTypeRate {
	type weekAcc struct {
		firstTime rateAcc
		returning rateAcc
	}
	byWeek := make(map[int]*weekAcc)
	for _, t := range txns {
		acc, ok := byWeek[t.WeekNumber]
		if !ok {
			acc = &weekAcc{}
			byWeek[t.WeekNumber] = acc
		}
		if first[t.CustomerID].ID == t.ID {
			acc.firstTime.add(t.Approved())
		} else {
			acc.returning.add(t.Approved())
		}
	}

	out := make([]domain.CustomerTypeRate, 0, len(byWeek))
	for week, acc := range byWeek {
		out = append(out, domain.CustomerTypeRate{
			Week:           week,
			FirstTimeRate:  acc.firstTime.rate(),
			FirstTimeCount: acc.firstTime.total,
			ReturningRate:  acc.returning.rate(),
			ReturningCount: acc.returning.total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

func recurringVsOneTime(txns []domain.Transaction) []domain.RecurringRate {
	type weekAcc struct {
		recurring rateAcc
		oneTime   rateAcc
	}
	byWeek := make(map[int]*weekAcc)
	for _, t := range txns {
		acc, ok := byWeek[t.WeekNumber]
		if !ok {
			acc = &weekAcc{}
			byWeek[t.WeekNumber] = acc
		}
		if t.IsRecurring {
			acc.recurring.add(t.Approved())
		} else {
			acc.oneTime.add(t.Approved())
		}
	}

	out := make([]domain.RecurringRate, 0, len(byWeek))
	for week, acc := range byWeek {
		out = append(out, domain.RecurringRate{
			Week:           week,
			RecurringRate:  acc.recurring.rate(),
			RecurringCount: acc.recurring.total,
			OneTimeRate:    acc.oneTime.rate(),
			OneTimeCount:   acc.oneTime.total,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Week < out[j].Week })
	return out
}

func acquisitionCohorts(txns []domain.Transaction, first map[string]domain.Transaction) []domain.AcquisitionCohort {
	type cell struct {
		cohortWeek int
		txnWeek    int
	}
	type cellAcc struct {
		rateAcc
		customers map[string]struct{}
	}
	cells := make(map[cell]*cellAcc)
	for _, t := range txns {
		id := cell{cohortWeek: first[t.CustomerID].WeekNumber, txnWeek: t.WeekNumber}
		acc, ok := cells[id]
		if !ok {
			acc = &cellAcc{customers: make(map[string]struct{})}
			cells[id] = acc
		}
		acc.add(t.Approved())
		acc.customers[t.CustomerID] = struct{}{}
	}

	out := make([]domain.AcquisitionCohort, 0, len(cells))
	for id, acc := range cells {
		out = append(out, domain.AcquisitionCohort{
			CohortWeek:      id.cohortWeek,
			TransactionWeek: id.txnWeek,
			ApprovalRate:    acc.rate(),
			Customers:       int64(len(acc.customers)),
			Transactions:    acc.total,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CohortWeek != out[j].CohortWeek {
			return out[i].CohortWeek < out[j].CohortWeek
		}
		return out[i].TransactionWeek < out[j].TransactionWeek
	})
	return out
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
