package adapters

import (
	"database/sql"

	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
)

func MapSegmentStatDomainToStore(s domain.SegmentStat) store.SegmentStatRow {
	row := store.SegmentStatRow{
		SegmentType:          s.SegmentType,
		SegmentKey:           s.SegmentKey,
		Period:               s.Period,
		TotalTransactions:    s.TotalTransactions,
		ApprovedTransactions: s.ApprovedTransactions,
		DeclinedTransactions: s.DeclinedTransactions,
		ApprovalRate:         s.ApprovalRate,
		TotalAmountUSD:       s.TotalAmountUSD,
		ApprovedAmountUSD:    s.ApprovedAmountUSD,
	}

	dims := [domain.MaxSegmentDimensions]sql.NullString{}
	for i, v := range s.Dimensions {
		if i >= domain.MaxSegmentDimensions {
			break
		}
		dims[i] = sql.NullString{String: v, Valid: true}
	}
	row.Dimension1, row.Dimension2, row.Dimension3, row.Dimension4 = dims[0], dims[1], dims[2], dims[3]
	return row
}

func MapSegmentStatStoreToDomain(r store.SegmentStatRow) domain.SegmentStat {
	var dims []string
	for _, d := range []sql.NullString{r.Dimension1, r.Dimension2, r.Dimension3, r.Dimension4} {
		if d.Valid {
			dims = append(dims, d.String)
		}
	}
	return domain.SegmentStat{
		SegmentType:          r.SegmentType,
		SegmentKey:           r.SegmentKey,
		Dimensions:           dims,
		Period:               r.Period,
		TotalTransactions:    r.TotalTransactions,
		ApprovedTransactions: r.ApprovedTransactions,
		DeclinedTransactions: r.DeclinedTransactions,
		ApprovalRate:         r.ApprovalRate,
		TotalAmountUSD:       r.TotalAmountUSD,
		ApprovedAmountUSD:    r.ApprovedAmountUSD,
	}
}

func MapSegmentStatDomainToApi(s domain.SegmentStat) api.SegmentStat {
	dims := make([]string, len(s.Dimensions))
	copy(dims, s.Dimensions)
	return api.SegmentStat{
		SegmentType:          s.SegmentType,
		SegmentKey:           s.SegmentKey,
		Dimensions:           dims,
		Period:               s.Period,
		TotalTransactions:    s.TotalTransactions,
		ApprovedTransactions: s.ApprovedTransactions,
		DeclinedTransactions: s.DeclinedTransactions,
		ApprovalRate:         s.ApprovalRate,
		TotalAmountUSD:       s.TotalAmountUSD,
		ApprovedAmountUSD:    s.ApprovedAmountUSD,
	}
}

func MapWeeklyTrendDomainToStore(t domain.WeeklyTrend) store.WeeklyTrendRow {
	return store.WeeklyTrendRow{
		WeekNumber:           t.WeekNumber,
		TotalTransactions:    t.TotalTransactions,
		ApprovedTransactions: t.ApprovedTransactions,
		ApprovalRate:         t.ApprovalRate,
		TotalAmountUSD:       t.TotalAmountUSD,
	}
}

func MapWeeklyTrendStoreToDomain(r store.WeeklyTrendRow) domain.WeeklyTrend {
	return domain.WeeklyTrend{
		WeekNumber:           r.WeekNumber,
		TotalTransactions:    r.TotalTransactions,
		ApprovedTransactions: r.ApprovedTransactions,
		ApprovalRate:         r.ApprovalRate,
		TotalAmountUSD:       r.TotalAmountUSD,
	}
}

func MapWeeklyTrendDomainToApi(t domain.WeeklyTrend) api.WeeklyTrend {
	return api.WeeklyTrend{
		WeekNumber:           t.WeekNumber,
		TotalTransactions:    t.TotalTransactions,
		ApprovedTransactions: t.ApprovedTransactions,
		ApprovalRate:         t.ApprovalRate,
		TotalAmountUSD:       t.TotalAmountUSD,
	}
}
