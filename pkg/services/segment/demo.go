package segment

import (
	"context"
	"sort"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// demoSource serves a small fixed segment table so the analyze stage can
// be exercised before any pipeline output exists. It carries the three
// incident patterns of the synthetic story: the BBVA Mexico collapse,
// high-value degradation and the evening fraud screen.
type demoSource struct{}

func NewDemoSource() Source {
	return demoSource{}
}

func (demoSource) Name() string {
	return "demo segments"
}

type demoRow struct {
	segmentType  string
	dims         []string
	baselineRate float64
	currentRate  float64
	baselineTxns int64
	currentTxns  int64
	avgTicketUSD float64
}

var demoRows = []demoRow{
	{"issuer_brand_type", []string{"MX", "BBVA", "Mastercard", "Debit"}, 0.85, 0.44, 1180, 1200, 85.0},
	{"issuer_brand_type", []string{"MX", "Banorte", "Visa", "Credit"}, 0.82, 0.74, 650, 660, 55.0},
	{"issuer_brand_type", []string{"MX", "Santander MX", "Visa", "Credit"}, 0.81, 0.73, 420, 430, 52.0},
	{"issuer_brand_type", []string{"MX", "Citibanamex", "Mastercard", "Credit"}, 0.80, 0.72, 380, 390, 48.0},
	{"issuer_brand_type", []string{"MX", "HSBC MX", "Visa", "Debit"}, 0.79, 0.71, 310, 315, 34.0},
	{"issuer_brand_type", []string{"BR", "Itau", "Visa", "Credit"}, 0.83, 0.69, 900, 910, 45.0},
	{"issuer_brand_type", []string{"BR", "Bradesco", "Mastercard", "Debit"}, 0.82, 0.68, 750, 760, 36.0},
	{"issuer_brand_type", []string{"BR", "Nubank", "Visa", "Credit"}, 0.85, 0.71, 680, 690, 42.0},
	{"issuer_brand_type", []string{"BR", "Santander BR", "Mastercard", "Credit"}, 0.81, 0.67, 520, 530, 50.0},
	{"issuer_brand_type", []string{"BR", "Caixa", "Visa", "Debit"}, 0.80, 0.66, 480, 490, 30.0},
	{"issuer_brand_type", []string{"CO", "Bancolombia", "Visa", "Credit"}, 0.82, 0.68, 400, 410, 40.0},
	{"issuer_brand_type", []string{"CO", "Davivienda", "Mastercard", "Debit"}, 0.80, 0.66, 300, 305, 32.0},
	{"issuer_brand_type", []string{"CO", "Banco de Bogota", "Visa", "Credit"}, 0.79, 0.65, 250, 255, 38.0},
	{"issuer_brand_type", []string{"CO", "BBVA CO", "Mastercard", "Credit"}, 0.78, 0.64, 220, 225, 44.0},

	{"amount_bucket", []string{"$10-50"}, 0.84, 0.72, 1200, 1220, 28.0},
	{"amount_bucket", []string{"$50-100"}, 0.83, 0.69, 980, 990, 72.0},
	{"amount_bucket", []string{"$100-200"}, 0.81, 0.61, 620, 630, 145.0},
	{"amount_bucket", []string{"$200-350"}, 0.79, 0.54, 380, 385, 265.0},
	{"amount_bucket", []string{"$350-500"}, 0.77, 0.50, 180, 182, 415.0},

	{"hour_bucket", []string{"morning_6_12"}, 0.84, 0.71, 800, 810, 45.0},
	{"hour_bucket", []string{"afternoon_12_17"}, 0.83, 0.70, 950, 960, 47.0},
	{"hour_bucket", []string{"evening_17_20"}, 0.82, 0.55, 700, 710, 50.0},
	{"hour_bucket", []string{"night_20_24"}, 0.80, 0.63, 600, 605, 43.0},
	{"hour_bucket", []string{"late_night_0_6"}, 0.78, 0.64, 200, 202, 38.0},

	{"country", []string{"MX"}, 0.82, 0.63, 2100, 2130, 45.0},
	{"country", []string{"BR"}, 0.83, 0.66, 3400, 3450, 40.0},
	{"country", []string{"CO"}, 0.80, 0.65, 1200, 1210, 38.0},
}

func (d demoSource) Segments(ctx context.Context) ([]domain.SegmentStat, error) {
	stats := make([]domain.SegmentStat, 0, 2*len(demoRows))
	for _, row := range demoRows {
		halves := []struct {
			period string
			rate   float64
			total  int64
		}{
			{domain.PeriodBaseline, row.baselineRate, row.baselineTxns},
			{domain.PeriodCurrent, row.currentRate, row.currentTxns},
		}
		for _, half := range halves {
			approved := int64(float64(half.total) * half.rate)
			stats = append(stats, domain.SegmentStat{
				SegmentType:          row.segmentType,
				SegmentKey:           domain.BuildSegmentKey(row.dims),
				Dimensions:           row.dims,
				Period:               half.period,
				TotalTransactions:    half.total,
				ApprovedTransactions: approved,
				DeclinedTransactions: half.total - approved,
				ApprovalRate:         float64(approved) / float64(half.total),
				TotalAmountUSD:       float64(half.total) * row.avgTicketUSD,
				ApprovedAmountUSD:    float64(approved) * row.avgTicketUSD,
			})
		}
	}

	sort.Slice(stats, func(i, j int) bool {
		if stats[i].SegmentType != stats[j].SegmentType {
			return stats[i].SegmentType < stats[j].SegmentType
		}
		if stats[i].SegmentKey != stats[j].SegmentKey {
			return stats[i].SegmentKey < stats[j].SegmentKey
		}
		return stats[i].Period < stats[j].Period
	})

	zerolog.Ctx(ctx).Warn().
		Int("segment_rows", len(stats)).
		Msg("serving built-in demo segments, run the pipeline stage for real data")
	return stats, nil
}
