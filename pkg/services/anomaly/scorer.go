package anomaly

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Config carries the detection thresholds.
type Config struct {
	// MinSupport is the minimum current-period volume a segment needs to
	// be statistically eligible.
	MinSupport int64
	ZThreshold float64
	PThreshold float64
}

// Scorer turns period comparisons into anomaly records. The z-score
// population is restricted to eligible segments so that long-tail noise
// does not dilute the spread.
type Scorer struct {
	cfg Config
}

func NewScorer(cfg Config) *Scorer {
	return &Scorer{cfg: cfg}
}

// ReasonLookup resolves the dominant current-period decline reasons for
// a segment. A nil lookup leaves the field empty.
type ReasonLookup func(segmentType, segmentKey string) []string

// Result is one scoring pass over all comparisons.
type Result struct {
	Anomalies  []domain.AnomalyRecord
	Flagged    int
	Ineligible int
	Malformed  int
}

func (s *Scorer) Score(ctx context.Context, comparisons []domain.SegmentComparison, reasons ReasonLookup) Result {
	logger := zerolog.Ctx(ctx)

	valid := make([]domain.SegmentComparison, 0, len(comparisons))
	malformed := 0
	for _, c := range comparisons {
		def, ok := domain.SegmentDefinitionFor(c.SegmentType)
		if !ok {
			malformed++
			logger.Warn().
				Str("segment_type", c.SegmentType).
				Str("segment_key", c.SegmentKey).
				Msg("dropping comparison with unknown segment type")
			continue
		}
		if _, err := domain.ParseSegmentKey(def, c.SegmentKey); err != nil {
			malformed++
			logger.Warn().
				Err(err).
				Str("segment_type", c.SegmentType).
				Msg("dropping comparison with malformed segment key")
			continue
		}
		valid = append(valid, c)
	}

	var pool []float64
	for _, c := range valid {
		if c.CurrentTotal >= s.cfg.MinSupport {
			pool = append(pool, c.RateChange())
		}
	}
	poolMean := mean(pool)
	poolStd := stdDev(pool, poolMean)
	zValid := len(pool) >= 2 && poolStd > 0

	records := make([]domain.AnomalyRecord, 0, len(valid))
	ineligible := 0
	flagged := 0
	for _, c := range valid {
		eligible := c.CurrentTotal >= s.cfg.MinSupport
		if !eligible {
			ineligible++
		}

		rateChange := c.RateChange()
		var zScore float64
		if zValid {
			zScore = (rateChange - poolMean) / poolStd
		}

		pValue := TwoProportionPValue(c.BaselineApproved, c.BaselineTotal, c.CurrentApproved, c.CurrentTotal)

		var avgTicket float64
		switch {
		case c.CurrentApproved > 0:
			avgTicket = c.CurrentApprovedAmountUSD / float64(c.CurrentApproved)
		case c.CurrentTotal > 0:
			avgTicket = c.CurrentAmountUSD / float64(c.CurrentTotal)
		}

		impact := float64(c.CurrentTotal) * avgTicket * math.Abs(rateChange) * domain.WeeksPerMonth
		impact = decimal.NewFromFloat(impact).Round(2).InexactFloat64()

		isAnomaly := eligible &&
			((zValid && math.Abs(zScore) > s.cfg.ZThreshold) || pValue < s.cfg.PThreshold) &&
			c.CurrentTotal > s.cfg.MinSupport
		if isAnomaly {
			flagged++
		}

		var topReasons []string
		if reasons != nil {
			topReasons = reasons(c.SegmentType, c.SegmentKey)
		}

		records = append(records, domain.AnomalyRecord{
			SegmentType:               c.SegmentType,
			SegmentKey:                c.SegmentKey,
			BaselineRate:              c.BaselineRate,
			CurrentRate:               c.CurrentRate,
			RateChange:                rateChange,
			AffectedTransactions:      c.CurrentTotal,
			ZScore:                    zScore,
			ZScoreValid:               zValid,
			PValue:                    pValue,
			Eligible:                  eligible,
			IsAnomaly:                 isAnomaly,
			AvgTicketUSD:              avgTicket,
			EstimatedRevenueImpactUSD: impact,
			DominantDeclineReasons:    topReasons,
		})
	}

	sort.Slice(records, func(i, j int) bool {
		if records[i].SegmentType != records[j].SegmentType {
			return records[i].SegmentType < records[j].SegmentType
		}
		return records[i].SegmentKey < records[j].SegmentKey
	})

	logger.Info().
		Int("scored", len(records)).
		Int("flagged", flagged).
		Int("ineligible", ineligible).
		Int("malformed", malformed).
		Bool("z_score_valid", zValid).
		Msg("scored segment comparisons")

	return Result{
		Anomalies:  records,
		Flagged:    flagged,
		Ineligible: ineligible,
		Malformed:  malformed,
	}
}
