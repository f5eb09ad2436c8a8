package insight

import (
	"context"
	"math"
	"sort"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/exp/constraints"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Composite score weights. Impact dominates: a small segment with a huge
// drop matters less than a large segment bleeding real money.
const (
	weightImpact       = 0.40
	weightMagnitude    = 0.30
	weightSignificance = 0.20
	weightBreadth      = 0.10
)

const defaultTopInsights = 5

// insightNamespace scopes the deterministic insight ids: the same segment
// always yields the same id across reruns.
var insightNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("txn-atlas.de-tools.dev"))

// Ranker turns flagged anomalies into the top-N ranked insights.
type Ranker struct {
	topN int
}

func NewRanker(topN int) *Ranker {
	if topN <= 0 {
		topN = defaultTopInsights
	}
	return &Ranker{topN: topN}
}

// Rank filters to flagged anomalies, suppresses broader duplicates of more
// specific findings, scores the rest and returns the top N. No flagged
// anomalies means no insights.
func (r *Ranker) Rank(ctx context.Context, records []domain.AnomalyRecord) ([]domain.Insight, error) {
	logger := zerolog.Ctx(ctx)

	flagged := make([]domain.AnomalyRecord, 0, len(records))
	for _, rec := range records {
		if rec.IsAnomaly {
			flagged = append(flagged, rec)
		}
	}
	if len(flagged) == 0 {
		logger.Info().Msg("no anomalies flagged, nothing to rank")
		return []domain.Insight{}, nil
	}

	kept, suppressed := dedupeBroader(flagged)
	if suppressed > 0 {
		logger.Info().
			Int("suppressed", suppressed).
			Msg("suppressed broader anomalies covered by more specific ones")
	}

	impacts := make([]float64, len(kept))
	magnitudes := make([]float64, len(kept))
	significances := make([]float64, len(kept))
	breadths := make([]float64, len(kept))
	for i, rec := range kept {
		impacts[i] = rec.EstimatedRevenueImpactUSD
		magnitudes[i] = math.Abs(rec.RateChange)
		significances[i] = 1 - rec.PValue
		breadths[i] = float64(rec.AffectedTransactions)
	}
	impactNorm := normalize(impacts)
	magnitudeNorm := normalize(magnitudes)
	significanceNorm := normalize(significances)
	breadthNorm := normalize(breadths)

	type scored struct {
		rec   domain.AnomalyRecord
		score float64
	}
	scoredRecs := make([]scored, len(kept))
	for i, rec := range kept {
		scoredRecs[i] = scored{
			rec: rec,
			score: weightImpact*impactNorm[i] +
				weightMagnitude*magnitudeNorm[i] +
				weightSignificance*significanceNorm[i] +
				weightBreadth*breadthNorm[i],
		}
	}

	sort.Slice(scoredRecs, func(i, j int) bool {
		a, b := scoredRecs[i], scoredRecs[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if a.rec.EstimatedRevenueImpactUSD != b.rec.EstimatedRevenueImpactUSD {
			return a.rec.EstimatedRevenueImpactUSD > b.rec.EstimatedRevenueImpactUSD
		}
		if a.rec.SegmentType != b.rec.SegmentType {
			return a.rec.SegmentType < b.rec.SegmentType
		}
		return a.rec.SegmentKey < b.rec.SegmentKey
	})

	if len(scoredRecs) > r.topN {
		scoredRecs = scoredRecs[:r.topN]
	}

	insights := make([]domain.Insight, 0, len(scoredRecs))
	for i, s := range scoredRecs {
		severity := domain.SeverityFor(s.rec.EstimatedRevenueImpactUSD)
		data := newTemplateData(s.rec, severity)

		title, err := renderTitle(data)
		if err != nil {
			return nil, err
		}
		description, err := renderDescription(data)
		if err != nil {
			return nil, err
		}

		insights = append(insights, domain.Insight{
			Rank:                      i + 1,
			ID:                        insightID(s.rec.SegmentType, s.rec.SegmentKey),
			Title:                     title,
			Description:               description,
			SegmentType:               s.rec.SegmentType,
			SegmentKey:                s.rec.SegmentKey,
			BaselineRate:              s.rec.BaselineRate,
			CurrentRate:               s.rec.CurrentRate,
			RateChange:                s.rec.RateChange,
			AffectedTransactions:      s.rec.AffectedTransactions,
			EstimatedRevenueImpactUSD: s.rec.EstimatedRevenueImpactUSD,
			Severity:                  severity,
			Score:                     s.score,
		})
	}

	logger.Info().
		Int("flagged", len(flagged)).
		Int("ranked", len(insights)).
		Msg("ranked insights")
	return insights, nil
}

func insightID(segmentType, segmentKey string) string {
	name := segmentType + domain.SegmentKeySeparator + segmentKey
	return uuid.NewSHA1(insightNamespace, []byte(name)).String()
}

// dedupeBroader drops an anomaly when a more specific anomaly moving in
// the same direction already covers it: the broader record's dimension
// map is a strict subset of the narrower one's.
func dedupeBroader(records []domain.AnomalyRecord) ([]domain.AnomalyRecord, int) {
	type parsed struct {
		rec  domain.AnomalyRecord
		dims map[string]string
	}

	parsedRecs := make([]parsed, 0, len(records))
	for _, rec := range records {
		def, ok := domain.SegmentDefinitionFor(rec.SegmentType)
		if !ok {
			continue
		}
		dims, err := domain.ParseSegmentKey(def, rec.SegmentKey)
		if err != nil {
			continue
		}
		parsedRecs = append(parsedRecs, parsed{rec: rec, dims: dims})
	}

	kept := make([]domain.AnomalyRecord, 0, len(parsedRecs))
	suppressed := 0
	for i, p := range parsedRecs {
		covered := false
		for j, q := range parsedRecs {
			if i == j || len(p.dims) >= len(q.dims) {
				continue
			}
			if sameDirection(p.rec.RateChange, q.rec.RateChange) && isStrictSubset(p.dims, q.dims) {
				covered = true
				break
			}
		}
		if covered {
			suppressed++
			continue
		}
		kept = append(kept, p.rec)
	}
	return kept, suppressed
}

func isStrictSubset(a, b map[string]string) bool {
	if len(a) >= len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

func sameDirection(a, b float64) bool {
	return (a < 0 && b < 0) || (a > 0 && b > 0) || (a == 0 && b == 0)
}

func normalize(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	mn, mx := minMax(xs)
	if mn == mx {
		return out
	}
	for i, x := range xs {
		out[i] = (x - mn) / (mx - mn)
	}
	return out
}

func minMax[T constraints.Ordered](xs []T) (T, T) {
	mn, mx := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < mn {
			mn = x
		}
		if x > mx {
			mx = x
		}
	}
	return mn, mx
}
