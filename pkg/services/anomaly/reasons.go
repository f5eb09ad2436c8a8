package anomaly

import (
	"sort"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// dominantReasonLimit caps how many decline reasons an anomaly record
// carries.
const dominantReasonLimit = 2

// DeclineReasonLookup precomputes, for every catalog segment, the most
// frequent current-period decline reasons. Ties break alphabetically.
func DeclineReasonLookup(txns []domain.EnrichedTransaction) ReasonLookup {
	type segmentID struct {
		Type string
		Key  string
	}

	counts := map[segmentID]map[string]int{}
	defs := domain.SegmentCatalog()

	for _, txn := range txns {
		if txn.Approved() || txn.DeclineReason == "" || txn.PeriodHalf != domain.PeriodCurrent {
			continue
		}
		for _, def := range defs {
			values := make([]string, len(def.Dimensions))
			known := true
			for i, dim := range def.Dimensions {
				value, ok := txn.DimensionValue(dim)
				if !ok {
					known = false
					break
				}
				values[i] = value
			}
			if !known {
				continue
			}

			id := segmentID{Type: def.Type, Key: domain.BuildSegmentKey(values)}
			if counts[id] == nil {
				counts[id] = map[string]int{}
			}
			counts[id][txn.DeclineReason]++
		}
	}

	return func(segmentType, segmentKey string) []string {
		reasonCounts := counts[segmentID{Type: segmentType, Key: segmentKey}]
		if len(reasonCounts) == 0 {
			return nil
		}

		reasons := make([]string, 0, len(reasonCounts))
		for reason := range reasonCounts {
			reasons = append(reasons, reason)
		}
		sort.Slice(reasons, func(i, j int) bool {
			if reasonCounts[reasons[i]] != reasonCounts[reasons[j]] {
				return reasonCounts[reasons[i]] > reasonCounts[reasons[j]]
			}
			return reasons[i] < reasons[j]
		})

		if len(reasons) > dominantReasonLimit {
			reasons = reasons[:dominantReasonLimit]
		}
		return reasons
	}
}
