package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// MaxSegmentDimensions bounds how many dimensions a segment definition
// may combine; the stats schema carries one column per slot.
const MaxSegmentDimensions = 4

const SegmentKeySeparator = "|"

// SegmentTypeTimeWeekly names the per-week catalog entry; the weekly
// trend rollup and the summary rates are projected from it.
const SegmentTypeTimeWeekly = "time_weekly"

// SegmentDefinition names one slice of the transaction table: a segment
// type plus the ordered dimension columns whose values form the key.
type SegmentDefinition struct {
	Type       string
	Dimensions []string
}

// SegmentCatalog returns the segment definitions the aggregator runs,
// in a fixed order. Every consumer of segment keys resolves them
// against this catalog.
func SegmentCatalog() []SegmentDefinition {
	return []SegmentDefinition{
		{Type: SegmentTypeTimeWeekly, Dimensions: []string{"week_number"}},
		{Type: "country", Dimensions: []string{"country"}},
		{Type: "card_brand", Dimensions: []string{"card_brand"}},
		{Type: "card_type", Dimensions: []string{"card_type"}},
		{Type: "issuer", Dimensions: []string{"country", "issuer_bank"}},
		{Type: "amount_bucket", Dimensions: []string{"amount_bucket"}},
		{Type: "hour_bucket", Dimensions: []string{"hour_bucket"}},
		{Type: "country_brand", Dimensions: []string{"country", "card_brand"}},
		{Type: "country_brand_type", Dimensions: []string{"country", "card_brand", "card_type"}},
		{Type: "issuer_brand_type", Dimensions: []string{"country", "issuer_bank", "card_brand", "card_type"}},
	}
}

// SegmentDefinitionFor resolves a segment type against the catalog.
func SegmentDefinitionFor(segmentType string) (SegmentDefinition, bool) {
	for _, def := range SegmentCatalog() {
		if def.Type == segmentType {
			return def, true
		}
	}
	return SegmentDefinition{}, false
}

func BuildSegmentKey(values []string) string {
	return strings.Join(values, SegmentKeySeparator)
}

// ParseSegmentKey splits a key back into a dimension -> value map using
// the definition's column order. Arity mismatches mean the key was not
// produced by this definition.
func ParseSegmentKey(def SegmentDefinition, key string) (map[string]string, error) {
	values := strings.Split(key, SegmentKeySeparator)
	if len(values) != len(def.Dimensions) {
		return nil, fmt.Errorf("segment key %q has %d values, definition %q expects %d",
			key, len(values), def.Type, len(def.Dimensions))
	}
	dims := make(map[string]string, len(values))
	for i, d := range def.Dimensions {
		dims[d] = values[i]
	}
	return dims, nil
}

// DimensionValue maps a dimension column name to its value on the
// transaction. The boolean is false for columns the catalog does not know.
func (t EnrichedTransaction) DimensionValue(name string) (string, bool) {
	switch name {
	case "week_number":
		return strconv.Itoa(t.WeekNumber), true
	case "country":
		return t.Country, true
	case "card_brand":
		return t.CardBrand, true
	case "card_type":
		return t.CardType, true
	case "issuer_bank":
		return t.IssuerBank, true
	case "amount_bucket":
		return t.AmountBucket, true
	case "hour_bucket":
		return t.HourBucket, true
	default:
		return "", false
	}
}

// SegmentStat is one aggregated row: a segment observed in a time bucket.
type SegmentStat struct {
	SegmentType          string
	SegmentKey           string
	Dimensions           []string // values in definition order, at most MaxSegmentDimensions
	Period               string   // week_1..week_6, weeks_1_3, weeks_4_6, overall
	TotalTransactions    int64
	ApprovedTransactions int64
	DeclinedTransactions int64
	ApprovalRate         float64 // approved / total, total > 0 by construction
	TotalAmountUSD       float64
	ApprovedAmountUSD    float64
}

// Validate re-checks the aggregation invariants on an emitted row.
func (s SegmentStat) Validate() error {
	if s.TotalTransactions <= 0 {
		return &SchemaError{Table: "segment_stats", Field: "total_transactions", Reason: "must be positive for emitted rows"}
	}
	if s.ApprovedTransactions+s.DeclinedTransactions != s.TotalTransactions {
		return &SchemaError{Table: "segment_stats", Field: "approved_transactions", Reason: "approved + declined must equal total"}
	}
	if s.ApprovalRate < 0 || s.ApprovalRate > 1 {
		return &SchemaError{Table: "segment_stats", Field: "approval_rate", Reason: "must be within [0, 1]"}
	}
	if len(s.Dimensions) == 0 || len(s.Dimensions) > MaxSegmentDimensions {
		return &SchemaError{Table: "segment_stats", Field: "dimensions", Reason: "must carry 1-4 dimension values"}
	}
	return nil
}
