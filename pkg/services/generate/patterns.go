package generate

// The synthetic table is seeded with four decline patterns. Weeks 1-3 run at
// healthy baseline rates; from week 4 on the BBVA Mexico issuer incident,
// a high-value risk rule and an evening fraud screen drag approvals down.

const (
	earlyBaseRate = 0.85
	lateBaseRate  = 0.75

	highValueThresholdUSD = 200.0
	eveningStartHour      = 20

	incidentIssuer  = "BBVA"
	incidentCountry = "MX"
)

// weightedReason pairs a decline reason with its sampling weight.
// Each table sums to 1.0.
type weightedReason struct {
	Reason string
	Weight float64
}

var baselineDeclineWeights = []weightedReason{
	{"insufficient_funds", 0.35},
	{"do_not_honor", 0.25},
	{"expired_card", 0.10},
	{"invalid_transaction", 0.10},
	{"restricted_card", 0.08},
	{"lost_card", 0.05},
	{"pickup_card", 0.04},
	{"fraud_suspected", 0.03},
}

var issuerIncidentDeclineWeights = []weightedReason{
	{"do_not_honor", 0.40},
	{"fraud_suspected", 0.35},
	{"insufficient_funds", 0.10},
	{"restricted_card", 0.07},
	{"expired_card", 0.05},
	{"invalid_transaction", 0.02},
	{"lost_card", 0.01},
}

var highValueDeclineWeights = []weightedReason{
	{"restricted_card", 0.40},
	{"do_not_honor", 0.35},
	{"insufficient_funds", 0.10},
	{"fraud_suspected", 0.08},
	{"expired_card", 0.05},
	{"invalid_transaction", 0.01},
	{"lost_card", 0.01},
}

var eveningDeclineWeights = []weightedReason{
	{"fraud_suspected", 0.50},
	{"do_not_honor", 0.25},
	{"insufficient_funds", 0.10},
	{"restricted_card", 0.08},
	{"expired_card", 0.05},
	{"invalid_transaction", 0.01},
	{"lost_card", 0.01},
}

func isBaselineWeek(weekNumber int) bool {
	return weekNumber <= 3
}

// approvalRate returns the probability that a transaction with the given
// attributes is approved.
func approvalRate(weekNumber int, country, issuerBank string, amountUSD float64, hour int) float64 {
	early := isBaselineWeek(weekNumber)

	rate := lateBaseRate
	if early {
		rate = earlyBaseRate
	}

	if country == incidentCountry && issuerBank == incidentIssuer {
		if early {
			rate = 0.85
		} else {
			rate = 0.45
			if amountUSD > highValueThresholdUSD {
				rate = 0.38
			}
		}
	} else if amountUSD > highValueThresholdUSD {
		if early {
			rate = min(rate, 0.80)
		} else {
			rate = min(rate, 0.60)
			if country == incidentCountry {
				rate = min(rate, 0.55)
			}
		}
	}

	if hour >= eveningStartHour {
		if early {
			rate = min(rate, 0.78)
		} else {
			rate = min(rate, 0.58)
		}
	}
	return rate
}

// declineWeightsFor picks the reason table matching the pattern that most
// plausibly caused the decline.
func declineWeightsFor(weekNumber int, country, issuerBank string, amountUSD float64, hour int) []weightedReason {
	switch {
	case country == incidentCountry && issuerBank == incidentIssuer && !isBaselineWeek(weekNumber):
		return issuerIncidentDeclineWeights
	case amountUSD > highValueThresholdUSD:
		return highValueDeclineWeights
	case hour >= eveningStartHour:
		return eveningDeclineWeights
	default:
		return baselineDeclineWeights
	}
}
