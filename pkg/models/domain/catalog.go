package domain

import "fmt"

// Reference data shared by the generator, the pipeline and the analytics
// stages. Weights describe the synthetic traffic mix; fx rates convert
// local amounts to USD (usd = local * fx).

type CountryInfo struct {
	Currency string
	Weight   float64
	FXRate   float64
}

var Countries = map[string]CountryInfo{
	"BR": {Currency: "BRL", Weight: 0.50, FXRate: 0.20},
	"MX": {Currency: "MXN", Weight: 0.30, FXRate: 0.058},
	"CO": {Currency: "COP", Weight: 0.20, FXRate: 0.00025},
}

var CardBrands = map[string]float64{
	"Visa":       0.50,
	"Mastercard": 0.35,
	"Amex":       0.15,
}

var CardTypes = map[string]float64{
	"Credit":  0.60,
	"Debit":   0.35,
	"Prepaid": 0.05,
}

var IssuerBanks = map[string][]string{
	"BR": {"Itau", "Bradesco", "Banco do Brasil", "Santander BR", "Nubank", "Caixa", "BTG Pactual", "Inter"},
	"MX": {"BBVA", "Banorte", "Santander MX", "Citibanamex", "HSBC MX", "Scotiabank MX", "Banco Azteca", "Inbursa"},
	"CO": {"Bancolombia", "Davivienda", "Banco de Bogota", "BBVA CO", "Scotiabank CO", "Banco Popular", "Banco de Occidente", "Nequi"},
}

var DeclineReasons = []string{
	"insufficient_funds",
	"do_not_honor",
	"expired_card",
	"invalid_transaction",
	"restricted_card",
	"lost_card",
	"pickup_card",
	"fraud_suspected",
}

var AmountBuckets = []string{"$10-50", "$50-100", "$100-200", "$200-350", "$350-500"}

var HourBuckets = []string{"morning_6_12", "afternoon_12_17", "evening_17_20", "night_20_24", "late_night_0_6"}

// Target approval rates behind the synthetic story.
const (
	BaselineApprovalRate = 0.82 // weeks 1-3
	DegradedApprovalRate = 0.64 // weeks 4-6
)

const (
	PeriodBaseline = "weeks_1_3"
	PeriodCurrent  = "weeks_4_6"
	PeriodOverall  = "overall"
)

const (
	FirstWeek = 1
	LastWeek  = 6

	// WeeksPerMonth scales a 3-week observation window to a monthly figure.
	WeeksPerMonth = 4.33
)

func WeekPeriod(week int) string {
	return fmt.Sprintf("week_%d", week)
}

func PeriodHalfFor(week int) string {
	if week <= 3 {
		return PeriodBaseline
	}
	return PeriodCurrent
}

func AmountBucketFor(amountUSD float64) string {
	switch {
	case amountUSD < 50:
		return AmountBuckets[0]
	case amountUSD < 100:
		return AmountBuckets[1]
	case amountUSD < 200:
		return AmountBuckets[2]
	case amountUSD < 350:
		return AmountBuckets[3]
	default:
		return AmountBuckets[4]
	}
}

func HourBucketFor(hour int) string {
	switch {
	case hour >= 6 && hour < 12:
		return HourBuckets[0]
	case hour >= 12 && hour < 17:
		return HourBuckets[1]
	case hour >= 17 && hour < 20:
		return HourBuckets[2]
	case hour >= 20 && hour < 24:
		return HourBuckets[3]
	default:
		return HourBuckets[4]
	}
}
