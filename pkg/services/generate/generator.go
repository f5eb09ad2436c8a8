package generate

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

const (
	defaultTransactions = 8000
	recurringShare      = 0.15
)

// Config controls the synthetic transaction source. The same seed always
// yields the same table, transaction ids included.
type Config struct {
	Seed         int64
	Transactions int
	StartDate    time.Time
}

type Generator struct {
	cfg Config
	rng *rand.Rand

	countries      []string
	countryWeights []float64
	brands         []string
	brandWeights   []float64
	cardTypes      []string
	cardWeights    []float64
}

func NewGenerator(cfg Config) *Generator {
	if cfg.Transactions <= 0 {
		cfg.Transactions = defaultTransactions
	}
	if cfg.StartDate.IsZero() {
		// Monday of week 1.
		cfg.StartDate = time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	}

	g := &Generator{
		cfg: cfg,
		rng: rand.New(rand.NewSource(cfg.Seed)),
	}
	g.countries = maps.Keys(domain.Countries)
	sort.Strings(g.countries)
	for _, name := range g.countries {
		g.countryWeights = append(g.countryWeights, domain.Countries[name].Weight)
	}
	g.brands, g.brandWeights = orderedWeights(domain.CardBrands)
	g.cardTypes, g.cardWeights = orderedWeights(domain.CardTypes)
	return g
}

// Generate builds the full synthetic table, spread evenly across the six
// weeks with any remainder landing in the last week.
func (g *Generator) Generate(ctx context.Context) ([]domain.Transaction, error) {
	logger := zerolog.Ctx(ctx)

	perWeek := g.cfg.Transactions / domain.LastWeek
	remainder := g.cfg.Transactions % domain.LastWeek

	txns := make([]domain.Transaction, 0, g.cfg.Transactions)
	for week := domain.FirstWeek; week <= domain.LastWeek; week++ {
		count := perWeek
		if week == domain.LastWeek {
			count += remainder
		}
		for i := 0; i < count; i++ {
			txn, err := g.transaction(week)
			if err != nil {
				return nil, err
			}
			txns = append(txns, txn)
		}
	}

	logger.Info().
		Int("transactions", len(txns)).
		Int64("seed", g.cfg.Seed).
		Time("start_date", g.cfg.StartDate).
		Msg("generated synthetic transaction table")
	return txns, nil
}

func (g *Generator) transaction(week int) (domain.Transaction, error) {
	country := g.pickWeighted(g.countries, g.countryWeights)
	info := domain.Countries[country]
	brand := g.pickWeighted(g.brands, g.brandWeights)
	cardType := g.pickWeighted(g.cardTypes, g.cardWeights)
	banks := domain.IssuerBanks[country]
	issuer := banks[g.rng.Intn(len(banks))]

	ts := g.timestamp(week)

	amountUSD := decimal.NewFromFloat(10 + g.rng.Float64()*490).Round(2)
	amountLocal := amountUSD.Div(decimal.NewFromFloat(info.FXRate)).Round(2)

	status := domain.StatusApproved
	reason := ""
	rate := approvalRate(week, country, issuer, amountUSD.InexactFloat64(), ts.Hour())
	if g.rng.Float64() >= rate {
		status = domain.StatusDeclined
		reason = g.declineReason(week, country, issuer, amountUSD.InexactFloat64(), ts.Hour())
	}

	id, err := uuid.NewRandomFromReader(g.rng)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("failed to generate transaction id: %w", err)
	}

	return domain.Transaction{
		ID:            id.String(),
		Timestamp:     ts,
		WeekNumber:    week,
		Country:       country,
		Currency:      info.Currency,
		Amount:        amountLocal.InexactFloat64(),
		AmountUSD:     amountUSD.InexactFloat64(),
		CardBrand:     brand,
		CardType:      cardType,
		IssuerBank:    issuer,
		Status:        status,
		DeclineReason: reason,
		MerchantID:    fmt.Sprintf("MERCH_%04d", 1+g.rng.Intn(200)),
		CustomerID:    fmt.Sprintf("CUST_%06d", 1+g.rng.Intn(2000)),
		IsRecurring:   g.rng.Float64() < recurringShare,
		HourOfDay:     ts.Hour(),
	}, nil
}

// timestamp spreads transactions over the week with a daytime-heavy hour
// mix: 10% late night, 10% early morning, 80% business hours and evening.
func (g *Generator) timestamp(week int) time.Time {
	day := g.rng.Intn(7)

	var hour int
	switch r := g.rng.Float64(); {
	case r < 0.10:
		hour = g.rng.Intn(6)
	case r < 0.20:
		hour = 6 + g.rng.Intn(4)
	default:
		hour = 10 + g.rng.Intn(14)
	}

	base := g.cfg.StartDate.AddDate(0, 0, (week-domain.FirstWeek)*7+day)
	return time.Date(base.Year(), base.Month(), base.Day(), hour, g.rng.Intn(60), g.rng.Intn(60), 0, time.UTC)
}

func (g *Generator) declineReason(week int, country, issuer string, amountUSD float64, hour int) string {
	table := declineWeightsFor(week, country, issuer, amountUSD, hour)

	r := g.rng.Float64()
	acc := 0.0
	for _, wr := range table {
		acc += wr.Weight
		if r < acc {
			return wr.Reason
		}
	}
	return table[len(table)-1].Reason
}

func (g *Generator) pickWeighted(options []string, weights []float64) string {
	total := 0.0
	for _, w := range weights {
		total += w
	}

	r := g.rng.Float64() * total
	acc := 0.0
	for i, w := range weights {
		acc += w
		if r < acc {
			return options[i]
		}
	}
	return options[len(options)-1]
}

func orderedWeights(m map[string]float64) ([]string, []float64) {
	names := maps.Keys(m)
	sort.Strings(names)

	weights := make([]float64, len(names))
	for i, name := range names {
		weights[i] = m[name]
	}
	return names, weights
}
