package insight

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"text/template"

	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

// Insight text is rendered through templates with deterministic number
// formatting, so reruns over the same data produce identical artifacts.

const titleTemplateText = `{{.Severity}}: {{.SegmentType}} {{.SegmentKey}} approval rate {{.Direction}} {{absPP .RateChange}}pp`

const descriptionTemplateText = `Approval rate for {{.SegmentType}} {{.SegmentKey}} moved {{pct .BaselineRate}} → {{pct .CurrentRate}} ({{pp .RateChange}}) between weeks 1-3 and weeks 4-6, affecting {{count .AffectedTransactions}} transactions. Estimated monthly revenue impact: {{money .ImpactUSD}}. Statistical significance: p={{printf "%.4f" .PValue}}{{if .ZScoreValid}}, z={{printf "%.2f" .ZScore}}{{end}}.{{if .Reasons}} Dominant decline reasons: {{join .Reasons ", "}}.{{end}}`

var templateFuncs = template.FuncMap{
	"pct":   formatPct,
	"pp":    formatPP,
	"absPP": formatAbsPP,
	"money": formatMoney,
	"count": formatCount,
	"join":  strings.Join,
}

var (
	titleTemplate       = template.Must(template.New("title").Funcs(templateFuncs).Parse(titleTemplateText))
	descriptionTemplate = template.Must(template.New("description").Funcs(templateFuncs).Parse(descriptionTemplateText))
)

type templateData struct {
	Severity             domain.Severity
	SegmentType          string
	SegmentKey           string
	Direction            string
	BaselineRate         float64
	CurrentRate          float64
	RateChange           float64
	AffectedTransactions int64
	ImpactUSD            float64
	PValue               float64
	ZScore               float64
	ZScoreValid          bool
	Reasons              []string
}

func newTemplateData(rec domain.AnomalyRecord, severity domain.Severity) templateData {
	direction := "up"
	if rec.RateChange < 0 {
		direction = "down"
	}
	return templateData{
		Severity:             severity,
		SegmentType:          rec.SegmentType,
		SegmentKey:           rec.SegmentKey,
		Direction:            direction,
		BaselineRate:         rec.BaselineRate,
		CurrentRate:          rec.CurrentRate,
		RateChange:           rec.RateChange,
		AffectedTransactions: rec.AffectedTransactions,
		ImpactUSD:            rec.EstimatedRevenueImpactUSD,
		PValue:               rec.PValue,
		ZScore:               rec.ZScore,
		ZScoreValid:          rec.ZScoreValid,
		Reasons:              rec.DominantDeclineReasons,
	}
}

func renderTitle(data templateData) (string, error) {
	var b strings.Builder
	if err := titleTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render insight title: %w", err)
	}
	return b.String(), nil
}

func renderDescription(data templateData) (string, error) {
	var b strings.Builder
	if err := descriptionTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("render insight description: %w", err)
	}
	return b.String(), nil
}

func formatPct(rate float64) string {
	return fmt.Sprintf("%.0f%%", rate*100)
}

func formatPP(change float64) string {
	return fmt.Sprintf("%+.0fpp", change*100)
}

func formatAbsPP(change float64) string {
	return fmt.Sprintf("%.0f", math.Abs(change)*100)
}

func formatMoney(usd float64) string {
	return "$" + groupDigits(fmt.Sprintf("%.0f", usd))
}

func formatCount(n int64) string {
	return groupDigits(strconv.FormatInt(n, 10))
}

func groupDigits(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	var b strings.Builder
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(s[i])
	}
	if neg {
		return "-" + b.String()
	}
	return b.String()
}
