package export

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/template"

	"github.com/de-tools/txn-atlas/pkg/models/api"
)

type TableConfig struct {
	RankWidth     int
	SeverityWidth int
	SegmentWidth  int
	ChangeWidth   int
	ImpactWidth   int
}

func DefaultTableConfig() TableConfig {
	return TableConfig{
		RankWidth:     4,
		SeverityWidth: 8,
		SegmentWidth:  38,
		ChangeWidth:   8,
		ImpactWidth:   19,
	}
}

// Reporter renders analysis results as formatted text tables.
type Reporter struct {
	writer io.Writer
	config TableConfig
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{
		writer: writer,
		config: DefaultTableConfig(),
	}
}

const analysisTemplate = `
Approval Rate Analysis
Generated: {{.Summary.GeneratedAt.Format "2006-01-02 15:04 UTC"}}

Overall approval rate: {{pct .Summary.BaselineRate}} -> {{pct .Summary.CurrentRate}} ({{pp .Summary.RateChange}})
Estimated monthly impact: {{money .Summary.TotalMonthlyImpactUSD}}
Segments compared: {{.Summary.SegmentsCompared}} (excluded {{.Summary.ExcludedSegments}}, ineligible {{.Summary.IneligibleSegments}}, malformed keys {{.Summary.MalformedKeys}})
Anomalies flagged: {{.Summary.AnomaliesFlagged}}
Insight severity: {{.Summary.CriticalInsights}} critical, {{.Summary.HighInsights}} high, {{.Summary.MediumInsights}} medium, {{.Summary.LowInsights}} low
{{if .Insights}}
{{separator}}
{{formatRow "Rank" "Sev" "Segment" "Change" "Est. Monthly Impact"}}
{{separator}}
{{range .Insights}}{{formatRow .Rank .Severity (printf "%s %s" .SegmentType .SegmentKey) (pp .RateChange) (money .EstimatedRevenueImpactUSD)}}
{{end}}{{separator}}

{{range .Insights}}{{.Rank}}. {{.Title}}
   {{.Description}}

{{end}}{{else}}
No insights above the reporting thresholds.
{{end}}`

// HandleAnalysis renders the run summary plus the ranked insight table.
func (c *Reporter) HandleAnalysis(summary api.Summary, insights []api.Insight) error {
	t, err := template.New("analysis").Funcs(c.funcMap()).Parse(analysisTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse analysis template: %w", err)
	}

	return t.Execute(c.writer, struct {
		Summary  api.Summary
		Insights []api.Insight
	}{Summary: summary, Insights: insights})
}

const cohortsTemplate = `
Cohort Analysis

First-time vs Returning (approval rates by week):
  Week   First-time        N    Returning        N
{{range .FirstTimeVsReturning}}{{printf "  %-6d %10s %8d   %10s %8d" .Week (pct .FirstTimeRate) .FirstTimeCount (pct .ReturningRate) .ReturningCount}}
{{end}}
Recurring vs One-time (approval rates by week):
  Week   Recurring         N    One-time         N
{{range .RecurringVsOneTime}}{{printf "  %-6d %10s %8d   %10s %8d" .Week (pct .RecurringRate) .RecurringCount (pct .OneTimeRate) .OneTimeCount}}
{{end}}
Acquisition cohorts (cohort week -> approval rate per transaction week):
  Cohort   Week      Rate   Customers   Transactions
{{range .AcquisitionCohorts}}{{printf "  W%-7d W%-5d %8s %11d %14d" .CohortWeek .TransactionWeek (pct .ApprovalRate) .Customers .Transactions}}
{{end}}`

// HandleCohorts renders the three cohort views.
func (c *Reporter) HandleCohorts(report api.CohortReport) error {
	t, err := template.New("cohorts").Funcs(c.funcMap()).Parse(cohortsTemplate)
	if err != nil {
		return fmt.Errorf("failed to parse cohorts template: %w", err)
	}
	return t.Execute(c.writer, report)
}

func (c *Reporter) funcMap() template.FuncMap {
	return template.FuncMap{
		"formatRow": func(rank interface{}, severity, segment, change, impact interface{}) string {
			return fmt.Sprintf("| %-*v | %-*v | %-*v | %*v | %*v |",
				c.config.RankWidth, rank,
				c.config.SeverityWidth, severity,
				c.config.SegmentWidth, segment,
				c.config.ChangeWidth, change,
				c.config.ImpactWidth, impact)
		},
		"separator": func() string {
			return fmt.Sprintf("+%s+%s+%s+%s+%s+",
				strings.Repeat("-", c.config.RankWidth+2),
				strings.Repeat("-", c.config.SeverityWidth+2),
				strings.Repeat("-", c.config.SegmentWidth+2),
				strings.Repeat("-", c.config.ChangeWidth+2),
				strings.Repeat("-", c.config.ImpactWidth+2))
		},
		"pct": func(rate float64) string {
			return fmt.Sprintf("%.1f%%", rate*100)
		},
		"pp": func(change float64) string {
			return fmt.Sprintf("%+.1fpp", change*100)
		},
		"money": formatMoney,
	}
}

func formatMoney(usd float64) string {
	s := fmt.Sprintf("%.2f", usd)
	whole, cents, _ := strings.Cut(s, ".")

	neg := strings.HasPrefix(whole, "-")
	if neg {
		whole = whole[1:]
	}

	var b strings.Builder
	for i := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteByte(whole[i])
	}

	out := "$" + b.String() + "." + cents
	if neg {
		out = "-" + out
	}
	return out
}
