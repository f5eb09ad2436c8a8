package artifacts

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	json "github.com/goccy/go-json"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
)

const (
	insightsFile = "insights.json"
	summaryFile  = "summary.json"
	cohortsFile  = "cohorts.json"
	sampleFile   = "sample.csv"

	sampleRows = 100
)

// Store owns the file artifacts exchanged with the visualization
// collaborator. Writes are whole-file replacements, so artifact bytes are
// stable across reruns on identical input.
type Store interface {
	WriteInsights(ctx context.Context, insights []domain.Insight) error
	WriteSummary(ctx context.Context, summary domain.AnalysisSummary) error
	WriteCohorts(ctx context.Context, report domain.CohortReport) error
	WriteTransactionSample(ctx context.Context, txns []domain.Transaction) error

	ReadInsights(ctx context.Context) ([]api.Insight, error)
	ReadSummary(ctx context.Context) (api.Summary, error)
	ReadCohorts(ctx context.Context) (api.CohortReport, error)
}

type fileStore struct {
	dir string
}

func NewStore(dir string) (Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("artifacts directory is empty")
	}
	return &fileStore{dir: dir}, nil
}

func (s *fileStore) WriteInsights(_ context.Context, insights []domain.Insight) error {
	records := make([]api.Insight, 0, len(insights))
	for _, i := range insights {
		records = append(records, adapters.MapInsightDomainToApi(i))
	}
	return s.writeJSON(insightsFile, records)
}

func (s *fileStore) WriteSummary(_ context.Context, summary domain.AnalysisSummary) error {
	return s.writeJSON(summaryFile, adapters.MapSummaryDomainToApi(summary))
}

func (s *fileStore) WriteCohorts(_ context.Context, report domain.CohortReport) error {
	return s.writeJSON(cohortsFile, adapters.MapCohortReportDomainToApi(report))
}

// WriteTransactionSample writes the first rows of the generated table as a
// CSV for quick inspection without a database client.
func (s *fileStore) WriteTransactionSample(_ context.Context, txns []domain.Transaction) error {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifacts directory: %w", err)
	}

	f, err := os.Create(filepath.Join(s.dir, sampleFile))
	if err != nil {
		return fmt.Errorf("create transaction sample: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"transaction_id", "timestamp", "week_number", "country", "currency",
		"amount", "amount_usd", "card_brand", "card_type", "issuer_bank",
		"status", "decline_reason", "merchant_id", "customer_id",
		"is_recurring", "hour_of_day",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write sample header: %w", err)
	}

	n := min(len(txns), sampleRows)
	for _, t := range txns[:n] {
		record := []string{
			t.ID,
			t.Timestamp.UTC().Format(time.RFC3339),
			strconv.Itoa(t.WeekNumber),
			t.Country,
			t.Currency,
			strconv.FormatFloat(t.Amount, 'f', 2, 64),
			strconv.FormatFloat(t.AmountUSD, 'f', 2, 64),
			t.CardBrand,
			t.CardType,
			t.IssuerBank,
			t.Status,
			t.DeclineReason,
			t.MerchantID,
			t.CustomerID,
			strconv.FormatBool(t.IsRecurring),
			strconv.Itoa(t.HourOfDay),
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write sample row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush transaction sample: %w", err)
	}
	return nil
}

func (s *fileStore) ReadInsights(_ context.Context) ([]api.Insight, error) {
	var insights []api.Insight
	if err := s.readJSON(insightsFile, &insights); err != nil {
		return nil, err
	}
	return insights, nil
}

func (s *fileStore) ReadSummary(_ context.Context) (api.Summary, error) {
	var summary api.Summary
	if err := s.readJSON(summaryFile, &summary); err != nil {
		return api.Summary{}, err
	}
	return summary, nil
}

func (s *fileStore) ReadCohorts(_ context.Context) (api.CohortReport, error) {
	var report api.CohortReport
	if err := s.readJSON(cohortsFile, &report); err != nil {
		return api.CohortReport{}, err
	}
	return report, nil
}

func (s *fileStore) writeJSON(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifacts directory: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (s *fileStore) readJSON(name string, v any) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("unmarshal %s: %w", name, err)
	}
	return nil
}
