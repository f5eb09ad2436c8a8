package pipeline

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/domain"
	"github.com/de-tools/txn-atlas/pkg/models/store"
	"github.com/de-tools/txn-atlas/pkg/services/anomaly"
	"github.com/de-tools/txn-atlas/pkg/services/cohort"
	"github.com/de-tools/txn-atlas/pkg/services/compare"
	"github.com/de-tools/txn-atlas/pkg/services/config"
	"github.com/de-tools/txn-atlas/pkg/services/generate"
	"github.com/de-tools/txn-atlas/pkg/services/ingest"
	"github.com/de-tools/txn-atlas/pkg/services/insight"
	"github.com/de-tools/txn-atlas/pkg/services/segment"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/analytics"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/segments"
	"github.com/de-tools/txn-atlas/pkg/store/duckdb/transactions"
)

// Deps wires the runner to its stores. Every field is required.
type Deps struct {
	DB           *sql.DB
	Transactions transactions.Store
	Segments     segments.Store
	Analytics    analytics.Store
	Artifacts    artifacts.Store
	Config       config.Engine
}

// Runner drives the four stages in order: generate, pipeline, analyze,
// cohorts. Each stage fully materializes its output before the next one
// starts; table writes happen inside a single transaction per stage so a
// failed rerun never leaves a half-replaced table behind.
type Runner struct {
	deps Deps
	now  func() time.Time
}

func NewRunner(deps Deps) (*Runner, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database connection is nil")
	}
	if deps.Transactions == nil || deps.Segments == nil || deps.Analytics == nil || deps.Artifacts == nil {
		return nil, fmt.Errorf("all stores are required")
	}
	return &Runner{deps: deps, now: time.Now}, nil
}

// Generate builds the synthetic transaction table, replaces the stored
// one, and drops a CSV sample next to the JSON artifacts.
func (r *Runner) Generate(ctx context.Context) (int, error) {
	gen := generate.NewGenerator(generate.Config{
		Seed:         r.deps.Config.Generator.Seed,
		Transactions: r.deps.Config.Generator.Transactions,
	})
	txns, err := gen.Generate(ctx)
	if err != nil {
		return 0, fmt.Errorf("generate stage: %w", err)
	}

	rows := make([]store.TransactionRow, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, adapters.MapTransactionDomainToStore(t))
	}

	err = r.inTransaction(ctx, func(ctx context.Context) error {
		return r.deps.Transactions.Replace(ctx, rows)
	})
	if err != nil {
		return 0, fmt.Errorf("store transactions: %w", err)
	}

	if err := r.deps.Artifacts.WriteTransactionSample(ctx, txns); err != nil {
		return 0, fmt.Errorf("write transaction sample: %w", err)
	}

	zerolog.Ctx(ctx).Info().Int("transactions", len(rows)).Msg("generate stage complete")
	return len(rows), nil
}

// PipelineResult reports what the segmentation stage materialized.
type PipelineResult struct {
	Transactions int
	SegmentStats int
	WeeklyTrends int
}

// Pipeline loads raw transactions, aggregates them across the segment
// catalog, and replaces the segment_stats and weekly_trends tables.
func (r *Runner) Pipeline(ctx context.Context, source ingest.TransactionSource) (PipelineResult, error) {
	txns, err := source.Load(ctx)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline stage: load from %s: %w", source.Name(), err)
	}

	aggregator := segment.NewAggregator()
	stats, err := aggregator.BuildSegments(ctx, ingest.Enrich(txns))
	if err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline stage: %w", err)
	}
	trends, err := aggregator.BuildWeeklyTrends(stats)
	if err != nil {
		return PipelineResult{}, fmt.Errorf("pipeline stage: %w", err)
	}

	statRows := make([]store.SegmentStatRow, 0, len(stats))
	for _, s := range stats {
		statRows = append(statRows, adapters.MapSegmentStatDomainToStore(s))
	}
	trendRows := make([]store.WeeklyTrendRow, 0, len(trends))
	for _, t := range trends {
		trendRows = append(trendRows, adapters.MapWeeklyTrendDomainToStore(t))
	}

	err = r.inTransaction(ctx, func(ctx context.Context) error {
		if err := r.deps.Segments.ReplaceStats(ctx, statRows); err != nil {
			return fmt.Errorf("store segment stats: %w", err)
		}
		if err := r.deps.Segments.ReplaceTrends(ctx, trendRows); err != nil {
			return fmt.Errorf("store weekly trends: %w", err)
		}
		return nil
	})
	if err != nil {
		return PipelineResult{}, err
	}

	result := PipelineResult{
		Transactions: len(txns),
		SegmentStats: len(stats),
		WeeklyTrends: len(trends),
	}
	zerolog.Ctx(ctx).Info().
		Int("transactions", result.Transactions).
		Int("segment_stats", result.SegmentStats).
		Int("weekly_trends", result.WeeklyTrends).
		Msg("pipeline stage complete")
	return result, nil
}

// AnalyzeResult carries what the analyze stage produced, for reporting.
type AnalyzeResult struct {
	Summary  domain.AnalysisSummary
	Insights []domain.Insight
}

// Analyze compares baseline and current halves, scores anomalies, ranks
// insights, and persists the results to both the tables and the JSON
// artifacts.
func (r *Runner) Analyze(ctx context.Context, source segment.Source) (AnalyzeResult, error) {
	stats, err := source.Segments(ctx)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("analyze stage: load from %s: %w", source.Name(), err)
	}

	comparison := compare.Periods(ctx, stats)

	scorer := anomaly.NewScorer(anomaly.Config{
		MinSupport: r.deps.Config.Analysis.MinSupport,
		ZThreshold: r.deps.Config.Analysis.ZThreshold,
		PThreshold: r.deps.Config.Analysis.PThreshold,
	})
	scored := scorer.Score(ctx, comparison.Comparisons, r.reasonLookup(ctx))

	insights, err := insight.NewRanker(r.deps.Config.Analysis.TopInsights).Rank(ctx, scored.Anomalies)
	if err != nil {
		return AnalyzeResult{}, fmt.Errorf("rank insights: %w", err)
	}

	summary := insight.BuildSummary(insight.SummaryInput{
		Stats:       stats,
		Comparisons: comparison.Comparisons,
		Anomalies:   scored.Anomalies,
		Insights:    insights,
		Excluded:    comparison.Excluded,
		Ineligible:  scored.Ineligible,
		Malformed:   scored.Malformed,
		GeneratedAt: r.now().UTC(),
	})

	anomalyRows := make([]store.AnomalyRow, 0, len(scored.Anomalies))
	for _, a := range scored.Anomalies {
		anomalyRows = append(anomalyRows, adapters.MapAnomalyDomainToStore(a))
	}
	insightRows := make([]store.InsightRow, 0, len(insights))
	for _, i := range insights {
		insightRows = append(insightRows, adapters.MapInsightDomainToStore(i))
	}

	err = r.inTransaction(ctx, func(ctx context.Context) error {
		if err := r.deps.Analytics.ReplaceAnomalies(ctx, anomalyRows); err != nil {
			return fmt.Errorf("store anomalies: %w", err)
		}
		if err := r.deps.Analytics.ReplaceInsights(ctx, insightRows); err != nil {
			return fmt.Errorf("store insights: %w", err)
		}
		return nil
	})
	if err != nil {
		return AnalyzeResult{}, err
	}

	if err := r.deps.Artifacts.WriteInsights(ctx, insights); err != nil {
		return AnalyzeResult{}, fmt.Errorf("write insights artifact: %w", err)
	}
	if err := r.deps.Artifacts.WriteSummary(ctx, summary); err != nil {
		return AnalyzeResult{}, fmt.Errorf("write summary artifact: %w", err)
	}

	zerolog.Ctx(ctx).Info().
		Int("anomalies", len(anomalyRows)).
		Int("flagged", summary.AnomaliesFlagged).
		Int("insights", len(insights)).
		Float64("total_impact_usd", summary.TotalMonthlyImpactUSD).
		Msg("analyze stage complete")
	return AnalyzeResult{Summary: summary, Insights: insights}, nil
}

// Cohorts computes the customer cohort views and writes cohorts.json.
func (r *Runner) Cohorts(ctx context.Context, source ingest.TransactionSource) (domain.CohortReport, error) {
	txns, err := source.Load(ctx)
	if err != nil {
		return domain.CohortReport{}, fmt.Errorf("cohorts stage: load from %s: %w", source.Name(), err)
	}

	report, err := cohort.Analyze(ctx, txns)
	if err != nil {
		return domain.CohortReport{}, fmt.Errorf("cohorts stage: %w", err)
	}

	if err := r.deps.Artifacts.WriteCohorts(ctx, report); err != nil {
		return domain.CohortReport{}, fmt.Errorf("write cohorts artifact: %w", err)
	}
	return report, nil
}

// RunAll chains generate, pipeline, analyze, and cohorts against the
// stored tables.
func (r *Runner) RunAll(ctx context.Context) (AnalyzeResult, error) {
	if _, err := r.Generate(ctx); err != nil {
		return AnalyzeResult{}, err
	}
	if _, err := r.Pipeline(ctx, ingest.NewStoreSource(r.deps.Transactions)); err != nil {
		return AnalyzeResult{}, err
	}
	result, err := r.Analyze(ctx, segment.NewStoreSource(r.deps.Segments))
	if err != nil {
		return AnalyzeResult{}, err
	}
	if _, err := r.Cohorts(ctx, ingest.NewStoreSource(r.deps.Transactions)); err != nil {
		return AnalyzeResult{}, err
	}
	return result, nil
}

// reasonLookup loads the raw table to resolve dominant decline reasons.
// The analyze stage works without it, so failures only cost narrative
// detail.
func (r *Runner) reasonLookup(ctx context.Context) anomaly.ReasonLookup {
	rows, err := r.deps.Transactions.GetAll(ctx)
	if err != nil {
		zerolog.Ctx(ctx).Warn().Err(err).Msg("transactions unavailable, insights will omit decline reasons")
		return nil
	}
	if len(rows) == 0 {
		return nil
	}

	txns := make([]domain.Transaction, 0, len(rows))
	for _, row := range rows {
		txns = append(txns, adapters.MapTransactionStoreToDomain(row))
	}
	return anomaly.DeclineReasonLookup(ingest.Enrich(txns))
}

func (r *Runner) inTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := r.deps.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if err := fn(duckdb.WithTransaction(ctx, tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			zerolog.Ctx(ctx).Error().Err(rbErr).Msg("transaction rollback failed")
		}
		return err
	}
	return tx.Commit()
}
