package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/txn-atlas/pkg/services/config"
	"github.com/de-tools/txn-atlas/pkg/services/segment"
)

type AnalyzeCmd struct {
	flags      stageFlags
	demo       bool
	minSupport int64
	top        int
	reporter   *export.Reporter
}

func NewAnalyzeCmd(reporter *export.Reporter) *cobra.Command {
	ac := &AnalyzeCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Compare baseline and current halves, flag anomalies, and rank insights",
		RunE:  ac.run,
	}

	ac.flags.register(cmd)
	cmd.Flags().BoolVar(&ac.demo, "demo", false, "Analyze the built-in demo segment table instead of stored stats")
	cmd.Flags().Int64Var(&ac.minSupport, "min-support", 0, "Minimum current-period transactions for anomaly eligibility (0 uses the configured value)")
	cmd.Flags().IntVar(&ac.top, "top", 0, "Number of insights to rank, 3-5 (0 uses the configured value)")

	return cmd
}

func (ac *AnalyzeCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	env, err := ac.flags.setup(ctx, func(engine *config.Engine) {
		if ac.minSupport > 0 {
			engine.Analysis.MinSupport = ac.minSupport
		}
		if ac.top > 0 {
			engine.Analysis.TopInsights = ac.top
		}
	})
	if err != nil {
		return err
	}
	defer env.Close()

	source := segment.NewStoreSource(env.segments)
	if ac.demo {
		source = segment.NewDemoSource()
	}

	result, err := env.runner.Analyze(ctx, source)
	if err != nil {
		return err
	}

	insights := make([]api.Insight, 0, len(result.Insights))
	for _, i := range result.Insights {
		insights = append(insights, adapters.MapInsightDomainToApi(i))
	}
	return ac.reporter.HandleAnalysis(adapters.MapSummaryDomainToApi(result.Summary), insights)
}
