package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/models/api"
	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/txn-atlas/pkg/services/config"
)

type RunAllCmd struct {
	flags    stageFlags
	seed     int64
	reporter *export.Reporter
}

func NewRunAllCmd(reporter *export.Reporter) *cobra.Command {
	rc := &RunAllCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "run-all",
		Short: "Run generate, pipeline, analyze, and cohorts in order",
		RunE:  rc.run,
	}

	rc.flags.register(cmd)
	cmd.Flags().Int64Var(&rc.seed, "seed", 0, "Seed for the synthetic data stream (0 uses the configured seed)")

	return cmd
}

func (rc *RunAllCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	env, err := rc.flags.setup(ctx, func(engine *config.Engine) {
		if cmd.Flags().Changed("seed") {
			engine.Generator.Seed = rc.seed
		}
	})
	if err != nil {
		return err
	}
	defer env.Close()

	result, err := env.runner.RunAll(ctx)
	if err != nil {
		return err
	}

	insights := make([]api.Insight, 0, len(result.Insights))
	for _, i := range result.Insights {
		insights = append(insights, adapters.MapInsightDomainToApi(i))
	}
	return rc.reporter.HandleAnalysis(adapters.MapSummaryDomainToApi(result.Summary), insights)
}
