package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/adapters"
	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/txn-atlas/pkg/services/generate"
	"github.com/de-tools/txn-atlas/pkg/services/ingest"
)

type CohortsCmd struct {
	flags     stageFlags
	synthetic bool
	reporter  *export.Reporter
}

func NewCohortsCmd(reporter *export.Reporter) *cobra.Command {
	cc := &CohortsCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "cohorts",
		Short: "Compute customer cohort views over the transaction table",
		RunE:  cc.run,
	}

	cc.flags.register(cmd)
	cmd.Flags().BoolVar(&cc.synthetic, "synthetic", false, "Feed the stage from the seeded generator instead of the stored table")

	return cmd
}

func (cc *CohortsCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	env, err := cc.flags.setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	source := ingest.NewStoreSource(env.transactions)
	if cc.synthetic {
		source = ingest.NewSyntheticSource(generate.NewGenerator(generate.Config{
			Seed:         env.engine.Generator.Seed,
			Transactions: env.engine.Generator.Transactions,
		}))
	}

	report, err := env.runner.Cohorts(ctx, source)
	if err != nil {
		return err
	}

	return cc.reporter.HandleCohorts(adapters.MapCohortReportDomainToApi(report))
}
