package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/services/generate"
	"github.com/de-tools/txn-atlas/pkg/services/ingest"
)

type PipelineCmd struct {
	flags     stageFlags
	synthetic bool
}

func NewPipelineCmd() *cobra.Command {
	pc := &PipelineCmd{}
	cmd := &cobra.Command{
		Use:   "pipeline",
		Short: "Aggregate transactions into segment statistics and weekly trends",
		RunE:  pc.run,
	}

	pc.flags.register(cmd)
	cmd.Flags().BoolVar(&pc.synthetic, "synthetic", false, "Feed the stage from the seeded generator instead of the stored table")

	return cmd
}

func (pc *PipelineCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	env, err := pc.flags.setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	source := ingest.NewStoreSource(env.transactions)
	if pc.synthetic {
		source = ingest.NewSyntheticSource(generate.NewGenerator(generate.Config{
			Seed:         env.engine.Generator.Seed,
			Transactions: env.engine.Generator.Transactions,
		}))
	}

	result, err := env.runner.Pipeline(ctx, source)
	if err != nil {
		return err
	}

	cmd.Printf("Aggregated %d transactions into %d segment stats and %d weekly trends\n",
		result.Transactions, result.SegmentStats, result.WeeklyTrends)
	return nil
}
