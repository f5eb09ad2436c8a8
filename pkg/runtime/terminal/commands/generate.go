package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/services/config"
)

type GenerateCmd struct {
	flags        stageFlags
	seed         int64
	transactions int
}

func NewGenerateCmd() *cobra.Command {
	gc := &GenerateCmd{}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the synthetic transaction table",
		RunE:  gc.run,
	}

	gc.flags.register(cmd)
	cmd.Flags().Int64Var(&gc.seed, "seed", 0, "Seed for the synthetic data stream (0 uses the configured seed)")
	cmd.Flags().IntVar(&gc.transactions, "transactions", 0, "Number of transactions to generate (0 uses the configured count)")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	env, err := gc.flags.setup(ctx, func(engine *config.Engine) {
		if cmd.Flags().Changed("seed") {
			engine.Generator.Seed = gc.seed
		}
		if gc.transactions > 0 {
			engine.Generator.Transactions = gc.transactions
		}
	})
	if err != nil {
		return err
	}
	defer env.Close()

	count, err := env.runner.Generate(ctx)
	if err != nil {
		return err
	}

	cmd.Printf("Generated %d transactions into %s (sample CSV in %s)\n", count, env.dbPath, env.outDir)
	return nil
}
