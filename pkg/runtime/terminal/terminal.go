package terminal

import (
	"context"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/commands"
	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/export"
)

// CLI represents the command-line interface
type CLI struct {
	logger   zerolog.Logger
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Output io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	cli := &CLI{
		logger:   zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger(),
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	ctx := cli.logger.WithContext(context.Background())
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "txnatlas",
		Short: "Approval rate diagnostics tool",
	}

	cmd.AddCommand(commands.NewGenerateCmd())
	cmd.AddCommand(commands.NewPipelineCmd())
	cmd.AddCommand(commands.NewAnalyzeCmd(cli.reporter))
	cmd.AddCommand(commands.NewCohortsCmd(cli.reporter))
	cmd.AddCommand(commands.NewReportCmd(cli.reporter))
	cmd.AddCommand(commands.NewRunAllCmd(cli.reporter))

	return cmd
}
