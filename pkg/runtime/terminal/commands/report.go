package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/de-tools/txn-atlas/pkg/runtime/terminal/export"
	"github.com/de-tools/txn-atlas/pkg/store/artifacts"
)

type ReportCmd struct {
	flags    stageFlags
	cohorts  bool
	reporter *export.Reporter
}

// NewReportCmd renders the last written artifacts without recomputing
// anything, so the report survives independently of the database.
func NewReportCmd(reporter *export.Reporter) *cobra.Command {
	rc := &ReportCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Render the last analysis artifacts to the terminal",
		RunE:  rc.run,
	}

	rc.flags.register(cmd)
	cmd.Flags().BoolVar(&rc.cohorts, "cohorts", false, "Also render the cohort views")

	return cmd
}

func (rc *ReportCmd) run(cmd *cobra.Command, _ []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), stageTimeout)
	defer cancel()

	_, outDir, err := rc.flags.resolvePaths(ctx)
	if err != nil {
		return err
	}

	store, err := artifacts.NewStore(outDir)
	if err != nil {
		return err
	}

	summary, err := store.ReadSummary(ctx)
	if err != nil {
		return fmt.Errorf("no analysis artifacts in %s, run `analyze` first: %w", outDir, err)
	}
	insights, err := store.ReadInsights(ctx)
	if err != nil {
		return fmt.Errorf("failed to read insights artifact: %w", err)
	}

	if err := rc.reporter.HandleAnalysis(summary, insights); err != nil {
		return err
	}

	if rc.cohorts {
		report, err := store.ReadCohorts(ctx)
		if err != nil {
			return fmt.Errorf("no cohort artifact in %s, run `cohorts` first: %w", outDir, err)
		}
		return rc.reporter.HandleCohorts(report)
	}
	return nil
}
