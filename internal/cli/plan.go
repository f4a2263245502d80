package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
)

// PlanOptions holds flags for the plan command.
type PlanOptions struct {
	*RootOptions
	Detail bool
}

// NewPlanCommand creates the plan command.
func NewPlanCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlanOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the ranked induction plan",
		Long: `Rank the fleet for induction and show the plan with its summary.

Eligible trains (all fitness certificates valid, no critical job cards)
come first. Within each tier trains keep the order of their previous rank.

Examples:
  induction plan
  induction plan --detail
  induction plan --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlan(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Detail, "detail", false, "show score breakdowns")

	return cmd
}

func runPlan(opts *PlanOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	plan := engine.BuildPlan(snap.Trains)
	if s.out.IsJSON() {
		return s.out.Success(plan)
	}

	if err := writePlanTable(cmd.OutOrStdout(), plan.Entries, opts.Detail); err != nil {
		return err
	}
	writeSummary(cmd.OutOrStdout(), plan.Summary)
	if n := len(plan.Conflicts); n > 0 {
		fmt.Fprintf(cmd.OutOrStdout(), "%d conflict(s) detected; run 'induction conflicts' for details\n", n)
	}
	return nil
}

func writePlanTable(out io.Writer, entries []engine.PlanEntry, detail bool) error {
	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	header := "RANK\tTRAIN\tSTATUS\tBAY\tSCORE\tELIGIBLE\tCONFIDENCE"
	if detail {
		header += "\tFITNESS\tJOB CARDS\tBRANDING\tMILEAGE\tCLEANING"
	}
	fmt.Fprintln(w, header)

	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%.1f\t%s\t%.2f",
			e.Rank, e.TrainID, e.Status, e.Bay, e.Score, yesNo(e.Eligible), e.Confidence)
		if detail {
			b := e.Breakdown
			fmt.Fprintf(w, "\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f", b.Fitness, b.JobCards, b.Branding, b.Mileage, b.Cleaning)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func writeSummary(w io.Writer, s engine.Summary) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Eligible: %d/%d (%.1f%%)\n", s.Eligible, s.Total, s.SuccessRatePercent)
	fmt.Fprintf(w, "Revenue service: %d  Standby: %d  Maintenance: %d\n", s.RevenueService, s.Standby, s.Maintenance)
	fmt.Fprintf(w, "Certificates expiring within %d days: %d\n", engine.ExpiryWarningDays, s.ExpiringCertificates)
}
