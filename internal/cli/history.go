package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string
	Limit    int
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history [plan-id]",
		Short: "Show recorded plan decisions",
		Long: `List recorded plan decisions, newest first. With a plan ID, show
that plan with its entries.

Examples:
  induction history --db ./plans.db
  induction history --db ./plans.db --limit 5 --format json
  induction history --db ./plans.db 0192a7c4-...`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return runHistory(opts, id, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the plan ledger (default: db from config)")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "maximum number of plans to list")

	return cmd
}

func runHistory(opts *HistoryOptions, id string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	ledger, err := s.openLedger(opts.Database)
	if err != nil {
		return err
	}
	defer ledger.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if id != "" {
		rec, err := ledger.GetPlan(ctx, id)
		if errors.Is(err, store.ErrPlanNotFound) {
			return s.fail(ExitCommandError, "NOT_FOUND", fmt.Sprintf("plan %s not found", id), err)
		}
		if err != nil {
			return s.fail(ExitCommandError, "E_LEDGER", "failed to read plan", err)
		}
		if s.out.IsJSON() {
			return s.out.Success(rec)
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Plan %s %s by %s at %s\n", rec.ID, rec.Decision, rec.Actor, rec.DecidedAt.Format(time.RFC3339))
		if rec.Notes != "" {
			fmt.Fprintf(out, "Notes: %s\n", rec.Notes)
		}
		fmt.Fprintln(out)
		return writePlanTable(out, rec.Entries, false)
	}

	plans, err := ledger.ListPlans(ctx, opts.Limit)
	if err != nil {
		return s.fail(ExitCommandError, "E_LEDGER", "failed to list plans", err)
	}

	if s.out.IsJSON() {
		return s.out.Success(plans)
	}

	if len(plans) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No plans recorded.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "SEQ\tPLAN ID\tDECISION\tBY\tDECIDED AT\tNOTES")
	for _, p := range plans {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			p.Seq, p.ID, p.Decision, p.Actor, p.DecidedAt.Format(time.RFC3339), p.Notes)
	}
	return w.Flush()
}
