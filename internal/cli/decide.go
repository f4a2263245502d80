package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/store"
)

// DecideOptions holds flags for the decide command.
type DecideOptions struct {
	*RootOptions
	Database string
	By       string
	Notes    string
}

// NewDecideCommand creates the decide command.
func NewDecideCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DecideOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "decide approve|reject",
		Short: "Approve or reject the current plan",
		Long: `Rank the fleet and record the decision on the resulting plan in the
plan ledger. The ledger keeps the plan entries and the digests of the
fleet and plan they were derived from.

Examples:
  induction decide approve --db ./plans.db --by supervisor
  induction decide reject --db ./plans.db --by supervisor --notes "KM-004 held for inspection"`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDecide(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the plan ledger (default: db from config)")
	cmd.Flags().StringVar(&opts.By, "by", "", "who made the decision (required)")
	_ = cmd.MarkFlagRequired("by")
	cmd.Flags().StringVar(&opts.Notes, "notes", "", "free-form notes")

	return cmd
}

func parseDecisionArg(arg string) (store.Decision, error) {
	switch arg {
	case "approve":
		return store.DecisionApproved, nil
	case "reject":
		return store.DecisionRejected, nil
	}
	return store.ParseDecision(arg)
}

func runDecide(opts *DecideOptions, arg string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	decision, err := parseDecisionArg(arg)
	if err != nil {
		return s.fail(ExitCommandError, "E_INVALID_DECISION", "decision must be approve or reject", err)
	}

	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	ledger, err := s.openLedger(opts.Database)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := ledger.Close(); closeErr != nil {
			s.logger.Error("error closing database", "error", closeErr)
		}
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	rec, err := recordDecision(ctx, ledger, snap.Trains, decision, opts.By, opts.Notes, engine.UUIDv7Generator{}.Generate(), s.logger)
	if err != nil {
		return s.fail(ExitCommandError, "E_LEDGER", "failed to record plan", err)
	}

	if s.out.IsJSON() {
		return s.out.Success(rec)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Plan %s %s by %s\n", rec.ID, rec.Decision, rec.Actor)
	fmt.Fprintf(out, "Fleet digest: %s\n", rec.FleetDigest)
	fmt.Fprintf(out, "Plan digest:  %s\n\n", rec.PlanDigest)
	return writePlanTable(out, rec.Entries, false)
}

// recordDecision ranks trains and records the plan. The stored record is
// read back so digests and timestamps are the ledger's.
func recordDecision(ctx context.Context, ledger *store.Store, trains []fleet.Train, decision store.Decision, actor, notes, id string, logger *slog.Logger) (store.PlanRecord, error) {
	plan := engine.BuildPlan(trains)
	digest, err := fleet.Digest(trains)
	if err != nil {
		return store.PlanRecord{}, err
	}

	err = ledger.RecordPlan(ctx, store.PlanRecord{
		ID:          id,
		Decision:    decision,
		Actor:       actor,
		Notes:       notes,
		FleetDigest: digest,
		Entries:     plan.Entries,
	})
	if err != nil {
		return store.PlanRecord{}, err
	}
	logger.Info("plan recorded", "id", id, "decision", decision, "actor", actor)

	return ledger.GetPlan(ctx, id)
}
