package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// SimulateOptions holds flags for the simulate command.
type SimulateOptions struct {
	*RootOptions
	Patch string
}

// NewSimulateCommand creates the simulate command.
func NewSimulateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SimulateOptions{RootOptions: rootOpts}

	kinds := make([]string, len(engine.Kinds))
	for i, k := range engine.Kinds {
		kinds[i] = string(k)
	}

	cmd := &cobra.Command{
		Use:   "simulate <kind> <train-id>",
		Short: "Run a what-if scenario",
		Long: fmt.Sprintf(`Apply a what-if scenario to one train and show the re-ranked fleet
and its impact. The fleet itself is not changed.

Kinds: %s

Examples:
  induction simulate fc_cancelled KM-001
  induction simulate standby_activation KM-002 --format json
  induction simulate custom KM-003 --patch '{"job_cards":{"open":1,"closed":14,"critical":0}}'`,
			strings.Join(kinds, ", ")),
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSimulate(opts, args[0], args[1], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Patch, "patch", "", "JSON overrides for the custom kind")

	return cmd
}

func runSimulate(opts *SimulateOptions, kind, trainID string, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	var patch fleet.TrainPatch
	if opts.Patch != "" {
		dec := json.NewDecoder(bytes.NewReader([]byte(opts.Patch)))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&patch); err != nil {
			return s.fail(ExitCommandError, string(engine.ErrCodeInvalidPatch), "invalid --patch JSON", err)
		}
	}

	sim := &engine.Simulator{Today: snap.ReferenceDate, Logger: s.logger}

	sc, err := sim.Simulate(snap.Trains, kind, trainID, patch)
	if err != nil {
		var ee *engine.Error
		if errors.As(err, &ee) {
			return s.fail(ExitCommandError, string(ee.Code), ee.Message, err)
		}
		return s.fail(ExitFailure, "E_SIMULATION", "simulation failed", err)
	}

	if s.out.IsJSON() {
		return s.out.Success(sc)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n%s\n\n", sc.Name, sc.Description)
	if !sc.Applied {
		fmt.Fprintf(out, "No change: %s is not eligible for this scenario.\n", sc.TrainID)
		return nil
	}

	fmt.Fprintf(out, "Eligible trains change: %+d\n", sc.Impact.EligibleTrainsChange)
	fmt.Fprintf(out, "Service capacity impact: %.1f%%\n", sc.Impact.ServiceCapacityImpactPercent)
	fmt.Fprintf(out, "Affected trains: %d\n\n", sc.Impact.AffectedTrainsCount)

	w := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "RANK\tTRAIN\tSTATUS\tSCORE\tELIGIBLE")
	for _, t := range sc.Ranked() {
		a := engine.Assess(t)
		marker := ""
		if t.ID == sc.TrainID {
			marker = " *"
		}
		fmt.Fprintf(w, "%d\t%s%s\t%s\t%.1f\t%s\n", t.Rank(), t.ID, marker, t.Status, a.Score, yesNo(a.Eligible))
	}
	return w.Flush()
}
