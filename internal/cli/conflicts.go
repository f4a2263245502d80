package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// ConflictsOptions holds flags for the conflicts command.
type ConflictsOptions struct {
	*RootOptions
	Recorded bool
}

// NewConflictsCommand creates the conflicts command.
func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConflictsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "List fitness and maintenance conflicts",
		Long: `Detect conflicts in the fleet: invalid fitness certificates and
open critical job cards.

With --recorded, show the conflicts stored in the fixture instead.

Examples:
  induction conflicts
  induction conflicts --recorded --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConflicts(opts, cmd)
		},
	}

	cmd.Flags().BoolVar(&opts.Recorded, "recorded", false, "show conflicts recorded in the fixture")

	return cmd
}

func runConflicts(opts *ConflictsOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	conflicts := snap.Conflicts
	if !opts.Recorded {
		conflicts = engine.DetectConflicts(snap.Trains)
	}
	if conflicts == nil {
		conflicts = []fleet.Conflict{}
	}

	if s.out.IsJSON() {
		return s.out.Success(conflicts)
	}

	if len(conflicts) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No conflicts.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "ID\tTRAIN\tTYPE\tSEVERITY\tDESCRIPTION\tSUGGESTION")
	for _, c := range conflicts {
		desc := c.Description
		if c.Handled {
			desc += " [handled]"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", c.ID, c.TrainID, c.Type, c.Severity, desc, c.Suggestion)
	}
	return w.Flush()
}
