package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/fleet"
)

// FleetOptions holds flags for the fleet command.
type FleetOptions struct {
	*RootOptions
	Search string
	Bay    string
	Status string
}

// TrainRow is one line of the fleet listing.
type TrainRow struct {
	ID           string       `json:"id"`
	Status       fleet.Status `json:"status"`
	Bay          string       `json:"bay"`
	Score        float64      `json:"score"`
	Eligible     bool         `json:"eligible"`
	Rank         int          `json:"rank,omitempty"`
	Confidence   float64      `json:"confidence"`
	Certificates string       `json:"certificates"`
	JobCards     string       `json:"job_cards"`
}

// NewFleetCommand creates the fleet command.
func NewFleetCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FleetOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fleet",
		Short: "List trains with their induction scores",
		Long: `List the trains of the fleet with score, eligibility and
certificate health.

Examples:
  induction fleet
  induction fleet --bay B --status "Revenue Service"
  induction fleet --fixture ./fleet.yaml --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFleet(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Search, "search", "", "filter by train ID substring")
	cmd.Flags().StringVar(&opts.Bay, "bay", "", "filter by bay prefix")
	cmd.Flags().StringVar(&opts.Status, "status", "", "filter by status")

	return cmd
}

func runFleet(opts *FleetOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	filter := fleet.Filter{Search: opts.Search, Bay: opts.Bay}
	if opts.Status != "" {
		status, err := fleet.ParseStatus(opts.Status)
		if err != nil {
			return s.fail(ExitCommandError, "E_INVALID_FLAG", "invalid --status", err)
		}
		filter.Status = status
	}

	trains := filter.Apply(snap.Trains)
	rows := make([]TrainRow, len(trains))
	for i, t := range trains {
		rows[i] = trainRow(t)
	}

	if s.out.IsJSON() {
		return s.out.Success(rows)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 3, ' ', 0)
	fmt.Fprintln(w, "TRAIN\tSTATUS\tBAY\tSCORE\tELIGIBLE\tCERTIFICATES\tJOB CARDS")
	for _, r := range rows {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.1f\t%s\t%s\t%s\n",
			r.ID, r.Status, r.Bay, r.Score, yesNo(r.Eligible), r.Certificates, r.JobCards)
	}
	if err := w.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "\n%d of %d trains (reference date %s)\n", len(rows), len(snap.Trains), snap.ReferenceDate)
	return nil
}

func trainRow(t fleet.Train) TrainRow {
	a := engine.Assess(t)
	return TrainRow{
		ID:           t.ID,
		Status:       t.Status,
		Bay:          t.Bay,
		Score:        a.Score,
		Eligible:     a.Eligible,
		Rank:         t.Rank(),
		Confidence:   t.Confidence,
		Certificates: certificateSummary(t.Fitness),
		JobCards:     fmt.Sprintf("%d open, %d critical", t.JobCards.Open, t.JobCards.Critical),
	}
}

// certificateSummary renders the worst certificate health with the
// certificates at that level, e.g. "critical (rolling,signal)".
func certificateSummary(f fleet.Fitness) string {
	worst, names := fleet.HealthGood, ""
	for _, c := range f.Each() {
		h := fleet.CertificateHealth(c.Certificate)
		switch {
		case healthRank(h) > healthRank(worst):
			worst, names = h, c.Name
		case h == worst && h != fleet.HealthGood:
			names += "," + c.Name
		}
	}
	if names == "" {
		return worst
	}
	return fmt.Sprintf("%s (%s)", worst, names)
}

func healthRank(h string) int {
	switch h {
	case fleet.HealthCritical:
		return 2
	case fleet.HealthWarning:
		return 1
	}
	return 0
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
