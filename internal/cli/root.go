package cli

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/config"
	"github.com/roach88/induction/internal/fleet"
	"github.com/roach88/induction/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"

	// Config is an optional YAML config file.
	Config string

	// Fixture overrides the configured fleet fixture.
	Fixture string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the induction CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "induction",
		Short: "Metro train induction planner",
		Long: `Rank trains for the nightly induction into revenue service and
explore what-if scenarios before confirming a plan.`,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Config, "config", "", "path to config file")
	cmd.PersistentFlags().StringVar(&opts.Fixture, "fixture", "", "fleet fixture YAML (default: demo fleet)")

	cmd.AddCommand(NewFleetCommand(opts))
	cmd.AddCommand(NewPlanCommand(opts))
	cmd.AddCommand(NewConflictsCommand(opts))
	cmd.AddCommand(NewSimulateCommand(opts))
	cmd.AddCommand(NewDecideCommand(opts))
	cmd.AddCommand(NewHistoryCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}

// session is the resolved configuration a command runs with.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	out    *OutputFormatter
}

// open loads configuration, applies flag overrides and builds the logger
// and output formatter. Config errors are command errors.
func (o *RootOptions) open(cmd *cobra.Command) (*session, error) {
	cfg, errs := config.Load(o.Config)
	if cfg == nil {
		return nil, WrapExitError(ExitCommandError, "failed to load config", errors.Join(errs...))
	}
	if len(errs) > 0 {
		return nil, WrapExitError(ExitCommandError, "invalid config", errors.Join(errs...))
	}
	if o.Fixture != "" {
		cfg.Fixture = o.Fixture
	}

	level := cfg.SlogLevel()
	if o.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: level,
	}))

	return &session{
		cfg:    cfg,
		logger: logger,
		out: &OutputFormatter{
			Format:    o.Format,
			Writer:    cmd.OutOrStdout(),
			ErrWriter: cmd.ErrOrStderr(),
			Verbose:   o.Verbose,
		},
	}, nil
}

func (s *session) loadFleet() (fleet.Snapshot, error) {
	snap, err := s.cfg.LoadFleet()
	if err != nil {
		return fleet.Snapshot{}, WrapExitError(ExitCommandError, "failed to load fleet", err)
	}
	s.logger.Debug("fleet loaded", "trains", len(snap.Trains), "reference_date", snap.ReferenceDate)
	return snap, nil
}

// openLedger opens the plan ledger at path, falling back to the configured
// database.
func (s *session) openLedger(path string) (*store.Store, error) {
	if path == "" {
		path = s.cfg.DB
	}
	if path == "" {
		return nil, NewExitError(ExitCommandError, "no plan ledger: set --db or db in the config file")
	}

	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	s.logger.Debug("ledger opened", "path", path)
	return st, nil
}

// fail reports err in the configured format and returns it as an
// ExitError with code.
func (s *session) fail(code int, errCode, message string, err error) error {
	if s.out.Format == "json" {
		details := any(nil)
		if err != nil {
			details = err.Error()
		}
		if encErr := s.out.Error(errCode, message, details); encErr != nil {
			return encErr
		}
	}
	return WrapExitError(code, message, err)
}
