package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/api"
	"github.com/roach88/induction/internal/fleet"
)

// ServeOptions holds flags for the serve command.
type ServeOptions struct {
	*RootOptions
	Addr     string
	Database string
}

// NewServeCommand creates the serve command.
func NewServeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ServeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planner HTTP API",
		Long: `Start the planner API: fleet listing and edits, the ranked plan,
exports, what-if scenarios, plan decisions and Prometheus metrics.

Without a ledger database the decision and history endpoints answer 503.

Examples:
  induction serve
  induction serve --addr :9090 --db ./plans.db --verbose`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Addr, "addr", "", "listen address (default: addr from config, :8080)")
	cmd.Flags().StringVar(&opts.Database, "db", "", "path to the plan ledger (default: db from config)")

	return cmd
}

func runServe(opts *ServeOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}
	snap, err := s.loadFleet()
	if err != nil {
		return err
	}

	addr := opts.Addr
	if addr == "" {
		addr = s.cfg.Addr
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	deps := api.Deps{
		Fleet:    fleet.NewStore(snap),
		Registry: reg,
		Logger:   s.logger,
	}

	if opts.Database != "" || s.cfg.DB != "" {
		ledger, err := s.openLedger(opts.Database)
		if err != nil {
			return err
		}
		defer func() {
			if closeErr := ledger.Close(); closeErr != nil {
				s.logger.Error("error closing database", "error", closeErr)
			}
		}()
		deps.Ledger = ledger
	} else {
		s.logger.Warn("no ledger database configured; plan decisions disabled")
	}

	srv, err := api.New(addr, deps)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create server", err)
	}

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}
	ctx, cancel := context.WithCancel(parentCtx)
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	go func() {
		select {
		case sig := <-sigChan:
			s.logger.Info("received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	fmt.Fprintf(cmd.OutOrStdout(), "Serving %d trains on %s. Press Ctrl-C to stop.\n", len(snap.Trains), addr)

	if err := srv.Run(ctx); err != nil {
		return WrapExitError(ExitFailure, "server error", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
