package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/induction/internal/engine"
	"github.com/roach88/induction/internal/export"
)

// ExportOptions holds flags for the export command.
type ExportOptions struct {
	*RootOptions
	Out string
}

// ExportResult describes a written export.
type ExportResult struct {
	Path   string `json:"path"`
	Format string `json:"format"`
	Rows   int    `json:"rows"`
}

// NewExportCommand creates the export command.
func NewExportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ExportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the induction plan as CSV or Excel",
		Long: `Write the ranked induction plan to a file. The format follows the
file extension: .csv or .xlsx. Without --out, CSV is written to stdout.

Examples:
  induction export --out plan.xlsx
  induction export --out plan.csv
  induction export > plan.csv`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Out, "out", "o", "", "output file (.csv or .xlsx)")

	return cmd
}

// formatFor maps a file name to an export format.
func formatFor(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return export.FormatCSV, nil
	case ".xlsx":
		return export.FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported extension %q: use .csv or .xlsx", filepath.Ext(path))
}

func runExport(opts *ExportOptions, cmd *cobra.Command) error {
	s, err := opts.open(cmd)
	if err != nil {
		return err
	}

	format := export.FormatCSV
	if opts.Out != "" {
		format, err = formatFor(opts.Out)
		if err != nil {
			return s.fail(ExitCommandError, "E_INVALID_FLAG", "invalid --out", err)
		}
	}

	snap, err := s.loadFleet()
	if err != nil {
		return err
	}
	plan := engine.BuildPlan(snap.Trains)

	if opts.Out == "" {
		return export.Write(cmd.OutOrStdout(), format, plan)
	}

	f, err := os.Create(opts.Out)
	if err != nil {
		return s.fail(ExitCommandError, "E_WRITE", "failed to create output file", err)
	}
	if err := export.Write(f, format, plan); err != nil {
		f.Close()
		return s.fail(ExitFailure, "E_WRITE", "failed to write export", err)
	}
	if err := f.Close(); err != nil {
		return s.fail(ExitFailure, "E_WRITE", "failed to write export", err)
	}
	s.logger.Debug("plan exported", "path", opts.Out, "format", format)

	result := ExportResult{Path: opts.Out, Format: format, Rows: len(plan.Entries)}
	if s.out.IsJSON() {
		return s.out.Success(result)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d plan rows to %s\n", result.Rows, result.Path)
	return nil
}
