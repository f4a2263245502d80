package cli

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/roach88/induction/internal/export"
)

func TestExportCommand_Stdout(t *testing.T) {
	out, _, err := execute(t, "export")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, strings.Join(export.PlanHeaders, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,KM-001,"))
}

func TestExportCommand_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.xlsx")

	out, _, err := execute(t, "export", "--out", path, "--format", "json")
	require.NoError(t, err)
	result := decodeEnvelope[ExportResult](t, out).Data
	assert.Equal(t, export.FormatXLSX, result.Format)
	assert.Equal(t, 6, result.Rows)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(export.SheetPlan)
	require.NoError(t, err)
	require.Len(t, rows, 7)
	assert.Equal(t, "KM-001", rows[1][1])
}

func TestExportCommand_CSVFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.CSV")

	out, _, err := execute(t, "export", "--out", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 6 plan rows")
}

func TestExportCommand_BadExtension(t *testing.T) {
	_, _, err := execute(t, "export", "--out", filepath.Join(t.TempDir(), "plan.pdf"))
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
}
