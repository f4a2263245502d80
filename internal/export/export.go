// Package export renders induction plans as spreadsheets.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/roach88/induction/internal/engine"
)

// Formats understood by Write.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// Sheet names in the XLSX workbook.
const (
	SheetPlan      = "Plan"
	SheetConflicts = "Conflicts"
)

// PlanHeaders are the columns of an exported plan.
var PlanHeaders = []string{"Rank", "Train", "Status", "Bay", "Score", "Eligible", "Confidence"}

var conflictHeaders = []string{"ID", "Train", "Type", "Severity", "Description", "Suggestion"}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Write renders plan to w in the given format.
func Write(w io.Writer, format string, plan engine.Plan) error {
	switch format {
	case FormatCSV:
		return WriteCSV(w, plan)
	case FormatXLSX:
		return WriteXLSX(w, plan)
	default:
		return fmt.Errorf("unsupported export format %q (want csv or xlsx)", format)
	}
}

func planRow(e engine.PlanEntry) []string {
	return []string{
		strconv.Itoa(e.Rank),
		e.TrainID,
		string(e.Status),
		e.Bay,
		strconv.FormatFloat(e.Score, 'f', 1, 64),
		strconv.FormatBool(e.Eligible),
		strconv.FormatFloat(e.Confidence, 'f', 2, 64),
	}
}

// WriteCSV writes the plan entries as CSV with a header row.
func WriteCSV(w io.Writer, plan engine.Plan) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(PlanHeaders); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, e := range plan.Entries {
		if err := writer.Write(planRow(e)); err != nil {
			return fmt.Errorf("write csv row %s: %w", e.TrainID, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes a workbook with the ranked plan on the Plan sheet and
// the detected conflicts on the Conflicts sheet.
func WriteXLSX(w io.Writer, plan engine.Plan) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	planRows := make([][]any, len(plan.Entries))
	for i, e := range plan.Entries {
		planRows[i] = []any{e.Rank, e.TrainID, string(e.Status), e.Bay, e.Score, e.Eligible, e.Confidence}
	}
	if err := writeSheet(f, SheetPlan, PlanHeaders, planRows, headerStyle); err != nil {
		return err
	}

	conflictRows := make([][]any, len(plan.Conflicts))
	for i, c := range plan.Conflicts {
		conflictRows[i] = []any{c.ID, c.TrainID, c.Type, c.Severity, c.Description, c.Suggestion}
	}
	if err := writeSheet(f, SheetConflicts, conflictHeaders, conflictRows, headerStyle); err != nil {
		return err
	}

	index, err := f.GetSheetIndex(SheetPlan)
	if err != nil {
		return fmt.Errorf("locate plan sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]any, headerStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header %s: %w", cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, headerStyle); err != nil {
			return fmt.Errorf("style header %s: %w", cell, err)
		}
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("set row %d on %s: %w", r+2, sheet, err)
		}
	}

	last, err := excelize.ColumnNumberToName(len(headers))
	if err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "A", last, 16); err != nil {
		return fmt.Errorf("set column width on %s: %w", sheet, err)
	}
	return nil
}
