package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/spillsight/ct-spill-analysis/internal/aggregate"
	"github.com/spillsight/ct-spill-analysis/internal/pipeline"
)

// WorkbookFile is the analyst-facing spreadsheet filename.
const WorkbookFile = "spill_analysis.xlsx"

// writeWorkbook builds the xlsx artifact: a validation sheet plus one sheet
// per research dimension.
func writeWorkbook(path string, out *pipeline.Outcome) error {
	f := excelize.NewFile()
	defer f.Close()

	const validation = "Validation"
	if err := f.SetSheetName("Sheet1", validation); err != nil {
		return err
	}
	if err := writeValidationSheet(f, validation, out); err != nil {
		return err
	}

	sheets := []struct {
		name string
		res  aggregate.Result
	}{
		{"Towns", out.Towns},
		{"Hours", out.Hours},
		{"Substances", out.Substances},
		{"Causes", out.Causes},
		{"Years", out.Years},
		{"Time Periods", out.TimePeriods},
	}
	for _, s := range sheets {
		if _, err := f.NewSheet(s.name); err != nil {
			return err
		}
		if err := writeDimensionSheet(f, s.name, s.res); err != nil {
			return err
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeValidationSheet(f *excelize.File, sheet string, out *pipeline.Outcome) error {
	rows := [][]any{
		{"Run", out.RunID},
		{"Raw records", out.Quality.RawRecords},
		{"Cleaned records", out.Quality.CleanedRecords},
		{"Dropped records", out.Quality.Dropped()},
		{},
		{"Claim", "Expected", "Observed", "Status"},
	}
	for _, c := range out.Validation.Claims {
		rows = append(rows, []any{c.Claim, c.Expected, c.Observed, string(c.Status)})
	}
	return writeRows(f, sheet, rows)
}

func writeDimensionSheet(f *excelize.File, sheet string, res aggregate.Result) error {
	rows := [][]any{{"Key", "Count", "Percent"}}
	for _, b := range res.Buckets {
		rows = append(rows, []any{b.Key, b.Count, b.Percent})
	}
	return writeRows(f, sheet, rows)
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}
	return nil
}
