package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/arf/areacheck/internal/application/table"
	"github.com/arf/areacheck/internal/domain"
)

const sheetName = "History"

// Export writes records to dest, choosing the format from its extension:
// .xlsx produces a spreadsheet, anything else JSON lines.
func Export(records []domain.ResultRecord, dest string) error {
	if strings.EqualFold(filepath.Ext(dest), ".xlsx") {
		return ExportXLSX(records, dest)
	}
	return ExportJSONL(records, dest)
}

// ExportJSONL writes one JSON object per line, newest first.
func ExportJSONL(records []domain.ResultRecord, dest string) error {
	file, err := os.Create(dest)
	if err != nil {
		return err
	}
	defer file.Close()
	for _, rec := range records {
		b, err := json.Marshal(rec)
		if err != nil {
			return err
		}
		if _, err := file.Write(append(b, '\n')); err != nil {
			return err
		}
	}
	return file.Close()
}

// ExportXLSX writes the records as the table shows them, plus the raw values.
func ExportXLSX(records []domain.ResultRecord, dest string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	headers := append(append([]string{}, domain.TableHeaders...), "Hit")
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return err
		}
	}
	for i, rec := range records {
		row := table.FormatRow(rec)
		values := []interface{}{rec.X, rec.Y, rec.R, row.Result, rec.CurrentTime, rec.ExecutionTime, rec.Hit}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}
	return f.SaveAs(dest)
}
