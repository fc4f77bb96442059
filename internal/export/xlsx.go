// Package export appends entries to a spreadsheet for whoever needs the
// punch log outside the app (timesheets, HR).
package export

import (
	"fmt"
	"os"

	"github.com/mfigueiredo/ponto/internal/domain"
	"github.com/xuri/excelize/v2"
)

var headers = []string{"data", "hora", "criado_em", "arquivo"}

// AppendEntries appends one row per entry to the workbook at xlsxPath,
// creating it with a header row when absent.
func AppendEntries(xlsxPath string, entries []domain.TimeEntry) error {
	f, err := openOrCreate(xlsxPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := f.Close(); err != nil {
			fmt.Println("error closing workbook:", err)
		}
	}()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return fmt.Errorf("read rows: %w", err)
	}

	next := len(rows) + 1
	for _, e := range entries {
		values := []string{e.Date, e.Hour, e.CreatedAt.Format("02/01/2006 15:04:05"), e.FilePath}
		for i, val := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, next)
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				return fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
		next++
	}

	if err := f.SaveAs(xlsxPath); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func openOrCreate(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open workbook: %w", err)
		}
		return f, nil
	}

	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	return f, nil
}
