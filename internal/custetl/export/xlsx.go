// Package export writes the final customer dataset to an .xlsx workbook.
package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/vaibhaw-/custetl/internal/custetl/etlerr"
	"github.com/vaibhaw-/custetl/internal/custetl/logger"
	"github.com/vaibhaw-/custetl/internal/custetl/records"
)

// SheetName is the single worksheet written.
const SheetName = "Sheet1"

const dateFormat = "yyyy-mm-dd"

// WriteXLSX writes a header row of records.Columns followed by one row per
// customer. Dates are stored as date cells without a time component; missing
// values are left empty. Any failure is an *etlerr.ExportError.
func WriteXLSX(path string, rows []records.Customer) error {
	log := logger.L()

	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, rows); err != nil {
		return etlerr.NewExportError(path, err)
	}
	if err := f.SaveAs(path); err != nil {
		return etlerr.NewExportError(path, err)
	}

	log.Infow("export written", "path", path, "rows", len(rows))
	return nil
}

func writeSheet(f *excelize.File, rows []records.Customer) error {
	dateFmt := dateFormat
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return fmt.Errorf("date style: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("stream writer: %w", err)
	}

	header := make([]any, len(records.Columns))
	for i, c := range records.Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("header row: %w", err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := r.Values()
		for j, v := range values {
			if t, ok := v.(time.Time); ok {
				values[j] = excelize.Cell{StyleID: dateStyle, Value: t}
			}
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("row %d (customer %s): %w", i+2, r.CustomerID, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	return nil
}
