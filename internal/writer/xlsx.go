package writer

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const sheetName = "Sheet1"

// WriteXLSX writes the table to a single-sheet workbook: a header row then
// one row per record, no index column.
func WriteXLSX(table *Table, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		return fmt.Errorf("opening sheet stream: %w", err)
	}

	if len(table.Header) > 0 {
		header := make([]any, len(table.Header))
		for i, name := range table.Header {
			header[i] = name
		}
		if err := sw.SetRow("A1", header); err != nil {
			return fmt.Errorf("writing header row: %w", err)
		}
	}

	for i, row := range table.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, row); err != nil {
			return fmt.Errorf("writing row %d: %w", i+1, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flushing sheet: %w", err)
	}
	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("saving workbook %s: %w", outputPath, err)
	}
	return nil
}
