package pipeline

import (
	"errors"

	"github.com/Alias-z/FungariumOCR/internal/data"
	"github.com/Alias-z/FungariumOCR/internal/writer"
	"go.uber.org/zap"
)

// writeOutput writes the JSON file, then derives the spreadsheet (and the
// optional CSV) from the bytes just written. Only a JSON failure is
// returned; later failures are logged and recorded on the report.
func writeOutput(log *zap.SugaredLogger, records []*data.Record, report *Report, writeCSV bool) error {
	raw, err := writer.WriteJSON(records, report.JSONPath)
	if err != nil {
		return err
	}
	log.Debugf("[writeOutput]: wrote %d records to %s", len(records), report.JSONPath)

	table, sheetErr := writeSpreadsheet(raw, report.SpreadsheetPath)
	if sheetErr != nil {
		if errors.Is(sheetErr, writer.ErrSerialization) {
			log.Errorf("Error parsing JSON: %v", sheetErr)
		} else {
			log.Errorf("Error creating Excel file: %v", sheetErr)
		}
		report.SpreadsheetErr = sheetErr
		return nil
	}
	log.Infof("Successfully saved Excel file to: %s", report.SpreadsheetPath)

	if writeCSV {
		report.CSVPath = writer.Sibling(report.JSONPath, ".csv")
		if err := writer.WriteCSV(table, report.CSVPath); err != nil {
			log.Warnf("Error creating CSV file: %v", err)
			report.CSVErr = err
		}
	}
	return nil
}

func writeSpreadsheet(raw []byte, path string) (*writer.Table, *writer.SheetError) {
	records, err := data.DecodeRecords(raw)
	if err != nil {
		return nil, &writer.SheetError{Kind: writer.ErrSerialization, Path: path, Err: err}
	}
	table, err := writer.NewTable(records)
	if err != nil {
		return nil, &writer.SheetError{Kind: writer.ErrSerialization, Path: path, Err: err}
	}
	if err := writer.WriteXLSX(table, path); err != nil {
		return nil, &writer.SheetError{Kind: writer.ErrIO, Path: path, Err: err}
	}
	return table, nil
}
