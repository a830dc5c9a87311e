package writer

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sibling returns the path next to jsonPath with the same stem and ext.
func Sibling(jsonPath, ext string) string {
	return strings.TrimSuffix(jsonPath, filepath.Ext(jsonPath)) + ext
}

// WriteCSV mirrors the table to a CSV file, replacing any existing file.
// Nothing is written for a table without columns.
func WriteCSV(table *Table, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("opening CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if len(table.Header) > 0 {
		if err := writer.Write(table.Header); err != nil {
			return fmt.Errorf("writing CSV header: %w", err)
		}
		for _, record := range table.StringRows() {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("writing CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV: %w", err)
	}
	return file.Close()
}
