package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/Alias-z/FungariumOCR/internal/logger"
	"github.com/Alias-z/FungariumOCR/internal/ocr"
	"github.com/Alias-z/FungariumOCR/internal/writer"
	"github.com/google/uuid"
)

var ErrOutputExists = errors.New("output file already exists")

type Options struct {
	// Extension filters input images; ".jpg" when empty.
	Extension string
	// NoClobber refuses to run when the JSON output is already present.
	NoClobber bool
	// WriteCSV mirrors the spreadsheet to a CSV file.
	WriteCSV bool
}

// Report describes what a batch run produced.
type Report struct {
	RunID           string
	Images          int
	JSONPath        string
	SpreadsheetPath string
	CSVPath         string

	// SpreadsheetErr is set when the JSON was written but the workbook was not.
	SpreadsheetErr *writer.SheetError
	CSVErr         error
}

// OutputPaths returns <dir>/<base(dir)>.json and its .xlsx sibling.
func OutputPaths(directory string) (jsonPath, spreadsheetPath string) {
	dir := filepath.Clean(directory)
	jsonPath = filepath.Join(dir, filepath.Base(dir)+".json")
	return jsonPath, writer.Sibling(jsonPath, ".xlsx")
}

// Run OCRs every matching image in directory, one after another, and
// writes the results next to them. Any discovery or OCR failure aborts the
// run before a file is written. Spreadsheet failures do not fail the run;
// they are reported on the returned Report.
func Run[T ocr.Schema](ctx context.Context, eng ocr.OCREngine, directory string, cfg ocr.Config, opts Options) (*Report, error) {
	report := &Report{RunID: uuid.NewString()}
	report.JSONPath, report.SpreadsheetPath = OutputPaths(directory)

	log := logger.With("run_id", report.RunID)
	log.Debugf("Pipeline started with directory=%s, model=%s, output=%s", directory, cfg.Model, report.JSONPath)

	if opts.NoClobber {
		if _, err := os.Stat(report.JSONPath); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrOutputExists, report.JSONPath)
		}
	}

	paths, err := Discover(directory, opts.Extension)
	if err != nil {
		return nil, err
	}
	report.Images = len(paths)
	log.Infof("found %d images in %s", len(paths), directory)

	records, err := performOcr[T](ctx, log, eng, cfg, paths)
	if err != nil {
		log.Errorf("batch aborted: %v", err)
		return nil, err
	}

	if err := writeOutput(log, records, report, opts.WriteCSV); err != nil {
		return nil, err
	}

	log.Debugf("Pipeline finished")
	return report, nil
}
