package writer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Alias-z/FungariumOCR/internal/data"
)

// EncodeJSON renders records as a JSON array indented with two spaces.
// An empty batch encodes as [].
func EncodeJSON(records []*data.Record) ([]byte, error) {
	if records == nil {
		records = []*data.Record{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(records); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// WriteJSON writes records to outputPath, replacing any existing file, and
// returns the exact bytes written.
func WriteJSON(records []*data.Record, outputPath string) ([]byte, error) {
	raw, err := EncodeJSON(records)
	if err != nil {
		return nil, fmt.Errorf("encoding JSON: %w", err)
	}
	if err := os.WriteFile(outputPath, raw, 0o644); err != nil {
		return nil, fmt.Errorf("writing JSON file %s: %w", outputPath, err)
	}
	return raw, nil
}
