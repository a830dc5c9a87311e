package writer

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Alias-z/FungariumOCR/internal/data"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func record(kv ...any) *data.Record {
	rec := data.NewRecord()
	for i := 0; i < len(kv); i += 2 {
		rec.Set(kv[i].(string), kv[i+1])
	}
	return rec
}

func sampleRecords() []*data.Record {
	return []*data.Record{
		record("image_name", "a.jpg", "scientific_name", "Quercus robur", "handwritten", true),
		record("image_name", "b.jpg", "collector", "E. Horak", "count", float64(3)),
		record("image_name", "c.jpg", "tags", []any{"type", "holotype"}),
	}
}

func TestNewTable_UnionOfColumns(t *testing.T) {
	// Act
	table, err := NewTable(sampleRecords())

	// Assert
	require.NoError(t, err)
	assert.Equal(t, []string{"image_name", "scientific_name", "handwritten", "collector", "count", "tags"}, table.Header)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, []any{"a.jpg", "Quercus robur", true, nil, nil, nil}, table.Rows[0])
	assert.Equal(t, []any{"b.jpg", nil, nil, "E. Horak", float64(3), nil}, table.Rows[1])
	assert.Equal(t, []any{"c.jpg", nil, nil, nil, nil, `["type","holotype"]`}, table.Rows[2])

	assert.Equal(t, []string{"b.jpg", "", "", "E. Horak", "3", ""}, table.StringRows()[1])
}

func TestNewTable_Empty(t *testing.T) {
	table, err := NewTable(nil)
	require.NoError(t, err)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Rows)
}

func TestEncodeJSON(t *testing.T) {
	t.Run("empty batch", func(t *testing.T) {
		raw, err := EncodeJSON(nil)
		require.NoError(t, err)
		assert.Equal(t, "[]", string(raw))
	})

	t.Run("two-space indent without HTML escaping", func(t *testing.T) {
		raw, err := EncodeJSON([]*data.Record{record("locality", "Zürich <Uetliberg> & Sihlwald")})
		require.NoError(t, err)
		assert.Contains(t, string(raw), "\n  {\n    \"locality\": ")
		assert.Contains(t, string(raw), "Zürich")

		var back []map[string]string
		require.NoError(t, json.Unmarshal(raw, &back))
		assert.Equal(t, "Zürich <Uetliberg> & Sihlwald", back[0]["locality"])
	})
}

func TestWriteJSON_Overwrites(t *testing.T) {
	// Arrange
	outputPath := filepath.Join(t.TempDir(), "batch.json")
	require.NoError(t, os.WriteFile(outputPath, []byte("stale content that is longer than the new one"), 0o644))

	// Act
	raw, err := WriteJSON([]*data.Record{record("a", "b")}, outputPath)

	// Assert
	require.NoError(t, err)
	onDisk, err := os.ReadFile(outputPath)
	require.NoError(t, err)
	assert.Equal(t, raw, onDisk)
	assert.True(t, json.Valid(onDisk))
}

func TestWriteXLSX(t *testing.T) {
	// Arrange
	outputPath := filepath.Join(t.TempDir(), "batch.xlsx")
	table, err := NewTable(sampleRecords())
	require.NoError(t, err)

	// Act
	err = WriteXLSX(table, outputPath)

	// Assert
	require.NoError(t, err)
	rows := readXLSXRows(t, outputPath)
	require.Len(t, rows, 4)
	assert.Equal(t, table.Header, rows[0])
	assert.Equal(t, "a.jpg", rows[1][0])
	assert.Equal(t, "Quercus robur", rows[1][1])
	assert.Equal(t, "E. Horak", rows[2][3])
}

func TestWriteXLSX_EmptyTable(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.xlsx")

	require.NoError(t, WriteXLSX(&Table{}, outputPath))

	assert.Empty(t, readXLSXRows(t, outputPath))
}

func TestWriteXLSX_InvalidPath(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	outputPath := filepath.Join(dir, "taken.xlsx")
	require.NoError(t, os.Mkdir(outputPath, 0o755))

	// Act
	err := WriteXLSX(&Table{Header: []string{"a"}, Rows: [][]any{{"x"}}}, outputPath)

	// Assert
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	// Arrange
	outputPath := filepath.Join(t.TempDir(), "batch.csv")
	table, err := NewTable(sampleRecords())
	require.NoError(t, err)

	// Act
	err = WriteCSV(table, outputPath)

	// Assert
	require.NoError(t, err)
	records := readCSVFile(t, outputPath)
	require.Len(t, records, 4)
	assert.Equal(t, table.Header, records[0])
	assert.Equal(t, []string{"a.jpg", "Quercus robur", "true", "", "", ""}, records[1])
}

func TestWriteCSV_InvalidPath(t *testing.T) {
	err := WriteCSV(&Table{}, filepath.Join(t.TempDir(), "missing", "batch.csv"))
	assert.Error(t, err)
}

func TestSibling(t *testing.T) {
	assert.Equal(t, "/data/box1/box1.xlsx", Sibling("/data/box1/box1.json", ".xlsx"))
	assert.Equal(t, "/data/x.json/x.json.csv", Sibling("/data/x.json/x.json.json", ".csv"))
}

func TestSheetError(t *testing.T) {
	cause := errors.New("disk full")
	err := error(&SheetError{Kind: ErrIO, Path: "/tmp/out.xlsx", Err: cause})

	assert.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrSerialization)

	var sheetErr *SheetError
	require.ErrorAs(t, err, &sheetErr)
	assert.Equal(t, "/tmp/out.xlsx", sheetErr.Path)
	assert.Contains(t, err.Error(), "disk full")
}

// Helper functions
func readCSVFile(t *testing.T, path string) [][]string {
	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open CSV file: %v", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("failed to read CSV: %v", err)
	}
	return records
}

func readXLSXRows(t *testing.T, path string) [][]string {
	f, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("failed to open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheetName)
	if err != nil {
		t.Fatalf("failed to read rows: %v", err)
	}
	return rows
}
