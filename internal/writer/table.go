package writer

import (
	"encoding/json"
	"strconv"

	"github.com/Alias-z/FungariumOCR/internal/data"
)

// Table is the tabular view of a batch: one row per record, columns are
// the union of record keys in first-seen order.
type Table struct {
	Header []string
	Rows   [][]any
}

func NewTable(records []*data.Record) (*Table, error) {
	index := make(map[string]int)
	var header []string
	for _, rec := range records {
		for _, key := range rec.Keys() {
			if _, ok := index[key]; !ok {
				index[key] = len(header)
				header = append(header, key)
			}
		}
	}

	rows := make([][]any, 0, len(records))
	for _, rec := range records {
		row := make([]any, len(header))
		for _, key := range rec.Keys() {
			v, _ := rec.Get(key)
			cell, err := cellValue(v)
			if err != nil {
				return nil, err
			}
			row[index[key]] = cell
		}
		rows = append(rows, row)
	}

	return &Table{Header: header, Rows: rows}, nil
}

// cellValue keeps scalars as they are and renders nested values as JSON.
// A nil cell is left blank.
func cellValue(v any) (any, error) {
	switch val := v.(type) {
	case nil, string, bool, float64, int, int64:
		return val, nil
	case json.Number:
		if f, err := strconv.ParseFloat(string(val), 64); err == nil {
			return f, nil
		}
		return string(val), nil
	default:
		raw, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}
		return string(raw), nil
	}
}

// StringRows renders every cell as text, blanks for missing values.
func (t *Table) StringRows() [][]string {
	out := make([][]string, 0, len(t.Rows))
	for _, row := range t.Rows {
		rec := make([]string, len(row))
		for i, cell := range row {
			switch val := cell.(type) {
			case nil:
			case string:
				rec[i] = val
			case bool:
				rec[i] = strconv.FormatBool(val)
			case float64:
				rec[i] = strconv.FormatFloat(val, 'f', -1, 64)
			case int:
				rec[i] = strconv.Itoa(val)
			case int64:
				rec[i] = strconv.FormatInt(val, 10)
			}
		}
		out = append(out, rec)
	}
	return out
}
