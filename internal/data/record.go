package data

import (
	"bytes"
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Record is a flat field-to-value mapping that remembers field order, so
// columns come out in the order the model's schema declares them.
type Record struct {
	fields *orderedmap.OrderedMap[string, any]
}

func NewRecord() *Record {
	return &Record{fields: orderedmap.New[string, any]()}
}

// Flatten converts any JSON-serializable value into a Record.
func Flatten(v any) (*Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	rec := NewRecord()
	if err := json.Unmarshal(raw, rec); err != nil {
		return nil, fmt.Errorf("flattening result: %w", err)
	}
	return rec, nil
}

// DecodeRecords parses a JSON array of objects.
func DecodeRecords(raw []byte) ([]*Record, error) {
	var records []*Record
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, err
	}
	if records == nil {
		records = []*Record{}
	}
	return records, nil
}

func (r *Record) Set(key string, value any) {
	r.init()
	r.fields.Set(key, value)
}

func (r *Record) Get(key string) (any, bool) {
	if r == nil || r.fields == nil {
		return nil, false
	}
	return r.fields.Get(key)
}

func (r *Record) Len() int {
	if r == nil || r.fields == nil {
		return 0
	}
	return r.fields.Len()
}

// Keys returns field names in insertion order.
func (r *Record) Keys() []string {
	keys := make([]string, 0, r.Len())
	if r.Len() == 0 {
		return keys
	}
	for pair := r.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

func (r *Record) MarshalJSON() ([]byte, error) {
	if r == nil || r.fields == nil {
		return []byte("{}"), nil
	}
	return r.fields.MarshalJSON()
}

func (r *Record) UnmarshalJSON(raw []byte) error {
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return fmt.Errorf("record must be a JSON object, got %.20q", raw)
	}
	r.fields = orderedmap.New[string, any]()
	return r.fields.UnmarshalJSON(raw)
}

func (r *Record) init() {
	if r.fields == nil {
		r.fields = orderedmap.New[string, any]()
	}
}
