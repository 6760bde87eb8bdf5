// Package table holds the ordered record collections returned by Hub'Eau fetches.
package table

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// Record is one JSON object returned by the API. Fields are kept as decoded;
// numbers are json.Number so their textual form survives export.
type Record map[string]any

// Table is an ordered sequence of records in arrival order.
type Table struct {
	Records []Record

	// field names in the order they first appeared on the wire
	order []string
	known map[string]struct{}
}

// New returns a table holding records.
func New(records ...Record) *Table {
	t := &Table{}
	t.Append(records...)
	return t
}

// Len returns the number of records.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table holds no records.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// Append adds records to the end of the table. Field order for records built
// in code is alphabetical; use Decode to keep wire order.
func (t *Table) Append(records ...Record) {
	for _, rec := range records {
		keys := make([]string, 0, len(rec))
		for k := range rec {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		t.appendOrdered(rec, keys)
	}
}

// Concat appends all records of other, keeping their order.
func (t *Table) Concat(other *Table) {
	if other == nil {
		return
	}
	t.track(other.order)
	t.Records = append(t.Records, other.Records...)
}

// Columns returns the union of field names in first-seen order.
func (t *Table) Columns() []string {
	if t == nil {
		return nil
	}
	cols := make([]string, len(t.order))
	copy(cols, t.order)
	return cols
}

// Strings returns the string form of column for every record. Missing fields
// yield "".
func (t *Table) Strings(column string) []string {
	if t == nil {
		return nil
	}
	out := make([]string, 0, len(t.Records))
	for _, rec := range t.Records {
		out = append(out, rec.String(column))
	}
	return out
}

// Unique returns the distinct non-empty values of column in first-seen order.
func (t *Table) Unique(column string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, v := range t.Strings(column) {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func (t *Table) appendOrdered(rec Record, keys []string) {
	t.track(keys)
	t.Records = append(t.Records, rec)
}

func (t *Table) track(keys []string) {
	if t.known == nil {
		t.known = make(map[string]struct{}, len(keys))
	}
	for _, k := range keys {
		if _, ok := t.known[k]; ok {
			continue
		}
		t.known[k] = struct{}{}
		t.order = append(t.order, k)
	}
}

// String renders field as text for tabular output. Strings are returned as is,
// null and missing fields as "", numbers in their decoded form and nested
// values as compact JSON.
func (r Record) String(field string) string {
	v, ok := r[field]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}

// Float returns field as a float64. ok is false for missing or non-numeric
// values.
func (r Record) Float(field string) (float64, bool) {
	switch val := r[field].(type) {
	case json.Number:
		f, err := val.Float64()
		return f, err == nil
	case float64:
		return val, true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
