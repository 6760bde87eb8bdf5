package table

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func rawRecords(t *testing.T, docs ...string) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(docs))
	for i, d := range docs {
		out[i] = json.RawMessage(d)
	}
	return out
}

func TestDecode_KeepsWireOrder(t *testing.T) {
	tbl, err := Decode(rawRecords(t,
		`{"code_station":"A","libelle":"Seine","latitude":48.85}`,
		`{"code_station":"B","altitude":12,"libelle":"Marne"}`,
	))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	want := []string{"code_station", "libelle", "latitude", "altitude"}
	if got := tbl.Columns(); !reflect.DeepEqual(got, want) {
		t.Errorf("Columns() = %v, want %v", got, want)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tbl.Len())
	}
}

func TestDecode_NumbersKeepText(t *testing.T) {
	tbl, err := Decode(rawRecords(t, `{"resultat":0.10,"code":"0123"}`))
	if err != nil {
		t.Fatalf("Decode() failed: %v", err)
	}

	if got := tbl.Records[0].String("resultat"); got != "0.10" {
		t.Errorf("String(resultat) = %q, want %q", got, "0.10")
	}
	if got := tbl.Records[0].String("code"); got != "0123" {
		t.Errorf("String(code) = %q, want %q", got, "0123")
	}
}

func TestDecode_RejectsNonObject(t *testing.T) {
	_, err := Decode(rawRecords(t, `[1,2]`))
	if !errors.Is(err, ErrNotObject) {
		t.Errorf("Decode() error = %v, want ErrNotObject", err)
	}
}

func TestRecord_String(t *testing.T) {
	rec := Record{
		"text":   "abc",
		"null":   nil,
		"num":    json.Number("42"),
		"flag":   true,
		"float":  1.5,
		"nested": map[string]any{"a": json.Number("1")},
		"list":   []any{"x", "y"},
	}

	tests := []struct {
		field string
		want  string
	}{
		{"text", "abc"},
		{"null", ""},
		{"missing", ""},
		{"num", "42"},
		{"flag", "true"},
		{"float", "1.5"},
		{"nested", `{"a":1}`},
		{"list", `["x","y"]`},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := rec.String(tt.field); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRecord_Float(t *testing.T) {
	rec := Record{"lat": json.Number("48.5"), "name": "Seine", "s": "2.25"}

	if f, ok := rec.Float("lat"); !ok || f != 48.5 {
		t.Errorf("Float(lat) = %v, %v", f, ok)
	}
	if f, ok := rec.Float("s"); !ok || f != 2.25 {
		t.Errorf("Float(s) = %v, %v", f, ok)
	}
	if _, ok := rec.Float("name"); ok {
		t.Error("Float(name) should not be numeric")
	}
	if _, ok := rec.Float("missing"); ok {
		t.Error("Float(missing) should not be numeric")
	}
}

func TestTable_ConcatAndUnique(t *testing.T) {
	a := New(Record{"code_station": "A"}, Record{"code_station": "B"})
	b := New(Record{"code_station": "A", "extra": "x"})

	a.Concat(b)
	a.Concat(nil)

	if a.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", a.Len())
	}
	if got := a.Unique("code_station"); !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Unique() = %v", got)
	}
	if got := a.Columns(); !reflect.DeepEqual(got, []string{"code_station", "extra"}) {
		t.Errorf("Columns() = %v", got)
	}
}

func TestTable_NilSafe(t *testing.T) {
	var tbl *Table
	if !tbl.Empty() {
		t.Error("nil table should be empty")
	}
	if tbl.Columns() != nil {
		t.Error("nil table should have no columns")
	}
}
