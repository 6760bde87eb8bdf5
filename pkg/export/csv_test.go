package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/Sternrassler/hubeau-client/pkg/table"
)

func decode(t *testing.T, raw ...string) *table.Table {
	t.Helper()
	msgs := make([]json.RawMessage, len(raw))
	for i, r := range raw {
		msgs[i] = json.RawMessage(r)
	}
	tbl, err := table.Decode(msgs)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	return tbl
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("open csv: %v", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	return records
}

func TestWriteTable_ColumnUnion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "stations.csv")

	tbl := decode(t,
		`{"code_station": "S1", "libelle": "Pont", "latitude": 45.10}`,
		`{"code_station": "S2", "altitude": 120, "libelle": "Moulin, aval"}`,
	)

	if err := WriteTable(path, tbl); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	records := readCSV(t, path)
	want := [][]string{
		{"code_station", "libelle", "latitude", "altitude"},
		{"S1", "Pont", "45.10", ""},
		{"S2", "Moulin, aval", "", "120"},
	}
	if !reflect.DeepEqual(records, want) {
		t.Errorf("csv = %v, want %v", records, want)
	}
}

func TestWriteTable_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")

	if err := WriteTable(path, table.New()); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Size() != 1 {
		t.Errorf("size = %d, want 1 (header line only)", info.Size())
	}
}

func TestCSVWriter_NestedValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "obs.csv")

	tbl := decode(t, `{"code": "A", "geometry": {"type": "Point"}, "flag": true, "none": null}`)
	if err := WriteTable(path, tbl); err != nil {
		t.Fatalf("WriteTable() failed: %v", err)
	}

	records := readCSV(t, path)
	want := []string{"A", `{"type":"Point"}`, "true", ""}
	if !reflect.DeepEqual(records[1], want) {
		t.Errorf("row = %v, want %v", records[1], want)
	}
}

func TestEncode(t *testing.T) {
	var buf strings.Builder
	tbl := decode(t, `{"b": 1, "a": "x"}`, `{"c": "quoted \"value\""}`)

	if err := Encode(&buf, tbl); err != nil {
		t.Fatalf("Encode() failed: %v", err)
	}

	want := "b,a,c\n1,x,\n,,\"quoted \"\"value\"\"\"\n"
	if buf.String() != want {
		t.Errorf("Encode() = %q, want %q", buf.String(), want)
	}
}

func TestEncode_NilTable(t *testing.T) {
	var buf strings.Builder
	if err := Encode(&buf, nil); err != nil {
		t.Fatalf("Encode(nil) failed: %v", err)
	}
	if buf.String() != "\n" {
		t.Errorf("Encode(nil) = %q, want header line only", buf.String())
	}
}
