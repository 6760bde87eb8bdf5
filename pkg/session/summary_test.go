package session

import (
	"reflect"
	"testing"

	"github.com/Sternrassler/hubeau-client/pkg/table"
)

func TestSummarize(t *testing.T) {
	stations := table.New(
		table.Record{"code_station": "S1", "libelle_station": "Bergerac", "libelle_entite_hydrographique": "La Dordogne", "latitude": 44.85, "longitude": 0.48},
		table.Record{"code_station": "S2", "libelle_station": "Lalinde", "libelle_entite_hydrographique": "La Dordogne", "latitude": "44.83", "longitude": "0.74"},
		table.Record{"code_station": "S3", "libelle_entite_hydrographique": "La Dordogne"},
	)
	operations := table.New(
		table.Record{"code_station": "S1", "code_operation": "O1"},
		table.Record{"code_station": "S1", "code_operation": "O1"},
		table.Record{"code_station": "S1", "code_operation": "O2"},
		table.Record{"code_station": "S2", "code_operation": "O3"},
		table.Record{"code_station": "S9", "code_operation": "O4"},
	)
	observations := table.New(
		table.Record{"code_station": "S1"},
		table.Record{"code_station": "S1"},
		table.Record{"code_station": "S1"},
		table.Record{"code_station": "S2"},
	)

	got := Summarize(stations, operations, observations)

	want := []StationSummary{
		{Code: "S1", Label: "Bergerac", River: "La Dordogne", Latitude: 44.85, Longitude: 0.48, HasPosition: true, Operations: 2, Observations: 3},
		{Code: "S2", Label: "Lalinde", River: "La Dordogne", Latitude: 44.83, Longitude: 0.74, HasPosition: true, Operations: 1, Observations: 1},
		{Code: "S3", River: "La Dordogne"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Summarize() =\n%+v\nwant\n%+v", got, want)
	}
}

func TestSummarize_NoActivity(t *testing.T) {
	stations := table.New(table.Record{"code_station": "S1"})

	got := Summarize(stations, table.New(), nil)
	if len(got) != 1 || got[0].Operations != 0 || got[0].Observations != 0 {
		t.Errorf("Summarize() = %+v, want zero counts", got)
	}
}

func TestStationSummary_DisplayLabel(t *testing.T) {
	tests := []struct {
		name    string
		summary StationSummary
		want    string
	}{
		{"station label", StationSummary{Label: "Bergerac", River: "La Dordogne"}, "Bergerac"},
		{"river fallback", StationSummary{River: "La Dordogne"}, "La Dordogne"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.summary.DisplayLabel(); got != tt.want {
				t.Errorf("DisplayLabel() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodes(t *testing.T) {
	got := Codes([]StationSummary{{Code: "A"}, {}, {Code: "B"}})
	if !reflect.DeepEqual(got, []string{"A", "B"}) {
		t.Errorf("Codes() = %v, want [A B]", got)
	}
}
