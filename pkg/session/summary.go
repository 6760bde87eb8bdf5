package session

import (
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Field names read from the fish population endpoints.
const (
	FieldStationCode   = "code_station"
	FieldStationLabel  = "libelle_station"
	FieldRiverLabel    = "libelle_entite_hydrographique"
	FieldOperationCode = "code_operation"
	FieldLatitude      = "latitude"
	FieldLongitude     = "longitude"
)

// StationSummary is one fishing station with its activity counts.
type StationSummary struct {
	Code         string  `json:"code_station"`
	Label        string  `json:"libelle_station"`
	River        string  `json:"libelle_entite_hydrographique"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	HasPosition  bool    `json:"has_position"`
	Operations   int     `json:"nombre_operations"`
	Observations int     `json:"nombre_observations"`
}

// DisplayLabel is the name offered for selection: the station label, or the
// river label for stations without one.
func (s StationSummary) DisplayLabel() string {
	if s.Label != "" {
		return s.Label
	}
	return s.River
}

// Summarize left-joins stations with the number of distinct operations and
// the number of observations recorded for each station code. Stations
// without activity get zero counts. Station order is kept.
func Summarize(stations, operations, observations *table.Table) []StationSummary {
	opsByStation := make(map[string]map[string]struct{})
	if operations != nil {
		for _, rec := range operations.Records {
			code := rec.String(FieldStationCode)
			op := rec.String(FieldOperationCode)
			if code == "" || op == "" {
				continue
			}
			if opsByStation[code] == nil {
				opsByStation[code] = make(map[string]struct{})
			}
			opsByStation[code][op] = struct{}{}
		}
	}

	obsByStation := make(map[string]int)
	if observations != nil {
		for _, rec := range observations.Records {
			if code := rec.String(FieldStationCode); code != "" {
				obsByStation[code]++
			}
		}
	}

	if stations == nil {
		return nil
	}

	out := make([]StationSummary, 0, stations.Len())
	for _, rec := range stations.Records {
		code := rec.String(FieldStationCode)
		lat, latOK := rec.Float(FieldLatitude)
		lon, lonOK := rec.Float(FieldLongitude)

		out = append(out, StationSummary{
			Code:         code,
			Label:        rec.String(FieldStationLabel),
			River:        rec.String(FieldRiverLabel),
			Latitude:     lat,
			Longitude:    lon,
			HasPosition:  latOK && lonOK,
			Operations:   len(opsByStation[code]),
			Observations: obsByStation[code],
		})
	}
	return out
}

// Codes returns the station codes of summary in order.
func Codes(summary []StationSummary) []string {
	out := make([]string, 0, len(summary))
	for _, s := range summary {
		if s.Code != "" {
			out = append(out, s.Code)
		}
	}
	return out
}
