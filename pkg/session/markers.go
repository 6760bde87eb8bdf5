package session

import (
	"encoding/json"
	"fmt"
	"math"
)

// Marker radius bounds.
const (
	MinRadius     = 5.0
	RadiusRange   = 15.0
	DefaultRadius = 10.0
)

// Marker is a styled map marker for one station. Radius scales with the
// number of operations; Color goes from green to red with the number of
// observations.
type Marker struct {
	Code      string
	Label     string
	Latitude  float64
	Longitude float64
	Radius    float64
	Color     string
	Popup     string
}

// ColorScale maps value within [lo, hi] to "#rrgg00" with r = 255*ratio and
// g = 255*(1-ratio). A flat range yields ratio 0.5.
func ColorScale(value, lo, hi int) string {
	ratio := 0.5
	if hi > lo {
		ratio = float64(value-lo) / float64(hi-lo)
	}
	r := int(255 * ratio)
	g := int(255 * (1 - ratio))
	return fmt.Sprintf("#%02x%02x00", r, g)
}

// SizeScale maps value within [lo, hi] to a radius in [5, 20]. A flat range
// yields 10.
func SizeScale(value, lo, hi int) float64 {
	if hi <= lo {
		return DefaultRadius
	}
	return MinRadius + RadiusRange*float64(value-lo)/float64(hi-lo)
}

// Markers styles every positioned station of summary. Scales are computed
// over the whole summary.
func Markers(summary []StationSummary) []Marker {
	if len(summary) == 0 {
		return nil
	}

	minOps, maxOps := summary[0].Operations, summary[0].Operations
	minObs, maxObs := summary[0].Observations, summary[0].Observations
	for _, s := range summary[1:] {
		minOps = min(minOps, s.Operations)
		maxOps = max(maxOps, s.Operations)
		minObs = min(minObs, s.Observations)
		maxObs = max(maxObs, s.Observations)
	}

	out := make([]Marker, 0, len(summary))
	for _, s := range summary {
		if !s.HasPosition {
			continue
		}
		out = append(out, Marker{
			Code:      s.Code,
			Label:     s.DisplayLabel(),
			Latitude:  s.Latitude,
			Longitude: s.Longitude,
			Radius:    SizeScale(s.Operations, minOps, maxOps),
			Color:     ColorScale(s.Observations, minObs, maxObs),
			Popup:     fmt.Sprintf("%s<br>Opérations: %d<br>Observations: %d", s.DisplayLabel(), s.Operations, s.Observations),
		})
	}
	return out
}

// Center returns the mean position of the markers.
func Center(markers []Marker) (lat, lon float64) {
	if len(markers) == 0 {
		return math.NaN(), math.NaN()
	}
	for _, m := range markers {
		lat += m.Latitude
		lon += m.Longitude
	}
	n := float64(len(markers))
	return lat / n, lon / n
}

type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string         `json:"type"`
	Geometry   geometry       `json:"geometry"`
	Properties map[string]any `json:"properties"`
}

type geometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

// GeoJSON renders markers as a FeatureCollection of points carrying the
// styling in their properties.
func GeoJSON(markers []Marker) ([]byte, error) {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, 0, len(markers))}
	for _, m := range markers {
		fc.Features = append(fc.Features, feature{
			Type: "Feature",
			Geometry: geometry{
				Type:        "Point",
				Coordinates: [2]float64{m.Longitude, m.Latitude},
			},
			Properties: map[string]any{
				"code_station": m.Code,
				"label":        m.Label,
				"radius":       m.Radius,
				"color":        m.Color,
				"fill":         true,
				"fill_opacity": 0.7,
				"popup":        m.Popup,
			},
		})
	}
	data, err := json.MarshalIndent(fc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode geojson: %w", err)
	}
	return data, nil
}
