package session

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/export"
	"github.com/Sternrassler/hubeau-client/pkg/hubeau"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Dataset names, in collection order.
const (
	DatasetFishStations      = "poissons_stations"
	DatasetFishObservations  = "poissons_observations"
	DatasetFishOperations    = "poissons_operations"
	DatasetFishIndicators    = "poissons_indicateurs"
	DatasetQualityStations   = "qualite_eau_station_pc"
	DatasetQualityAnalyses   = "qualite_eau_analyse_pc"
	DatasetQualityConditions = "qualite_eau_condition_env_pc"
	DatasetQualityOperations = "qualite_eau_operation_pc"
)

// Config holds session configuration.
type Config struct {
	// StartYear and EndYear bound the windowed analysis fetch.
	StartYear int
	EndYear   int
}

// DefaultConfig returns the default analysis year range.
func DefaultConfig() Config {
	return Config{
		StartYear: pagination.DefaultStartYear,
		EndYear:   pagination.DefaultEndYear,
	}
}

// Session runs the workflow steps against the fish and river quality APIs.
type Session struct {
	fish    *hubeau.EtatPiscicole
	quality *hubeau.QualiteRivieres
	config  Config
	logger  zerolog.Logger
}

// New creates a session over the given facades.
func New(fish *hubeau.EtatPiscicole, quality *hubeau.QualiteRivieres, config Config) *Session {
	if config.StartYear == 0 {
		config.StartYear = pagination.DefaultStartYear
	}
	if config.EndYear == 0 {
		config.EndYear = pagination.DefaultEndYear
	}

	return &Session{
		fish:    fish,
		quality: quality,
		config:  config,
		logger:  log.With().Str("component", "hubeau-session").Logger(),
	}
}

// Search fetches the river's stations with their operations and
// observations and returns a fresh, unvalidated state holding the
// per-station summary.
func (s *Session) Search(ctx context.Context, river string) (*State, error) {
	stations, err := s.riverStations(ctx, river)
	if err != nil {
		return nil, err
	}

	byStation := stationParams(stations)
	operations, err := s.fish.Operations(ctx, byStation)
	if err != nil {
		return nil, fmt.Errorf("fetch operations: %w", err)
	}
	observations, err := s.fish.Observations(ctx, byStation)
	if err != nil {
		return nil, fmt.Errorf("fetch observations: %w", err)
	}

	summary := Summarize(stations, operations, observations)
	for _, st := range summary {
		if st.Observations == 0 {
			s.logger.Warn().
				Str("river", river).
				Str("station", st.Code).
				Str("label", st.DisplayLabel()).
				Msg("Station has no observations")
		}
	}
	s.logger.Info().
		Str("river", river).
		Int("stations", len(summary)).
		Int("operations", operations.Len()).
		Int("observations", observations.Len()).
		Msg("River searched")

	return &State{River: river, Summary: summary}, nil
}

// Collect fetches the eight export datasets for a validated state. Fish
// datasets cover every station of the river; quality datasets only the
// selected ones. With an empty selection the quality datasets are empty and
// no quality request is made.
func (s *Session) Collect(ctx context.Context, st *State) ([]export.Dataset, error) {
	if st == nil || !st.Validated {
		return nil, ErrNotValidated
	}

	stations, err := s.riverStations(ctx, st.River)
	if err != nil {
		return nil, err
	}
	byStation := stationParams(stations)

	datasets := []export.Dataset{{Name: DatasetFishStations, Table: stations}}

	fishSteps := []struct {
		name  string
		fetch func(context.Context, url.Values) (*table.Table, error)
	}{
		{DatasetFishObservations, s.fish.Observations},
		{DatasetFishOperations, s.fish.Operations},
		{DatasetFishIndicators, s.fish.Indicators},
	}
	for _, step := range fishSteps {
		t, err := step.fetch(ctx, byStation)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", step.name, err)
		}
		datasets = append(datasets, export.Dataset{Name: step.name, Table: t})
	}

	selected := url.Values{FieldStationCode: st.Selected}
	analyses := func(ctx context.Context, params url.Values) (*table.Table, error) {
		return s.quality.AnalysesPC(ctx, params, s.config.StartYear, s.config.EndYear)
	}

	qualitySteps := []struct {
		name  string
		fetch func(context.Context, url.Values) (*table.Table, error)
	}{
		{DatasetQualityStations, s.quality.StationsPC},
		{DatasetQualityAnalyses, analyses},
		{DatasetQualityConditions, s.quality.ConditionsEnvPC},
		{DatasetQualityOperations, s.quality.OperationsPC},
	}
	for _, step := range qualitySteps {
		if len(st.Selected) == 0 {
			datasets = append(datasets, export.Dataset{Name: step.name, Table: table.New()})
			continue
		}
		t, err := step.fetch(ctx, selected)
		if err != nil {
			return nil, fmt.Errorf("collect %s: %w", step.name, err)
		}
		datasets = append(datasets, export.Dataset{Name: step.name, Table: t})
	}

	for _, ds := range datasets {
		s.logger.Info().
			Str("dataset", ds.Name).
			Int("rows", ds.Table.Len()).
			Int("columns", len(ds.Table.Columns())).
			Msg("Dataset collected")
	}

	return datasets, nil
}

func (s *Session) riverStations(ctx context.Context, river string) (*table.Table, error) {
	stations, err := s.fish.Stations(ctx, url.Values{FieldRiverLabel: {river}})
	if err != nil {
		return nil, fmt.Errorf("fetch stations: %w", err)
	}
	if stations.Empty() {
		return nil, ErrNoStations
	}
	return stations, nil
}

func stationParams(stations *table.Table) url.Values {
	return url.Values{FieldStationCode: stations.Unique(FieldStationCode)}
}
