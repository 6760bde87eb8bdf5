// Package session holds the river-exploration workflow: search a river's
// fishing stations, summarize them, select stations, then collect the eight
// export datasets.
//
// Every step takes and returns an explicit State, so a CLI can persist it
// between invocations:
//
//	st, err := s.Search(ctx, "dordogne")
//	err = st.Select([]string{"La Dordogne à Bergerac"}, nil)
//	st.Validate()
//	datasets, err := s.Collect(ctx, st)
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

var (
	// ErrNoStations is returned when a river search yields no station.
	ErrNoStations = errors.New("no stations found for this river")

	// ErrNotValidated is returned when collecting before the selection is validated.
	ErrNotValidated = errors.New("station selection has not been validated")

	// ErrNoSession is returned by Load when no state file exists.
	ErrNoSession = errors.New("no saved session")
)

// State is the caller-owned workflow state.
type State struct {
	River     string           `json:"river"`
	Summary   []StationSummary `json:"summary"`
	Selected  []string         `json:"selected"`
	Validated bool             `json:"validated"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// UnknownStationError reports selection entries matching no station.
type UnknownStationError struct {
	Names []string
}

func (e *UnknownStationError) Error() string {
	return fmt.Sprintf("unknown stations: %v", e.Names)
}

// Select replaces the selection with the stations matching labels (see
// StationSummary.DisplayLabel) or codes. A label shared by several stations
// selects all of them. Selecting resets validation.
func (st *State) Select(labels, codes []string) error {
	byLabel := make(map[string][]string)
	byCode := make(map[string]struct{})
	for _, s := range st.Summary {
		byLabel[s.DisplayLabel()] = append(byLabel[s.DisplayLabel()], s.Code)
		byCode[s.Code] = struct{}{}
	}

	var selected, unknown []string
	seen := make(map[string]struct{})
	add := func(code string) {
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		selected = append(selected, code)
	}

	for _, label := range labels {
		matched, ok := byLabel[label]
		if !ok {
			unknown = append(unknown, label)
			continue
		}
		for _, code := range matched {
			add(code)
		}
	}
	for _, code := range codes {
		if _, ok := byCode[code]; !ok {
			unknown = append(unknown, code)
			continue
		}
		add(code)
	}

	if len(unknown) > 0 {
		return &UnknownStationError{Names: unknown}
	}

	st.Selected = selected
	st.Validated = false
	return nil
}

// Validate marks the current selection as final.
func (st *State) Validate() {
	st.Validated = true
}

// Labels returns the selectable station labels in summary order, without
// duplicates.
func (st *State) Labels() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, s := range st.Summary {
		label := s.DisplayLabel()
		if _, ok := seen[label]; ok || label == "" {
			continue
		}
		seen[label] = struct{}{}
		out = append(out, label)
	}
	return out
}

// Save writes the state as JSON to path, creating parent directories.
func (st *State) Save(path string) error {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}

	st.UpdatedAt = time.Now().UTC()
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

// Load reads a state saved by Save. A missing file yields ErrNoSession.
func Load(path string) (*State, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("decode session %s: %w", path, err)
	}
	return &st, nil
}
