package pagination

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Date filter parameters injected per window.
const (
	ParamDateStart = "date_debut_prelevement"
	ParamDateEnd   = "date_fin_prelevement"
)

// Default year range for windowed fetches.
const (
	DefaultStartYear = 1997
	DefaultEndYear   = 2024
)

// DateLayout is the calendar-date format Hub'Eau expects.
const DateLayout = "2006-01-02"

// EmptyWindowPolicy selects the reaction to a window returning no records.
type EmptyWindowPolicy string

const (
	// StopOnEmpty ends the windowed fetch at the first empty year.
	StopOnEmpty EmptyWindowPolicy = "stop"
	// SkipEmpty ignores empty years and keeps going.
	SkipEmpty EmptyWindowPolicy = "skip"
)

// ParseEmptyWindowPolicy accepts "stop" or "skip".
func ParseEmptyWindowPolicy(s string) (EmptyWindowPolicy, error) {
	switch EmptyWindowPolicy(s) {
	case StopOnEmpty, SkipEmpty:
		return EmptyWindowPolicy(s), nil
	default:
		return "", fmt.Errorf("unknown empty window policy %q (want %q or %q)", s, StopOnEmpty, SkipEmpty)
	}
}

// Window is an inclusive date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// String formats the window as "start..end".
func (w Window) String() string {
	return w.Start.Format(DateLayout) + ".." + w.End.Format(DateLayout)
}

// Windows splits [startYear-01-01, endYear-12-31] into consecutive
// calendar-year windows. It returns nil when startYear > endYear.
func Windows(startYear, endYear int) []Window {
	if startYear > endYear {
		return nil
	}

	hardEnd := time.Date(endYear, time.December, 31, 0, 0, 0, 0, time.UTC)
	windows := make([]Window, 0, endYear-startYear+1)

	for cur := time.Date(startYear, time.January, 1, 0, 0, 0, 0, time.UTC); !cur.After(hardEnd); {
		end := time.Date(cur.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
		if end.After(hardEnd) {
			end = hardEnd
		}
		windows = append(windows, Window{Start: cur, End: end})
		cur = end.AddDate(0, 0, 1)
	}

	return windows
}

// FetchByYearRange fetches endpoint one calendar year at a time, oldest
// first, and concatenates the windows in chronological order. Each window is
// delegated to FetchAll with the date filters added to a copy of params.
//
// An empty window ends the fetch under StopOnEmpty and is skipped under
// SkipEmpty. The first error aborts the whole fetch.
func (f *Fetcher) FetchByYearRange(ctx context.Context, endpoint string, params url.Values, startYear, endYear int) (*table.Table, error) {
	start := time.Now()
	defer f.observe(OpFetchByYearRange, endpoint, start)

	result := table.New()

	for _, w := range Windows(startYear, endYear) {
		windowed := cloneParams(params)
		windowed.Set(ParamDateStart, w.Start.Format(DateLayout))
		windowed.Set(ParamDateEnd, w.End.Format(DateLayout))

		part, err := f.FetchAll(ctx, endpoint, windowed)
		if err != nil {
			return nil, fmt.Errorf("window %s: %w", w, err)
		}

		if part.Empty() {
			if f.config.OnEmptyWindow == SkipEmpty {
				f.logger.Warn().
					Str("endpoint", endpoint).
					Stringer("window", w).
					Msg("No data in window, skipping")
				continue
			}
			f.logger.Warn().
				Str("endpoint", endpoint).
				Stringer("window", w).
				Msg("No data in window, stopping")
			break
		}

		result.Concat(part)
		f.logger.Info().
			Str("endpoint", endpoint).
			Stringer("window", w).
			Int("records", part.Len()).
			Int("total", result.Len()).
			Msg("Window fetched")
	}

	return result, nil
}
