package pagination

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/ratelimit"
	"github.com/Sternrassler/hubeau-client/pkg/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Query parameter names injected by the fetcher.
const (
	ParamPage = "page"
	ParamSize = "size"
)

// DefaultPageSize is the largest page Hub'Eau serves.
const DefaultPageSize = 5000

// Operation names passed to Hook.
const (
	OpFetchAll         = "fetch_all"
	OpFetchByYearRange = "fetch_by_year_range"
)

var (
	hubeauPagesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubeau_pages_fetched_total",
		Help: "Total non-empty pages fetched by endpoint",
	}, []string{"endpoint"})

	hubeauRecordsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubeau_records_fetched_total",
		Help: "Total records accumulated by endpoint",
	}, []string{"endpoint"})
)

// PageFetcher is the interface the Hub'Eau client must implement for
// single-page fetching. *client.Client satisfies it.
type PageFetcher interface {
	// Fetch issues one request and returns the validated payload.
	Fetch(ctx context.Context, endpoint string, params url.Values) (*client.Payload, error)
}

// Hook observes completed fetch operations. It receives the operation name
// (OpFetchAll, OpFetchByYearRange), the endpoint path and the elapsed time.
type Hook func(op, endpoint string, d time.Duration)

// Config holds fetcher configuration.
type Config struct {
	// PageSize is sent as the size parameter and marks the last page when a
	// response is shorter.
	PageSize int

	// Pacer is waited on between full pages.
	Pacer ratelimit.Pacer

	// OnEmptyWindow decides what FetchByYearRange does with an empty year.
	OnEmptyWindow EmptyWindowPolicy

	// Hook, when set, is called after every FetchAll and FetchByYearRange.
	Hook Hook
}

// DefaultConfig returns the configuration matching the public API limits.
func DefaultConfig() Config {
	return Config{
		PageSize:      DefaultPageSize,
		Pacer:         ratelimit.NewFixedDelay(ratelimit.DefaultPageDelay),
		OnEmptyWindow: StopOnEmpty,
	}
}

// Fetcher accumulates paginated and windowed results.
type Fetcher struct {
	source PageFetcher
	config Config
	logger zerolog.Logger
}

// NewFetcher creates a new fetcher over source.
func NewFetcher(source PageFetcher, config Config) *Fetcher {
	if config.PageSize <= 0 {
		config.PageSize = DefaultPageSize
	}
	if config.Pacer == nil {
		config.Pacer = ratelimit.NewFixedDelay(ratelimit.DefaultPageDelay)
	}
	if config.OnEmptyWindow == "" {
		config.OnEmptyWindow = StopOnEmpty
	}

	return &Fetcher{
		source: source,
		config: config,
		logger: log.With().Str("component", "hubeau-pagination").Logger(),
	}
}

// PageSize returns the configured page size.
func (f *Fetcher) PageSize() int {
	return f.config.PageSize
}

// FetchAll requests every page of endpoint and concatenates the records in
// arrival order. params is never modified.
//
// The loop stops on an empty page, or after a page shorter than PageSize.
// An endpoint that keeps returning full pages is followed indefinitely.
// Any error aborts the fetch; no partial table is returned.
func (f *Fetcher) FetchAll(ctx context.Context, endpoint string, params url.Values) (*table.Table, error) {
	start := time.Now()
	defer f.observe(OpFetchAll, endpoint, start)

	result := table.New()
	size := strconv.Itoa(f.config.PageSize)

	for page := 1; ; page++ {
		paged := cloneParams(params)
		paged.Set(ParamPage, strconv.Itoa(page))
		paged.Set(ParamSize, size)

		payload, err := f.source.Fetch(ctx, endpoint, paged)
		if err != nil {
			f.logger.Error().
				Err(err).
				Str("endpoint", endpoint).
				Int("page", page).
				Str("error_class", string(client.ClassOf(err))).
				Msg("Page fetch failed")
			return nil, fmt.Errorf("fetch %s page %d: %w", endpoint, page, err)
		}

		batch := payload.Data
		if batch.Empty() {
			break
		}

		result.Concat(batch)
		hubeauPagesTotal.WithLabelValues(endpoint).Inc()
		hubeauRecordsTotal.WithLabelValues(endpoint).Add(float64(batch.Len()))

		f.logger.Debug().
			Str("endpoint", endpoint).
			Int("page", page).
			Int("records", batch.Len()).
			Int("total", result.Len()).
			Msg("Page fetched")

		if batch.Len() < f.config.PageSize {
			break
		}

		if err := f.config.Pacer.Wait(ctx); err != nil {
			return nil, fmt.Errorf("fetch %s: wait before page %d: %w", endpoint, page+1, err)
		}
	}

	f.logger.Debug().
		Str("endpoint", endpoint).
		Int("records", result.Len()).
		Dur("duration", time.Since(start)).
		Msg("Fetch complete")

	return result, nil
}

func (f *Fetcher) observe(op, endpoint string, start time.Time) {
	if f.config.Hook != nil {
		f.config.Hook(op, endpoint, time.Since(start))
	}
}

// cloneParams returns a deep copy so injected fields never reach the caller.
func cloneParams(params url.Values) url.Values {
	out := make(url.Values, len(params)+2)
	for k, v := range params {
		out[k] = append([]string(nil), v...)
	}
	return out
}
