// Package metrics provides the Prometheus registry, fetch timing hook and
// metrics endpoint for the Hub'Eau client.
// Request-level metrics are defined in their respective packages (client,
// pagination, ratelimit) to maintain modularity and avoid circular dependencies.
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// Registry is the default Prometheus registry used by the Hub'Eau client.
// All metrics are automatically registered via promauto in their respective packages.
var Registry = prometheus.DefaultRegisterer

var (
	hubeauFetchDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "hubeau_fetch_duration_seconds",
		Help:    "Duration of paginated and windowed fetches",
		Buckets: []float64{0.1, 0.5, 1, 5, 15, 30, 60, 180, 600},
	}, []string{"op", "endpoint"})

	hubeauFetchTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "hubeau_fetches_total",
		Help: "Completed fetch operations",
	}, []string{"op", "endpoint"})
)

// Hook returns a fetch observer recording durations in
// hubeau_fetch_duration_seconds. It is assignable to pagination.Hook.
func Hook() func(op, endpoint string, d time.Duration) {
	return func(op, endpoint string, d time.Duration) {
		hubeauFetchDuration.WithLabelValues(op, endpoint).Observe(d.Seconds())
		hubeauFetchTotal.WithLabelValues(op, endpoint).Inc()
	}
}

// Chain combines fetch observers. Nil entries are ignored.
func Chain(hooks ...func(op, endpoint string, d time.Duration)) func(op, endpoint string, d time.Duration) {
	return func(op, endpoint string, d time.Duration) {
		for _, h := range hooks {
			if h != nil {
				h(op, endpoint, d)
			}
		}
	}
}

// NewMux returns a mux serving /metrics and /health.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/health", healthHandler)
	return mux
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK")
}

// Serve exposes NewMux on addr until ctx is done.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewMux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("component", "metrics").Str("addr", addr).Msg("Serving metrics")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("metrics server: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - hubeau_requests_total{endpoint, status} (Counter): Requests by endpoint and HTTP status
//   - hubeau_request_duration_seconds{endpoint} (Histogram): Request duration by endpoint
//   - hubeau_errors_total{class} (Counter): Errors by class (transport, malformed, remote)
//
// Pagination Metrics (pkg/pagination):
//   - hubeau_pages_fetched_total{endpoint} (Counter): Non-empty pages fetched
//   - hubeau_records_fetched_total{endpoint} (Counter): Records accumulated
//
// Pacing Metrics (pkg/ratelimit):
//   - hubeau_pacer_wait_seconds (Histogram): Time spent waiting between pages
//
// Fetch Metrics (pkg/metrics, via Hook):
//   - hubeau_fetch_duration_seconds{op, endpoint} (Histogram): FetchAll/FetchByYearRange duration
//   - hubeau_fetches_total{op, endpoint} (Counter): Completed fetch operations
//
// Example Prometheus Queries:
//
//   # Remote error rate
//   rate(hubeau_errors_total{class="remote"}[5m])
//
//   # P95 request latency
//   histogram_quantile(0.95, rate(hubeau_request_duration_seconds_bucket[5m]))
//
//   # Records per page
//   rate(hubeau_records_fetched_total[5m]) / rate(hubeau_pages_fetched_total[5m])
