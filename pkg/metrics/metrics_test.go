package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestHook_RecordsFetch(t *testing.T) {
	counter := hubeauFetchTotal.WithLabelValues("fetch_all", "test/hook")
	before := testutil.ToFloat64(counter)

	Hook()("fetch_all", "test/hook", 250*time.Millisecond)

	if got := testutil.ToFloat64(counter) - before; got != 1 {
		t.Errorf("hubeau_fetches_total delta = %v, want 1", got)
	}
}

func TestChain(t *testing.T) {
	var calls []string
	record := func(name string) func(op, endpoint string, d time.Duration) {
		return func(op, endpoint string, d time.Duration) {
			calls = append(calls, name+":"+op)
		}
	}

	Chain(record("a"), nil, record("b"))("fetch_all", "x", time.Second)

	if strings.Join(calls, ",") != "a:fetch_all,b:fetch_all" {
		t.Errorf("calls = %v, want [a:fetch_all b:fetch_all]", calls)
	}
}

func TestMux(t *testing.T) {
	srv := httptest.NewServer(NewMux())
	defer srv.Close()

	tests := []struct {
		path     string
		contains string
	}{
		{"/health", "OK"},
		{"/metrics", "hubeau_fetches_total"},
	}

	Hook()("fetch_all", "test/mux", time.Millisecond)

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			resp, err := http.Get(srv.URL + tt.path)
			if err != nil {
				t.Fatalf("GET %s failed: %v", tt.path, err)
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)

			if resp.StatusCode != http.StatusOK {
				t.Errorf("status = %d, want 200", resp.StatusCode)
			}
			if !strings.Contains(string(body), tt.contains) {
				t.Errorf("body does not contain %q", tt.contains)
			}
		})
	}
}
