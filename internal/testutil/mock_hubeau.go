// Package testutil provides testing utilities for the Hub'Eau client.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock Hub'Eau endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
}

// Request is one request received by the mock.
type Request struct {
	Path  string
	Query url.Values
}

// MockHubEau is a configurable mock Hub'Eau server for testing.
// Handlers are keyed by the full request path, e.g. "/api/v1/etat_piscicole/stations".
type MockHubEau struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	requests []Request

	LastRequestHeader http.Header
}

// NewMockHubEau creates a new mock Hub'Eau server.
func NewMockHubEau() *MockHubEau {
	mock := &MockHubEau{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests = append(mock.requests, Request{Path: r.URL.Path, Query: r.URL.Query()})
		mock.LastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockHubEau) URL() string {
	return m.server.URL
}

// BaseURL returns the API root to configure clients with.
func (m *MockHubEau) BaseURL() string {
	return m.server.URL + "/api"
}

// Close shuts down the mock server.
func (m *MockHubEau) Close() {
	m.server.Close()
}

// Reset clears the request log.
func (m *MockHubEau) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests = nil
	m.LastRequestHeader = nil
}

// Path returns the request path for endpoint under version.
func Path(version, endpoint string) string {
	return "/api/" + version + "/" + endpoint
}

// SetHandler sets a custom handler for a specific path.
func (m *MockHubEau) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockHubEau) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetPages serves pages[i] when page=i+1 is requested and an empty data list
// beyond the last page.
func (m *MockHubEau) SetPages(path string, pages ...[]map[string]any) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		var records []map[string]any
		if page <= len(pages) {
			records = pages[page-1]
		}
		writeResponse(w, NewDataResponse(records...))
	})
}

// SetYearly serves perYear[year] generated records for the window whose
// date_debut_prelevement falls in year. Paging is honoured with the size
// parameter.
func (m *MockHubEau) SetYearly(path string, perYear map[int]int) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		start, err := time.Parse("2006-01-02", q.Get("date_debut_prelevement"))
		if err != nil {
			writeResponse(w, NewErrorResponse(http.StatusBadRequest, "date_debut_prelevement is required"))
			return
		}
		page, _ := strconv.Atoi(q.Get("page"))
		size, _ := strconv.Atoi(q.Get("size"))
		if page < 1 {
			page = 1
		}
		if size < 1 {
			size = 5000
		}

		total := perYear[start.Year()]
		from := (page - 1) * size
		to := min(from+size, total)

		records := make([]map[string]any, 0, max(to-from, 0))
		for i := from; i < to; i++ {
			records = append(records, map[string]any{
				"code_station":     "S1",
				"date_prelevement": fmt.Sprintf("%d-06-01", start.Year()),
				"resultat":         i,
			})
		}
		writeResponse(w, NewDataResponse(records...))
	})
}

// Requests returns a copy of the request log.
func (m *MockHubEau) Requests() []Request {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]Request, len(m.requests))
	copy(out, m.requests)
	return out
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockHubEau) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.requests)
}

// defaultHandler answers unknown endpoints like Hub'Eau does for an empty
// selection.
func (m *MockHubEau) defaultHandler(w http.ResponseWriter, _ *http.Request) {
	writeResponse(w, NewDataResponse())
}

func writeResponse(w http.ResponseWriter, resp MockResponse) {
	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}
	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// Records generates n records with a running "id" field and the given
// constant fields.
func Records(n int, fields map[string]any) []map[string]any {
	out := make([]map[string]any, n)
	for i := range out {
		rec := map[string]any{"id": i}
		for k, v := range fields {
			rec[k] = v
		}
		out[i] = rec
	}
	return out
}

// NewDataResponse creates a 200 OK response wrapping records in a Hub'Eau
// envelope.
func NewDataResponse(records ...map[string]any) MockResponse {
	if records == nil {
		records = []map[string]any{}
	}
	body, _ := json.Marshal(map[string]any{
		"count":       len(records),
		"first":       "",
		"next":        nil,
		"api_version": "1.0.0",
		"data":        records,
	})
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewErrorResponse creates an error response with a Hub'Eau error payload.
func NewErrorResponse(status int, message string) MockResponse {
	body, _ := json.Marshal(map[string]any{
		"status":  "error",
		"code":    status,
		"message": message,
	})
	return MockResponse{
		StatusCode: status,
		Body:       string(body),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewGatewayErrorResponse creates a 502 with an HTML body, as returned by the
// reverse proxy in front of the API.
func NewGatewayErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusBadGateway,
		Body:       "<html><body><h1>502 Bad Gateway</h1></body></html>",
		Headers: map[string]string{
			"Content-Type": "text/html",
		},
	}
}
