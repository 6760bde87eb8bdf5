package integration

import (
	"archive/zip"
	"context"
	"net/http"
	"path/filepath"
	"sort"
	"strings"
	"testing"

	"github.com/Sternrassler/hubeau-client/internal/testutil"
	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/export"
	"github.com/Sternrassler/hubeau-client/pkg/hubeau"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/ratelimit"
	"github.com/Sternrassler/hubeau-client/pkg/session"
)

// testTransport redirects requests for the public API host to the mock server.
type testTransport struct {
	mockServer *testutil.MockHubEau
}

func (t *testTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req.URL.Scheme = "http"
	if req.URL.Host == "" || req.URL.Host == "hubeau.eaufrance.fr" {
		req.URL.Host = strings.TrimPrefix(t.mockServer.URL(), "http://")
	}
	return http.DefaultTransport.RoundTrip(req)
}

func newClient(t *testing.T, mock *testutil.MockHubEau) *client.Client {
	t.Helper()

	cfg := client.DefaultConfig()
	cfg.HTTPClient = &http.Client{Transport: &testTransport{mockServer: mock}}

	c, err := client.New(cfg)
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}
	return c
}

func seedVezere(mock *testutil.MockHubEau) {
	stations := make([]map[string]any, 0, 3)
	for i, label := range []string{"Montignac", "Les Eyzies", "Limeuil"} {
		stations = append(stations, map[string]any{
			"code_station":                  "0500" + string(rune('1'+i)),
			"libelle_station":               label,
			"libelle_entite_hydrographique": "Vézère",
			"latitude":                      45.06 - float64(i)/10,
			"longitude":                     1.16 - float64(i)/10,
		})
	}

	mock.SetPages(testutil.Path("v1", hubeau.PathPiscicoleStations), stations)
	mock.SetPages(testutil.Path("v1", hubeau.PathPiscicoleOperations),
		testutil.Records(4, map[string]any{"code_station": "05001", "code_operation": "OP1"}))
	mock.SetPages(testutil.Path("v1", hubeau.PathPiscicoleObservations),
		testutil.Records(6, map[string]any{"code_station": "05002", "code_operation": "OP2"}))
	mock.SetPages(testutil.Path("v1", hubeau.PathPiscicoleIndicators),
		testutil.Records(2, map[string]any{"code_station": "05001", "ipr": 9.2}))
	mock.SetPages(testutil.Path("v2", hubeau.PathStationPC),
		testutil.Records(1, map[string]any{"code_station": "05001"}))
	mock.SetPages(testutil.Path("v2", hubeau.PathOperationPC),
		testutil.Records(3, map[string]any{"code_station": "05001"}))
	mock.SetYearly(testutil.Path("v2", hubeau.PathAnalysePC), map[int]int{2018: 5, 2019: 7, 2020: 2})
}

// TestFullExportFlow runs search, selection, collection and export against the mock API.
func TestFullExportFlow(t *testing.T) {
	mock := testutil.NewMockHubEau()
	defer mock.Close()
	seedVezere(mock)

	c := newClient(t, mock)
	paging := pagination.Config{PageSize: 4, Pacer: ratelimit.Nop{}}
	sess := session.New(
		hubeau.NewEtatPiscicole(c, paging),
		hubeau.NewQualiteRivieres(c, paging),
		session.Config{StartYear: 2018, EndYear: 2021},
	)
	ctx := context.Background()

	st, err := sess.Search(ctx, "Vézère")
	if err != nil {
		t.Fatalf("Search() failed: %v", err)
	}
	if len(st.Summary) != 3 {
		t.Fatalf("stations = %d, want 3", len(st.Summary))
	}

	statePath := filepath.Join(t.TempDir(), "session.json")
	if err := st.Save(statePath); err != nil {
		t.Fatalf("Save() failed: %v", err)
	}
	st, err = session.Load(statePath)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if err := st.Select([]string{"Montignac"}, nil); err != nil {
		t.Fatalf("Select() failed: %v", err)
	}
	st.Validate()

	mock.Reset()
	datasets, err := sess.Collect(ctx, st)
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}

	sizes := make(map[string]int, len(datasets))
	for _, ds := range datasets {
		sizes[ds.Name] = ds.Table.Len()
	}
	want := map[string]int{
		session.DatasetFishStations:      3,
		session.DatasetFishObservations:  6,
		session.DatasetFishOperations:    4,
		session.DatasetFishIndicators:    2,
		session.DatasetQualityStations:   1,
		session.DatasetQualityAnalyses:   14,
		session.DatasetQualityConditions: 0,
		session.DatasetQualityOperations: 3,
	}
	for name, n := range want {
		if sizes[name] != n {
			t.Errorf("%s rows = %d, want %d", name, sizes[name], n)
		}
	}

	// 2021 is empty: the windowed fetch stops there
	for _, req := range mock.Requests() {
		if strings.HasSuffix(req.Path, hubeau.PathAnalysePC) {
			if code := req.Query.Get(session.FieldStationCode); code != "05001" {
				t.Errorf("analyse_pc code_station = %q, want 05001", code)
			}
		}
	}

	outDir := t.TempDir()
	res, err := export.Export(outDir, st.River, datasets)
	if err != nil {
		t.Fatalf("Export() failed: %v", err)
	}
	if res.Archive != filepath.Join(outDir, "Vézère_donnees.zip") {
		t.Errorf("Archive = %q", res.Archive)
	}

	zr, err := zip.OpenReader(res.Archive)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
	}
	sort.Strings(names)

	wantNames := []string{
		"Poissons/poissons_indicateurs.csv",
		"Poissons/poissons_observations.csv",
		"Poissons/poissons_operations.csv",
		"Poissons/poissons_stations.csv",
		"Qualite des Cours d'Eau/qualite_eau_analyse_pc.csv",
		"Qualite des Cours d'Eau/qualite_eau_condition_env_pc.csv",
		"Qualite des Cours d'Eau/qualite_eau_operation_pc.csv",
		"Qualite des Cours d'Eau/qualite_eau_station_pc.csv",
	}
	if strings.Join(names, "|") != strings.Join(wantNames, "|") {
		t.Errorf("archive entries = %v, want %v", names, wantNames)
	}
}

// TestUpstreamFailure checks that an API error surfaces unchanged through the session.
func TestUpstreamFailure(t *testing.T) {
	mock := testutil.NewMockHubEau()
	defer mock.Close()
	mock.SetResponse(testutil.Path("v1", hubeau.PathPiscicoleStations), testutil.NewGatewayErrorResponse())

	c := newClient(t, mock)
	paging := pagination.Config{PageSize: 4, Pacer: ratelimit.Nop{}}
	sess := session.New(hubeau.NewEtatPiscicole(c, paging), hubeau.NewQualiteRivieres(c, paging), session.DefaultConfig())

	_, err := sess.Search(context.Background(), "Vézère")
	if client.ClassOf(err) != client.ErrorClassMalformed {
		t.Errorf("ClassOf(%v) = %q, want %q", err, client.ClassOf(err), client.ErrorClassMalformed)
	}
}
