package hubeau

import (
	"context"
	"net/url"
	"testing"

	"github.com/Sternrassler/hubeau-client/internal/testutil"
	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/ratelimit"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

func setup(t *testing.T) (*testutil.MockHubEau, *client.Client, pagination.Config) {
	t.Helper()

	mock := testutil.NewMockHubEau()
	t.Cleanup(mock.Close)

	// v9 proves every facade overrides the base client's version
	c, err := client.New(client.Config{BaseURL: mock.BaseURL(), Version: "v9"})
	if err != nil {
		t.Fatalf("client.New() failed: %v", err)
	}
	return mock, c, pagination.Config{PageSize: 100, Pacer: ratelimit.Nop{}}
}

func TestFacades_EndpointBinding(t *testing.T) {
	mock, c, cfg := setup(t)

	fish := NewEtatPiscicole(c, cfg)
	quality := NewQualiteRivieres(c, cfg)
	bio := NewHydrobio(c, cfg)
	services := NewIndicateursServices(c, cfg)
	phyto := NewPhytopharma(c, cfg)
	potable := NewQualiteEauPotable(c, cfg)

	type call func(ctx context.Context, params url.Values) (*table.Table, error)

	tests := []struct {
		name     string
		call     call
		wantPath string
	}{
		{"fish stations", fish.Stations, "/api/v1/etat_piscicole/stations"},
		{"fish operations", fish.Operations, "/api/v1/etat_piscicole/operations"},
		{"fish observations", fish.Observations, "/api/v1/etat_piscicole/observations"},
		{"fish indicators", fish.Indicators, "/api/v1/etat_piscicole/indicateurs"},
		{"quality stations", quality.StationsPC, "/api/v2/qualite_rivieres/station_pc"},
		{"quality operations", quality.OperationsPC, "/api/v2/qualite_rivieres/operation_pc"},
		{"quality conditions", quality.ConditionsEnvPC, "/api/v2/qualite_rivieres/condition_environnementale_pc"},
		{"hydrobio indices", bio.Indices, "/api/v1/hydrobio/indices"},
		{"hydrobio stations", bio.Stations, "/api/v1/hydrobio/stations_hydrobio"},
		{"hydrobio taxons", bio.Taxons, "/api/v1/hydrobio/taxons"},
		{"service communes", services.Communes, "/api/v0/indicateurs_services/communes"},
		{"service services", services.Services, "/api/v0/indicateurs_services/services"},
		{"service indicators", services.Indicators, "/api/v0/indicateurs_services/indicateurs"},
		{"substance sales", phyto.SubstanceSales, "/api/v1/vente_achat_phyto/ventes/substances"},
		{"substance purchases", phyto.SubstancePurchases, "/api/v1/vente_achat_phyto/achats/substances"},
		{"product sales", phyto.ProductSales, "/api/v1/vente_achat_phyto/ventes/produits"},
		{"product purchases", phyto.ProductPurchases, "/api/v1/vente_achat_phyto/achats/produits"},
		{"communes udi", potable.CommunesUDI, "/api/v1/qualite_eau_potable/communes_udi"},
		{"resultats dis", potable.ResultatsDis, "/api/v1/qualite_eau_potable/resultats_dis"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock.Reset()

			got, err := tt.call(context.Background(), url.Values{"code_commune": {"24037"}})
			if err != nil {
				t.Fatalf("call failed: %v", err)
			}
			if !got.Empty() {
				t.Errorf("Len() = %d, want 0", got.Len())
			}

			reqs := mock.Requests()
			if len(reqs) != 1 {
				t.Fatalf("requests = %d, want 1", len(reqs))
			}
			if reqs[0].Path != tt.wantPath {
				t.Errorf("path = %q, want %q", reqs[0].Path, tt.wantPath)
			}
			if reqs[0].Query.Get("code_commune") != "24037" {
				t.Errorf("code_commune = %q, want 24037", reqs[0].Query.Get("code_commune"))
			}
			if reqs[0].Query.Get("page") != "1" || reqs[0].Query.Get("size") != "100" {
				t.Errorf("page/size = %q/%q, want 1/100", reqs[0].Query.Get("page"), reqs[0].Query.Get("size"))
			}
		})
	}
}

func TestQualiteRivieres_AnalysesPCWindowed(t *testing.T) {
	mock, c, cfg := setup(t)
	mock.SetYearly(testutil.Path("v2", PathAnalysePC), map[int]int{2010: 4, 2011: 2})

	quality := NewQualiteRivieres(c, cfg)
	got, err := quality.AnalysesPC(context.Background(), url.Values{"code_station": {"05001000"}}, 2010, 2011)
	if err != nil {
		t.Fatalf("AnalysesPC() failed: %v", err)
	}

	if got.Len() != 6 {
		t.Errorf("Len() = %d, want 6", got.Len())
	}
	for _, req := range mock.Requests() {
		if req.Query.Get(pagination.ParamDateStart) == "" {
			t.Errorf("request %v has no date window", req.Query)
		}
	}
}

func TestService_VersionAndEndpoint(t *testing.T) {
	_, c, cfg := setup(t)

	tests := []struct {
		name    string
		version string
		want    string
	}{
		{"etat piscicole", NewEtatPiscicole(c, cfg).Version(), "v1"},
		{"qualite rivieres", NewQualiteRivieres(c, cfg).Version(), "v2"},
		{"indicateurs services", NewIndicateursServices(c, cfg).Version(), "v0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.version != tt.want {
				t.Errorf("Version() = %q, want %q", tt.version, tt.want)
			}
		})
	}

	if c.Version() != "v9" {
		t.Errorf("base client version changed to %q", c.Version())
	}

	ep := NewQualiteRivieres(c, cfg).Endpoint(PathAnalysePC)
	if ep.Version != "v2" || ep.Path != PathAnalysePC {
		t.Errorf("Endpoint() = %+v", ep)
	}
}

func TestService_First(t *testing.T) {
	mock, c, cfg := setup(t)
	mock.SetPages(testutil.Path("v1", PathPiscicoleStations),
		testutil.Records(2, map[string]any{"code_station": "S1"}))

	got, err := NewEtatPiscicole(c, cfg).First(context.Background(), PathPiscicoleStations, nil)
	if err != nil {
		t.Fatalf("First() failed: %v", err)
	}
	if got.Len() != 2 {
		t.Errorf("Len() = %d, want 2", got.Len())
	}
	if q := mock.Requests()[0].Query; q.Get("page") != "" {
		t.Errorf("First() should not paginate, got page=%q", q.Get("page"))
	}
}
