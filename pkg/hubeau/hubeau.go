// Package hubeau binds the Hub'Eau API families to named operations.
//
// Every facade pins the API version it was written against and delegates to
// the pagination package, so each method returns the complete result set:
//
//	base, _ := client.New(client.DefaultConfig())
//	fish := hubeau.NewEtatPiscicole(base, pagination.DefaultConfig())
//	stations, err := fish.Stations(ctx, url.Values{
//		"libelle_entite_hydrographique": {"Dordogne"},
//	})
package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// service is the version-bound core shared by all facades.
type service struct {
	client  *client.Client
	fetcher *pagination.Fetcher
}

func newService(c *client.Client, version string, cfg pagination.Config) service {
	bound := c.WithVersion(version)
	return service{
		client:  bound,
		fetcher: pagination.NewFetcher(bound, cfg),
	}
}

// Version returns the API version the facade is bound to.
func (s service) Version() string {
	return s.client.Version()
}

// Endpoint returns the full endpoint for path under the bound version.
func (s service) Endpoint(path string) client.Endpoint {
	return s.client.Endpoint(path)
}

// First issues one unpaginated request, returning at most the API's default
// page of records.
func (s service) First(ctx context.Context, path string, params url.Values) (*table.Table, error) {
	return s.client.Get(ctx, path, params)
}

func (s service) all(ctx context.Context, path string, params url.Values) (*table.Table, error) {
	return s.fetcher.FetchAll(ctx, path, params)
}

func (s service) byYear(ctx context.Context, path string, params url.Values, startYear, endYear int) (*table.Table, error) {
	return s.fetcher.FetchByYearRange(ctx, path, params, startYear, endYear)
}
