package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Hydrobiology endpoints (hydrobio, v1).
const (
	VersionHydrobio = "v1"

	PathHydrobioIndices  = "hydrobio/indices"
	PathHydrobioStations = "hydrobio/stations_hydrobio"
	PathHydrobioTaxons   = "hydrobio/taxons"
)

// Hydrobio exposes the hydrobiology API.
type Hydrobio struct {
	service
}

// NewHydrobio binds c to the hydrobiology API.
func NewHydrobio(c *client.Client, cfg pagination.Config) *Hydrobio {
	return &Hydrobio{service: newService(c, VersionHydrobio, cfg)}
}

// Indices returns biological indices.
func (h *Hydrobio) Indices(ctx context.Context, params url.Values) (*table.Table, error) {
	return h.all(ctx, PathHydrobioIndices, params)
}

// Stations returns hydrobiology stations.
func (h *Hydrobio) Stations(ctx context.Context, params url.Values) (*table.Table, error) {
	return h.all(ctx, PathHydrobioStations, params)
}

// Taxons returns taxon lists.
func (h *Hydrobio) Taxons(ctx context.Context, params url.Values) (*table.Table, error) {
	return h.all(ctx, PathHydrobioTaxons, params)
}
