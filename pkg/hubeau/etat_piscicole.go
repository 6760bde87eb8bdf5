package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Fish population endpoints (etat_piscicole, v1).
const (
	VersionEtatPiscicole = "v1"

	PathPiscicoleStations     = "etat_piscicole/stations"
	PathPiscicoleOperations   = "etat_piscicole/operations"
	PathPiscicoleObservations = "etat_piscicole/observations"
	PathPiscicoleIndicators   = "etat_piscicole/indicateurs"
)

// EtatPiscicole exposes the fish population survey API.
type EtatPiscicole struct {
	service
}

// NewEtatPiscicole binds c to the fish population API.
func NewEtatPiscicole(c *client.Client, cfg pagination.Config) *EtatPiscicole {
	return &EtatPiscicole{service: newService(c, VersionEtatPiscicole, cfg)}
}

// Stations returns fishing stations.
func (e *EtatPiscicole) Stations(ctx context.Context, params url.Values) (*table.Table, error) {
	return e.all(ctx, PathPiscicoleStations, params)
}

// Operations returns fishing operations.
func (e *EtatPiscicole) Operations(ctx context.Context, params url.Values) (*table.Table, error) {
	return e.all(ctx, PathPiscicoleOperations, params)
}

// Observations returns individual fish observations.
func (e *EtatPiscicole) Observations(ctx context.Context, params url.Values) (*table.Table, error) {
	return e.all(ctx, PathPiscicoleObservations, params)
}

// Indicators returns computed fish indices per operation.
func (e *EtatPiscicole) Indicators(ctx context.Context, params url.Values) (*table.Table, error) {
	return e.all(ctx, PathPiscicoleIndicators, params)
}
