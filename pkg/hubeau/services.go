package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Water and sanitation service indicator endpoints (indicateurs_services, v0).
const (
	VersionIndicateursServices = "v0"

	PathServicesCommunes   = "indicateurs_services/communes"
	PathServicesServices   = "indicateurs_services/services"
	PathServicesIndicators = "indicateurs_services/indicateurs"
)

// IndicateursServices exposes the public water service indicators API.
type IndicateursServices struct {
	service
}

// NewIndicateursServices binds c to the service indicators API.
func NewIndicateursServices(c *client.Client, cfg pagination.Config) *IndicateursServices {
	return &IndicateursServices{service: newService(c, VersionIndicateursServices, cfg)}
}

// Communes returns indicators aggregated per commune.
func (s *IndicateursServices) Communes(ctx context.Context, params url.Values) (*table.Table, error) {
	return s.all(ctx, PathServicesCommunes, params)
}

// Services returns indicators per service.
func (s *IndicateursServices) Services(ctx context.Context, params url.Values) (*table.Table, error) {
	return s.all(ctx, PathServicesServices, params)
}

// Indicators returns the indicator catalogue values.
func (s *IndicateursServices) Indicators(ctx context.Context, params url.Values) (*table.Table, error) {
	return s.all(ctx, PathServicesIndicators, params)
}
