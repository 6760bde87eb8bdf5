package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Drinking water quality endpoints (qualite_eau_potable, v1).
const (
	VersionQualiteEauPotable = "v1"

	PathCommunesUDI  = "qualite_eau_potable/communes_udi"
	PathResultatsDis = "qualite_eau_potable/resultats_dis"
)

// QualiteEauPotable exposes the drinking water sanitary control API.
type QualiteEauPotable struct {
	service
}

// NewQualiteEauPotable binds c to the drinking water API.
func NewQualiteEauPotable(c *client.Client, cfg pagination.Config) *QualiteEauPotable {
	return &QualiteEauPotable{service: newService(c, VersionQualiteEauPotable, cfg)}
}

// CommunesUDI returns the commune to distribution unit mapping.
func (q *QualiteEauPotable) CommunesUDI(ctx context.Context, params url.Values) (*table.Table, error) {
	return q.all(ctx, PathCommunesUDI, params)
}

// ResultatsDis returns sanitary control results.
func (q *QualiteEauPotable) ResultatsDis(ctx context.Context, params url.Values) (*table.Table, error) {
	return q.all(ctx, PathResultatsDis, params)
}
