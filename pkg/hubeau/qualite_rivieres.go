package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// River physico-chemical quality endpoints (qualite_rivieres, v2).
const (
	VersionQualiteRivieres = "v2"

	PathStationPC      = "qualite_rivieres/station_pc"
	PathOperationPC    = "qualite_rivieres/operation_pc"
	PathConditionEnvPC = "qualite_rivieres/condition_environnementale_pc"
	PathAnalysePC      = "qualite_rivieres/analyse_pc"
)

// QualiteRivieres exposes the river water quality API.
type QualiteRivieres struct {
	service
}

// NewQualiteRivieres binds c to the river water quality API.
func NewQualiteRivieres(c *client.Client, cfg pagination.Config) *QualiteRivieres {
	return &QualiteRivieres{service: newService(c, VersionQualiteRivieres, cfg)}
}

// StationsPC returns physico-chemical measurement stations.
func (q *QualiteRivieres) StationsPC(ctx context.Context, params url.Values) (*table.Table, error) {
	return q.all(ctx, PathStationPC, params)
}

// OperationsPC returns sampling operations.
func (q *QualiteRivieres) OperationsPC(ctx context.Context, params url.Values) (*table.Table, error) {
	return q.all(ctx, PathOperationPC, params)
}

// ConditionsEnvPC returns environmental conditions recorded at sampling.
func (q *QualiteRivieres) ConditionsEnvPC(ctx context.Context, params url.Values) (*table.Table, error) {
	return q.all(ctx, PathConditionEnvPC, params)
}

// AnalysesPC returns laboratory analyses, fetched one calendar year at a
// time over [startYear, endYear]. The API rejects unbounded analysis queries.
func (q *QualiteRivieres) AnalysesPC(ctx context.Context, params url.Values, startYear, endYear int) (*table.Table, error) {
	return q.byYear(ctx, PathAnalysePC, params, startYear, endYear)
}
