package hubeau

import (
	"context"
	"net/url"

	"github.com/Sternrassler/hubeau-client/pkg/client"
	"github.com/Sternrassler/hubeau-client/pkg/pagination"
	"github.com/Sternrassler/hubeau-client/pkg/table"
)

// Plant protection product sales endpoints (vente_achat_phyto, v1).
const (
	VersionPhytopharma = "v1"

	PathSubstanceSales     = "vente_achat_phyto/ventes/substances"
	PathSubstancePurchases = "vente_achat_phyto/achats/substances"
	PathProductSales       = "vente_achat_phyto/ventes/produits"
	PathProductPurchases   = "vente_achat_phyto/achats/produits"
)

// Phytopharma exposes the plant protection product sales and purchases API.
type Phytopharma struct {
	service
}

// NewPhytopharma binds c to the sales and purchases API.
func NewPhytopharma(c *client.Client, cfg pagination.Config) *Phytopharma {
	return &Phytopharma{service: newService(c, VersionPhytopharma, cfg)}
}

func (p *Phytopharma) SubstanceSales(ctx context.Context, params url.Values) (*table.Table, error) {
	return p.all(ctx, PathSubstanceSales, params)
}

func (p *Phytopharma) SubstancePurchases(ctx context.Context, params url.Values) (*table.Table, error) {
	return p.all(ctx, PathSubstancePurchases, params)
}

func (p *Phytopharma) ProductSales(ctx context.Context, params url.Values) (*table.Table, error) {
	return p.all(ctx, PathProductSales, params)
}

func (p *Phytopharma) ProductPurchases(ctx context.Context, params url.Values) (*table.Table, error) {
	return p.all(ctx, PathProductPurchases, params)
}
