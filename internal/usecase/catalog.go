package usecase

import (
	"context"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// CatalogQuery is the read side of product reference data for the API.
type CatalogQuery struct {
	catalog drepo.ProductCatalog
}

func NewCatalogQuery(catalog drepo.ProductCatalog) *CatalogQuery {
	return &CatalogQuery{catalog: catalog}
}

func (q *CatalogQuery) List(ctx context.Context) ([]models.Product, error) {
	return q.catalog.List(ctx)
}

func (q *CatalogQuery) Get(ctx context.Context, productID string) (models.Product, error) {
	return q.catalog.Get(ctx, productID)
}
