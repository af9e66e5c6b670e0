package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"RetailMind/internal/domain/models"
	"RetailMind/internal/domain/repository"
	"RetailMind/pkg/config"
	"RetailMind/pkg/util"
)

// MemoryCatalog is an in-memory ProductCatalog seeded from configuration.
// Reference data is small and changes between deployments, not requests, so
// a config-backed map is enough; a SQL-backed catalog can replace this
// behind the same interface.
type MemoryCatalog struct {
	mu       sync.RWMutex
	products map[string]models.Product
}

// NewMemoryCatalog builds a catalog from config product seeds.
func NewMemoryCatalog(seeds []config.ProductSeed) repository.ProductCatalog {
	m := make(map[string]models.Product, len(seeds))
	for _, s := range seeds {
		id := util.NormalizeProductID(s.ID)
		m[id] = models.Product{
			ID:           id,
			Name:         s.Name,
			Category:     s.Category,
			UnitCost:     s.UnitCost,
			UnitPrice:    s.UnitPrice,
			CurrentStock: s.CurrentStock,
			LeadTimeDays: s.LeadTimeDays,
		}
	}
	return &MemoryCatalog{products: m}
}

func (c *MemoryCatalog) Get(ctx context.Context, productID string) (models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.products[util.NormalizeProductID(productID)]
	if !ok {
		return models.Product{}, fmt.Errorf("product %q not found", productID)
	}
	return p, nil
}

func (c *MemoryCatalog) List(ctx context.Context) ([]models.Product, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Product, 0, len(c.products))
	for _, p := range c.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// UpdateStock adjusts a product's stock level, used when an operator
// commits an intervention between runs.
func (c *MemoryCatalog) UpdateStock(productID string, delta int) error {
	productID = util.NormalizeProductID(productID)
	c.mu.Lock()
	defer c.mu.Unlock()
	p, ok := c.products[productID]
	if !ok {
		return fmt.Errorf("product %q not found", productID)
	}
	if p.CurrentStock+delta < 0 {
		return fmt.Errorf("stock for %q cannot go negative", productID)
	}
	p.CurrentStock += delta
	c.products[productID] = p
	return nil
}
