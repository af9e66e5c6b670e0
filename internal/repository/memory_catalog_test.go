package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/pkg/config"
)

func seedCatalog() *MemoryCatalog {
	c := NewMemoryCatalog([]config.ProductSeed{
		{ID: "Milk", Name: "Whole Milk 1L", Category: "dairy", UnitCost: 1.60, UnitPrice: 2.49, CurrentStock: 100, LeadTimeDays: 2},
		{ID: "bread", Name: "Sourdough Loaf", Category: "bakery", UnitCost: 1.10, UnitPrice: 1.99, CurrentStock: 50, LeadTimeDays: 1},
	})
	return c.(*MemoryCatalog)
}

func TestCatalogGetNormalizesID(t *testing.T) {
	c := seedCatalog()

	p, err := c.Get(context.Background(), "  MILK ")
	require.NoError(t, err)
	assert.Equal(t, "milk", p.ID)
	assert.Equal(t, 100, p.CurrentStock)
}

func TestCatalogGetUnknown(t *testing.T) {
	c := seedCatalog()

	_, err := c.Get(context.Background(), "caviar")
	assert.Error(t, err)
}

func TestCatalogListSorted(t *testing.T) {
	c := seedCatalog()

	list, err := c.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "bread", list[0].ID)
	assert.Equal(t, "milk", list[1].ID)
}

func TestCatalogUpdateStock(t *testing.T) {
	c := seedCatalog()

	require.NoError(t, c.UpdateStock("milk", -40))
	p, err := c.Get(context.Background(), "milk")
	require.NoError(t, err)
	assert.Equal(t, 60, p.CurrentStock)

	assert.Error(t, c.UpdateStock("milk", -100), "stock cannot go negative")
	assert.Error(t, c.UpdateStock("caviar", 1))
}
