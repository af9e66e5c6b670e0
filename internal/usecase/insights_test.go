package usecase

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
)

func newInsightGenerator(store *fakeStore, catalog *fakeCatalog) *InsightGenerator {
	forecasts := newForecastService(store)
	risks := NewRiskClassifier(forecasts, catalog, 0.10, 0.50, 30)
	return NewInsightGenerator(risks, forecasts, catalog)
}

func TestInsightStockout(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Milk", UnitCost: 1, UnitPrice: 2, CurrentStock: 20, LeadTimeDays: 7},
	}}
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	g := newInsightGenerator(store, catalog)

	ins, err := g.ForProduct(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierStockoutRisk, ins.Tier)
	assert.Contains(t, ins.Message, "Stock up on Milk")
	assert.Contains(t, ins.Message, "Order at least")
}

func TestInsightOverstock(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Cereal", UnitCost: 2, UnitPrice: 4, CurrentStock: 500, LeadTimeDays: 7},
	}}
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 2)}}
	g := newInsightGenerator(store, catalog)

	ins, err := g.ForProduct(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierOverstockRisk, ins.Tier)
	assert.Contains(t, ins.Message, "Discount Cereal")
}

func TestInsightHealthy(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Bread", UnitCost: 1, UnitPrice: 2, CurrentStock: 350, LeadTimeDays: 7},
	}}
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	g := newInsightGenerator(store, catalog)

	ins, err := g.ForProduct(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Equal(t, models.TierHealthy, ins.Tier)
	assert.Contains(t, ins.Message, "Hold current levels for Bread")
}

func TestInsightLowConfidenceCaveat(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Eggs", UnitCost: 2, UnitPrice: 3, CurrentStock: 10, LeadTimeDays: 7},
	}}
	// too little history: naive fallback, low confidence
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 4, 10)}}
	g := newInsightGenerator(store, catalog)

	ins, err := g.ForProduct(context.Background(), "sku-1")
	require.NoError(t, err)
	assert.Contains(t, ins.Message, "confidence is low")
}

func TestInsightForAllSkipsFailingProducts(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1":  {ID: "sku-1", Name: "Milk", UnitCost: 1, UnitPrice: 2, CurrentStock: 350, LeadTimeDays: 7},
		"sku-no": {ID: "sku-no", Name: "New item", UnitCost: 1, UnitPrice: 2, CurrentStock: 10, LeadTimeDays: 7},
	}}
	// sku-no has no sales at all; it is skipped, not fatal
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	g := newInsightGenerator(store, catalog)

	out, err := g.ForAll(context.Background())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "sku-1", out[0].ProductID)
}

func TestVerdictWording(t *testing.T) {
	up := models.SimulationResult{ProfitDelta: 12.5, StockoutProbDelta: 0.2, Horizon: 7}
	assert.Contains(t, Verdict(up), "raise projected profit by 12.50")
	assert.Contains(t, Verdict(up), "stockout risk up 20%")

	down := models.SimulationResult{ProfitDelta: -3.0, StockoutProbDelta: -0.1, Horizon: 14}
	assert.Contains(t, Verdict(down), "lower projected profit by 3.00")
	assert.Contains(t, Verdict(down), "stockout risk down 10%")

	flat := models.SimulationResult{Horizon: 7, LowConfidence: true}
	v := Verdict(flat)
	assert.Contains(t, v, "unchanged stockout risk")
	assert.True(t, strings.HasSuffix(v, "low-confidence forecast."))
}
