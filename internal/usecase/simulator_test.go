package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
	"RetailMind/internal/services/forecast"
)

func newForecastService(store *fakeStore) *ForecastService {
	return NewForecastService(
		store,
		forecast.NewSeasonalTrendModel(7, 2, 1.44),
		forecast.NewNaiveModel(30),
		nil,
		noopMetrics{},
		180,
		2*time.Second,
		time.Minute,
	)
}

func newEngine(store *fakeStore, catalog *fakeCatalog, signals *SignalAggregator) *SimulationEngine {
	return NewSimulationEngine(newForecastService(store), signals, catalog, noopMetrics{}, 1.15, -0.90, 5.0)
}

func newAggregator(el stubElasticity, se stubSeasonality, sy stubSynergy) *SignalAggregator {
	return NewSignalAggregator(el, se, sy, noopMetrics{}, time.Minute, time.Second)
}

func defaultCatalog() *fakeCatalog {
	return &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Milk", UnitCost: 1.0, UnitPrice: 2.0, CurrentStock: 10000, LeadTimeDays: 7},
		"sku-2": {ID: "sku-2", Name: "Bread", UnitCost: 0.5, UnitPrice: 1.5, CurrentStock: 10000, LeadTimeDays: 7},
	}}
}

func TestSimulateNeutralInterventionIsIdentity(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	e := newEngine(store, defaultCatalog(), nil)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{}, 7)
	require.NoError(t, err)

	require.Len(t, res.Counterfactual.Points, len(res.Baseline.Points))
	for i := range res.Baseline.Points {
		assert.InDelta(t, res.Baseline.Points[i].Point, res.Counterfactual.Points[i].Point, 1e-9)
	}
	assert.InDelta(t, 0, res.ProfitDelta, 1e-9)
	assert.InDelta(t, 0, res.StockoutProbDelta, 1e-9)
}

func TestSimulatePriceElasticityScenario(t *testing.T) {
	// 60 days flat at 10/day, +10% price, elasticity -1.2: adjusted
	// demand ~ 10 * (1 - 0.12) = 8.8/day.
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	signals := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{ProductID: "sku-1", Elasticity: -1.2, Confidence: 0.9}},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{err: errors.New("down")},
	)
	e := newEngine(store, defaultCatalog(), signals)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: 0.10}, 7)
	require.NoError(t, err)

	for _, p := range res.Counterfactual.Points {
		assert.InDelta(t, 8.8, p.Point, 0.05)
	}
	// price up, volume down: both effects visible, delta well defined
	assert.Greater(t, res.CounterfactualProfit, 0.0)
	unitMarginUp := res.CounterfactualProfit/res.Counterfactual.TotalDemand() > res.BaselineProfit/res.Baseline.TotalDemand()
	assert.True(t, unitMarginUp)
}

func TestSimulateMonotonicityInPriceDelta(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	signals := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{ProductID: "sku-1", Elasticity: -1.0}},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{err: errors.New("down")},
	)
	e := newEngine(store, defaultCatalog(), signals)

	prev := -1.0
	for _, delta := range []float64{0, 0.1, 0.2, 0.5, 0.9} {
		res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: delta}, 7)
		require.NoError(t, err)
		demand := res.Counterfactual.TotalDemand()
		if prev >= 0 {
			assert.LessOrEqual(t, demand, prev, "demand must not rise with price at delta %.2f", delta)
		}
		prev = demand
	}
}

func TestSimulateStockCeiling(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", Name: "Milk", UnitCost: 1.0, UnitPrice: 2.0, CurrentStock: 5, LeadTimeDays: 7},
	}}
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	e := newEngine(store, catalog, nil)

	// Restocking raises the ceiling: counterfactual demand must not drop.
	resLow, err := e.Simulate(context.Background(), "sku-1", models.Intervention{}, 7)
	require.NoError(t, err)
	resHigh, err := e.Simulate(context.Background(), "sku-1", models.Intervention{StockDeltaUnits: 100}, 7)
	require.NoError(t, err)

	assert.GreaterOrEqual(t, resHigh.Counterfactual.TotalDemand(), resLow.Counterfactual.TotalDemand())
	assert.LessOrEqual(t, resHigh.CounterfactualStockoutProb, resLow.BaselineStockoutProb)

	for _, p := range resLow.Counterfactual.Points {
		assert.LessOrEqual(t, p.Point, 5.0)
	}
}

func TestSimulatePromotionLift(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	e := newEngine(store, defaultCatalog(), nil)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PromotionFlag: true}, 7)
	require.NoError(t, err)

	for i, p := range res.Counterfactual.Points {
		assert.InDelta(t, res.Baseline.Points[i].Point*1.15, p.Point, 1e-6)
	}
}

func TestSimulateRejectsOutOfRangePriceDelta(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	e := newEngine(store, defaultCatalog(), nil)

	_, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: -0.95}, 7)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "price_delta_pct", verr.Field)

	_, err = e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: 5.5}, 7)
	require.ErrorAs(t, err, &verr)
}

func TestSimulateRejectsNegativeStock(t *testing.T) {
	catalog := &fakeCatalog{products: map[string]models.Product{
		"sku-1": {ID: "sku-1", UnitCost: 1, UnitPrice: 2, CurrentStock: 10, LeadTimeDays: 7},
	}}
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	e := newEngine(store, catalog, nil)

	_, err := e.Simulate(context.Background(), "sku-1", models.Intervention{StockDeltaUnits: -11}, 7)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "stock_delta_units", verr.Field)
}

func TestSimulateSynergyDepthOne(t *testing.T) {
	// sku-1's partner sku-2 points back at sku-1 with a nonzero lift; the
	// partner run must not ripple further.
	store := &fakeStore{series: map[string]models.SalesSeries{
		"sku-1": flatSeries("sku-1", 60, 10),
		"sku-2": flatSeries("sku-2", 60, 20),
	}}
	signals := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{Elasticity: -1.0}},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{sig: models.SynergySignal{Partners: map[string]float64{"sku-2": 0.5, "sku-1": 0.9}}},
	)
	e := newEngine(store, defaultCatalog(), signals)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: -0.10, PromotionFlag: true}, 7)
	require.NoError(t, err)

	require.Len(t, res.PartnerEffects, 1)
	effect := res.PartnerEffects[0]
	assert.Equal(t, "sku-2", effect.ProductID)
	assert.Equal(t, 0.5, effect.Lift)
	assert.NotZero(t, effect.ProfitDelta)
}

func TestSimulateNeutralSkipsSynergy(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{
		"sku-1": flatSeries("sku-1", 60, 10),
		"sku-2": flatSeries("sku-2", 60, 20),
	}}
	signals := newAggregator(
		stubElasticity{err: errors.New("down")},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{sig: models.SynergySignal{Partners: map[string]float64{"sku-2": 0.5}}},
	)
	e := newEngine(store, defaultCatalog(), signals)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{}, 7)
	require.NoError(t, err)
	assert.Empty(t, res.PartnerEffects)
}

func TestSimulateBreakFactorPreservesIdentity(t *testing.T) {
	// A seasonality break rescales the market for baseline and
	// counterfactual alike; a neutral intervention still changes nothing.
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	signals := newAggregator(
		stubElasticity{err: errors.New("down")},
		stubSeasonality{sig: models.SeasonalitySignal{BreakFactor: 1.4, DeviationPc: 40}},
		stubSynergy{err: errors.New("down")},
	)
	e := newEngine(store, defaultCatalog(), signals)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{}, 7)
	require.NoError(t, err)

	assert.InDelta(t, 0, res.ProfitDelta, 1e-9)
	for i := range res.Baseline.Points {
		assert.InDelta(t, res.Baseline.Points[i].Point, res.Counterfactual.Points[i].Point, 1e-9)
		assert.InDelta(t, 14.0, res.Baseline.Points[i].Point, 0.2)
	}
}

func TestSimulateLowConfidencePropagates(t *testing.T) {
	// 5 days of history: primary model refuses, naive fallback kicks in.
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 5, 10)}}
	e := newEngine(store, defaultCatalog(), nil)

	res, err := e.Simulate(context.Background(), "sku-1", models.Intervention{PriceDeltaPct: 0.10}, 7)
	require.NoError(t, err)
	assert.True(t, res.LowConfidence)
	assert.Equal(t, models.ForecastMethodNaiveMA, res.Baseline.Method)
}
