package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
)

func newRiskClassifier() *RiskClassifier {
	return NewRiskClassifier(nil, nil, 0.10, 0.50, 30)
}

func TestClassifyStockoutScenario(t *testing.T) {
	c := newRiskClassifier()
	// 7-day lead-time demand of 80 against 50 on hand
	fc := flatForecast("sku-1", 7, 80.0/7)

	out := c.Classify(fc, 50, 7)
	assert.Equal(t, models.TierStockoutRisk, out.Tier)
	assert.InDelta(t, 0.6, out.Severity, 0.01)
	assert.InDelta(t, 80, out.LeadTimeDemand, 0.01)
}

func TestClassifyOverstock(t *testing.T) {
	c := newRiskClassifier()
	// 30-day demand of 30 against 100 on hand: surplus ratio 2.33
	fc := flatForecast("sku-1", 30, 1)

	out := c.Classify(fc, 100, 7)
	assert.Equal(t, models.TierOverstockRisk, out.Tier)
	assert.InDelta(t, (100.0-30.0)/30.0, out.Severity, 0.01)
}

func TestClassifyHealthy(t *testing.T) {
	c := newRiskClassifier()
	// 30-day demand of 300, 7-day demand 70, stock 200: neither trigger
	fc := flatForecast("sku-1", 30, 10)

	out := c.Classify(fc, 200, 7)
	assert.Equal(t, models.TierHealthy, out.Tier)
	assert.Zero(t, out.Severity)
}

func TestClassifyStockoutPrecedence(t *testing.T) {
	c := newRiskClassifier()
	// Front-loaded demand: the stockout check runs before the overstock
	// check, so a lead-window deficit always wins.
	fc := flatForecast("sku-1", 7, 100)
	tail := flatForecast("sku-1", 23, 0)
	fc.Points = append(fc.Points, tail.Points...)
	fc.Horizon = 30

	out := c.Classify(fc, 300, 7)
	assert.Equal(t, models.TierStockoutRisk, out.Tier)
}

func TestClassifyDeterministic(t *testing.T) {
	c := newRiskClassifier()
	fc := flatForecast("sku-1", 30, 3)

	a := c.Classify(fc, 40, 7)
	b := c.Classify(fc, 40, 7)
	assert.Equal(t, a.Tier, b.Tier)
	assert.Equal(t, a.Severity, b.Severity)
}

func TestClassifyZeroStock(t *testing.T) {
	c := newRiskClassifier()
	fc := flatForecast("sku-1", 7, 5)

	out := c.Classify(fc, 0, 7)
	assert.Equal(t, models.TierStockoutRisk, out.Tier)
	assert.Equal(t, 1.0, out.Severity)
}

func TestClassifyExtendsShortHorizonFlat(t *testing.T) {
	c := newRiskClassifier()
	// 7-day forecast at 10/day, classified over a 30-day surplus window:
	// window demand extends flat to 300.
	fc := flatForecast("sku-1", 7, 10)

	out := c.Classify(fc, 200, 7)
	assert.InDelta(t, 300, out.WindowDemand, 0.01)
}

func TestClassifyPropagatesLowConfidence(t *testing.T) {
	c := newRiskClassifier()
	fc := flatForecast("sku-1", 7, 5)
	fc.LowConfidence = true

	out := c.Classify(fc, 100, 7)
	assert.True(t, out.LowConfidence)
}

func TestStockoutProbability(t *testing.T) {
	fc := flatForecast("sku-1", 10, 10)

	// stock 45: cumulative demand passes 45 on day 5 of 10
	assert.InDelta(t, 0.6, StockoutProbability(fc, 45), 0.01)
	// stock beyond total demand: never short
	assert.Zero(t, StockoutProbability(fc, 1000))
	// zero stock: short every day
	assert.InDelta(t, 1.0, StockoutProbability(fc, 0), 0.001)

	require.Zero(t, StockoutProbability(models.Forecast{}, 10))
}
