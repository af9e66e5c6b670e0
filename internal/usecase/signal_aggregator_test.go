package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
)

func TestBundleAllDetectorsDown(t *testing.T) {
	a := newAggregator(
		stubElasticity{err: errors.New("down")},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{err: errors.New("down")},
	)

	b := a.Bundle(context.Background(), "sku-1")
	assert.Equal(t, models.NeutralElasticity, b.Elasticity)
	assert.Equal(t, models.NeutralBreakFactor, b.BreakFactor)
	assert.Empty(t, b.SynergyPartners)
	assert.Empty(t, b.Sources)
}

func TestBundleMergesAvailableSignals(t *testing.T) {
	a := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{ProductID: "sku-1", Elasticity: -1.8, Confidence: 0.7}},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{sig: models.SynergySignal{ProductID: "sku-1", Partners: map[string]float64{"sku-2": 0.3}}},
	)

	b := a.Bundle(context.Background(), "sku-1")
	assert.Equal(t, -1.8, b.Elasticity)
	assert.Equal(t, models.NeutralBreakFactor, b.BreakFactor) // seasonality absent
	assert.Equal(t, map[string]float64{"sku-2": 0.3}, b.SynergyPartners)
	assert.Equal(t, []string{models.SignalSourceElasticity, models.SignalSourceSynergy}, b.Sources)
}

func TestBundleIdempotent(t *testing.T) {
	a := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{Elasticity: -1.5}},
		stubSeasonality{sig: models.SeasonalitySignal{BreakFactor: 1.2}},
		stubSynergy{sig: models.SynergySignal{Partners: map[string]float64{"sku-2": 0.4}}},
	)

	first := a.Bundle(context.Background(), "sku-1")
	second := a.Bundle(context.Background(), "sku-1")

	assert.Equal(t, first.Elasticity, second.Elasticity)
	assert.Equal(t, first.BreakFactor, second.BreakFactor)
	assert.Equal(t, first.SynergyPartners, second.SynergyPartners)
	assert.Equal(t, first.Sources, second.Sources)
	// second call came from cache: MergedAt unchanged
	assert.Equal(t, first.MergedAt, second.MergedAt)
}

func TestBundleInvalidateForcesRefresh(t *testing.T) {
	a := newAggregator(
		stubElasticity{sig: models.ElasticitySignal{Elasticity: -1.5}},
		stubSeasonality{err: errors.New("down")},
		stubSynergy{err: errors.New("down")},
	)

	first := a.Bundle(context.Background(), "sku-1")
	a.Invalidate("sku-1")
	time.Sleep(time.Millisecond)
	second := a.Bundle(context.Background(), "sku-1")

	require.NotEqual(t, first.MergedAt, second.MergedAt)
	assert.Equal(t, first.Elasticity, second.Elasticity)
}

func TestNeutralBundleDefaults(t *testing.T) {
	b := models.NeutralBundle("sku-1")
	assert.Equal(t, -1.0, b.Elasticity)
	assert.Equal(t, 1.0, b.BreakFactor)
	assert.Empty(t, b.SynergyPartners)
}
