package usecase

import (
	"context"
	"fmt"
	"sort"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// SimulationEngine contrasts a hypothetical intervention against the
// no-intervention baseline. It never refits a model for the counterfactual:
// the intervention is a deterministic adjustment layered on the baseline
// forecast, so the effect stays auditable and simulation stays cheap.
type SimulationEngine struct {
	forecasts *ForecastService
	signals   *SignalAggregator
	catalog   drepo.ProductCatalog
	metrics   drepo.Metrics

	promotionLift float64
	priceDeltaMin float64
	priceDeltaMax float64
}

func NewSimulationEngine(
	forecasts *ForecastService,
	signals *SignalAggregator,
	catalog drepo.ProductCatalog,
	metrics drepo.Metrics,
	promotionLift, priceDeltaMin, priceDeltaMax float64,
) *SimulationEngine {
	if promotionLift <= 0 {
		promotionLift = 1.15
	}
	if priceDeltaMin >= priceDeltaMax {
		priceDeltaMin, priceDeltaMax = -0.90, 5.0
	}
	return &SimulationEngine{
		forecasts:     forecasts,
		signals:       signals,
		catalog:       catalog,
		metrics:       metrics,
		promotionLift: promotionLift,
		priceDeltaMin: priceDeltaMin,
		priceDeltaMax: priceDeltaMax,
	}
}

// Simulate runs the full pipeline: validate, baseline forecast, signal
// merge, counterfactual adjustment, profit and stockout deltas, and depth-1
// synergy propagation.
func (e *SimulationEngine) Simulate(ctx context.Context, productID string, iv models.Intervention, horizon int) (models.SimulationResult, error) {
	start := time.Now()

	product, err := e.catalog.Get(ctx, productID)
	if err != nil {
		return models.SimulationResult{}, fmt.Errorf("catalog lookup %s: %w", productID, err)
	}
	if err := e.validate(product, iv, horizon); err != nil {
		return models.SimulationResult{}, err
	}

	baseFc, err := e.forecasts.Forecast(ctx, productID, horizon)
	if err != nil {
		return models.SimulationResult{}, err
	}

	bundle := e.neutralOrSignals(ctx, productID)

	result := e.run(product, baseFc, iv, bundle)

	// Depth-1 synergy ripple: partner simulations run with a neutral
	// bundle so a partner pointing back can never cascade further.
	if len(bundle.SynergyPartners) > 0 && !iv.IsNeutral() {
		result.PartnerEffects = e.propagate(ctx, productID, iv, horizon, bundle.SynergyPartners)
	}

	if e.metrics != nil {
		e.metrics.RecordLatency("simulate", time.Since(start).Seconds())
	}
	return result, nil
}

// run applies the adjustment pipeline for one product. Pure.
func (e *SimulationEngine) run(product models.Product, baseFc models.Forecast, iv models.Intervention, bundle models.SignalBundle) models.SimulationResult {
	// The seasonality break factor describes the market, not the
	// intervention, so it rescales baseline and counterfactual alike. A
	// neutral intervention therefore reproduces the baseline exactly.
	baseline := scaleForecast(baseFc, bundle.BreakFactor)
	baseline = capForecast(baseline, float64(product.CurrentStock))

	counter := scaleForecast(baseFc, bundle.BreakFactor)
	counter.Points = adjustPoints(counter.Points, iv, bundle.Elasticity, e.promotionLift, float64(product.CurrentStock+iv.StockDeltaUnits))

	basePrice := product.UnitPrice
	counterPrice := product.UnitPrice * (1 + iv.PriceDeltaPct)

	baseProfit := baseline.TotalDemand() * (basePrice - product.UnitCost)
	counterProfit := counter.TotalDemand() * (counterPrice - product.UnitCost)

	baseProb := StockoutProbability(baseline, product.CurrentStock)
	counterProb := StockoutProbability(counter, product.CurrentStock+iv.StockDeltaUnits)

	return models.SimulationResult{
		ProductID:      product.ID,
		Intervention:   iv,
		Horizon:        baseFc.Horizon,
		Baseline:       baseline,
		Counterfactual: counter,

		BaselineProfit:       baseProfit,
		CounterfactualProfit: counterProfit,
		ProfitDelta:          counterProfit - baseProfit,

		BaselineStockoutProb:       baseProb,
		CounterfactualStockoutProb: counterProb,
		StockoutProbDelta:          counterProb - baseProb,

		LowConfidence: baseFc.LowConfidence,
	}
}

// propagate computes the depth-1 ripple of an intervention onto synergy
// partners. Partners are visited in sorted order for deterministic output;
// their own synergy maps are ignored, which makes the loop cycle safe by
// construction.
func (e *SimulationEngine) propagate(ctx context.Context, sourceID string, iv models.Intervention, horizon int, partners map[string]float64) []models.PartnerEffect {
	ids := make([]string, 0, len(partners))
	for id, lift := range partners {
		if id == sourceID || lift == 0 {
			continue
		}
		ids = append(ids, id)
	}
	sort.Strings(ids)

	effects := make([]models.PartnerEffect, 0, len(ids))
	for _, id := range ids {
		lift := partners[id]
		partner, err := e.catalog.Get(ctx, id)
		if err != nil {
			if e.metrics != nil {
				e.metrics.RecordError("synergy_partner_lookup")
			}
			continue
		}
		partnerFc, err := e.forecasts.Forecast(ctx, id, horizon)
		if err != nil {
			if e.metrics != nil {
				e.metrics.RecordError("synergy_partner_forecast")
			}
			continue
		}

		scaled := models.Intervention{
			PriceDeltaPct: iv.PriceDeltaPct * lift,
			PromotionFlag: iv.PromotionFlag,
		}
		sub := e.run(partner, partnerFc, scaled, models.NeutralBundle(id))
		effects = append(effects, models.PartnerEffect{
			ProductID:   id,
			Lift:        lift,
			ProfitDelta: sub.ProfitDelta,
			DemandDelta: sub.Counterfactual.TotalDemand() - sub.Baseline.TotalDemand(),
		})
	}
	return effects
}

func (e *SimulationEngine) validate(product models.Product, iv models.Intervention, horizon int) error {
	if horizon < 1 || horizon > 365 {
		return &models.ValidationError{Field: "horizon", Reason: "must be between 1 and 365"}
	}
	if iv.PriceDeltaPct < e.priceDeltaMin || iv.PriceDeltaPct > e.priceDeltaMax {
		return &models.ValidationError{
			Field:  "price_delta_pct",
			Reason: fmt.Sprintf("must be within [%.2f, %.2f]", e.priceDeltaMin, e.priceDeltaMax),
		}
	}
	if product.CurrentStock+iv.StockDeltaUnits < 0 {
		return &models.ValidationError{
			Field:  "stock_delta_units",
			Reason: fmt.Sprintf("would drive stock below zero (current %d)", product.CurrentStock),
		}
	}
	return nil
}

func (e *SimulationEngine) neutralOrSignals(ctx context.Context, productID string) models.SignalBundle {
	if e.signals == nil {
		return models.NeutralBundle(productID)
	}
	return e.signals.Bundle(ctx, productID)
}

// adjustPoints applies the fixed-order adjustment rules to every day:
// price effect, promotion lift, stock ceiling, clamp at zero.
func adjustPoints(points []models.ForecastPoint, iv models.Intervention, elasticity, promotionLift, stockCeiling float64) []models.ForecastPoint {
	out := make([]models.ForecastPoint, len(points))
	for i, p := range points {
		factor := 1 + iv.PriceDeltaPct*elasticity
		if factor < 0 {
			factor = 0
		}
		if iv.PromotionFlag {
			factor *= promotionLift
		}
		p.Point *= factor
		p.Lower *= factor
		p.Upper *= factor
		if p.Point > stockCeiling {
			p.Point = stockCeiling
		}
		if p.Lower > p.Point {
			p.Lower = p.Point
		}
		if p.Point < 0 {
			p.Point = 0
		}
		if p.Lower < 0 {
			p.Lower = 0
		}
		out[i] = p
	}
	return out
}

// scaleForecast multiplies every point by a market-level factor.
func scaleForecast(fc models.Forecast, factor float64) models.Forecast {
	if factor == 1 {
		cp := fc
		cp.Points = append([]models.ForecastPoint(nil), fc.Points...)
		return cp
	}
	cp := fc
	cp.Points = make([]models.ForecastPoint, len(fc.Points))
	for i, p := range fc.Points {
		p.Point *= factor
		p.Lower *= factor
		p.Upper *= factor
		cp.Points[i] = p
	}
	return cp
}

// capForecast applies the daily sell-through ceiling of available stock.
func capForecast(fc models.Forecast, ceiling float64) models.Forecast {
	for i := range fc.Points {
		if fc.Points[i].Point > ceiling {
			fc.Points[i].Point = ceiling
		}
		if fc.Points[i].Lower > fc.Points[i].Point {
			fc.Points[i].Lower = fc.Points[i].Point
		}
	}
	return fc
}
