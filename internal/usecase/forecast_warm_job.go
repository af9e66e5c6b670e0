package usecase

import (
	"context"
	"fmt"

	"RetailMind/pkg/queue"
)

// ForecastWarmJobType is the queue message type for cache warm-up.
const ForecastWarmJobType = "forecast_warm"

// ForecastWarmPayload identifies the product whose forecast should be
// recomputed.
type ForecastWarmPayload struct {
	ProductID string `json:"product_id"`
}

// ForecastWarmJob recomputes a product's forecast in the background after
// fresh sales land, so interactive requests hit a warm cache. The series
// fingerprint in the cache key makes the recompute a natural invalidation.
type ForecastWarmJob struct {
	forecasts *ForecastService
	horizon   int
}

func NewForecastWarmJob(forecasts *ForecastService, horizon int) *ForecastWarmJob {
	if horizon <= 0 {
		horizon = 14
	}
	return &ForecastWarmJob{forecasts: forecasts, horizon: horizon}
}

func (j *ForecastWarmJob) Name() string { return "forecast-warm" }

func (j *ForecastWarmJob) Type() string { return ForecastWarmJobType }

func (j *ForecastWarmJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[ForecastWarmPayload](payload)
	if err != nil {
		return fmt.Errorf("parse warm payload: %w", err)
	}
	if p.ProductID == "" {
		return fmt.Errorf("warm payload missing product id")
	}
	if _, err := j.forecasts.Forecast(ctx, p.ProductID, j.horizon); err != nil {
		return fmt.Errorf("warm forecast %s: %w", p.ProductID, err)
	}
	return nil
}

var _ queue.Job = (*ForecastWarmJob)(nil)
