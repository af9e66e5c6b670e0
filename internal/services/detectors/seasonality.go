package detectors

import (
	"context"

	"RetailMind/internal/domain/models"
	"RetailMind/pkg/config"
)

// HTTPSeasonalityDetector calls the seasonality-break sidecar, which
// compares the recent demand window against the historical day-of-week
// profile.
type HTTPSeasonalityDetector struct {
	*HTTPServiceBase
}

func NewHTTPSeasonalityDetector(cfg *config.Config) *HTTPSeasonalityDetector {
	return &HTTPSeasonalityDetector{HTTPServiceBase: NewHTTPServiceBase(cfg)}
}

type seasonalityReq struct {
	ProductID string `json:"product_id"`
}

type seasonalityResp struct {
	BreakFactor float64 `json:"break_factor"`
	DeviationPc float64 `json:"deviation_pct"`
}

func (d *HTTPSeasonalityDetector) Detect(ctx context.Context, productID string) (models.SeasonalitySignal, error) {
	var resp seasonalityResp
	if err := d.PostJSONWithRetry(ctx, "/seasonality/detect", seasonalityReq{ProductID: productID}, &resp, 2); err != nil {
		return models.SeasonalitySignal{}, err
	}
	return models.SeasonalitySignal{
		ProductID:   productID,
		BreakFactor: resp.BreakFactor,
		DeviationPc: resp.DeviationPc,
	}, nil
}
