package detectors

import (
	"context"

	"RetailMind/internal/domain/models"
	"RetailMind/pkg/config"
)

// HTTPSynergyDetector calls the cross-sell sidecar, which mines basket
// co-occurrence into per-partner lift coefficients.
type HTTPSynergyDetector struct {
	*HTTPServiceBase
}

func NewHTTPSynergyDetector(cfg *config.Config) *HTTPSynergyDetector {
	return &HTTPSynergyDetector{HTTPServiceBase: NewHTTPServiceBase(cfg)}
}

type synergyReq struct {
	ProductID string `json:"product_id"`
}

type synergyResp struct {
	Partners map[string]float64 `json:"partners"`
}

func (d *HTTPSynergyDetector) Detect(ctx context.Context, productID string) (models.SynergySignal, error) {
	var resp synergyResp
	if err := d.PostJSONWithRetry(ctx, "/synergy/detect", synergyReq{ProductID: productID}, &resp, 2); err != nil {
		return models.SynergySignal{}, err
	}
	return models.SynergySignal{
		ProductID: productID,
		Partners:  resp.Partners,
	}, nil
}
