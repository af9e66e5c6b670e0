package detectors

import (
	"context"

	"RetailMind/internal/domain/models"
	"RetailMind/pkg/config"
)

// HTTPElasticityDetector calls the competitive-pricing sidecar, which
// regresses demand against observed competitor price moves.
type HTTPElasticityDetector struct {
	*HTTPServiceBase
}

func NewHTTPElasticityDetector(cfg *config.Config) *HTTPElasticityDetector {
	return &HTTPElasticityDetector{HTTPServiceBase: NewHTTPServiceBase(cfg)}
}

type elasticityReq struct {
	ProductID string `json:"product_id"`
}

type elasticityResp struct {
	Elasticity float64 `json:"elasticity"`
	Confidence float64 `json:"confidence"`
}

func (d *HTTPElasticityDetector) Detect(ctx context.Context, productID string) (models.ElasticitySignal, error) {
	var resp elasticityResp
	if err := d.PostJSONWithRetry(ctx, "/elasticity/detect", elasticityReq{ProductID: productID}, &resp, 2); err != nil {
		return models.ElasticitySignal{}, err
	}
	return models.ElasticitySignal{
		ProductID:  productID,
		Elasticity: resp.Elasticity,
		Confidence: resp.Confidence,
	}, nil
}
