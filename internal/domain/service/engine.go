package service

import (
	"context"

	"RetailMind/internal/domain/models"
)

// Forecaster fits a statistical model on a prepared sales series and
// projects demand over a horizon of days. Implementations are swappable;
// nothing downstream depends on the concrete model.
type Forecaster interface {
	FitAndForecast(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error)
}

// ElasticityDetector estimates competitive price elasticity for a product.
type ElasticityDetector interface {
	Detect(ctx context.Context, productID string) (models.ElasticitySignal, error)
}

// SeasonalityDetector flags deviations from the historical seasonal pattern.
type SeasonalityDetector interface {
	Detect(ctx context.Context, productID string) (models.SeasonalitySignal, error)
}

// SynergyDetector reports cross-sell lift coefficients toward partner
// products.
type SynergyDetector interface {
	Detect(ctx context.Context, productID string) (models.SynergySignal, error)
}
