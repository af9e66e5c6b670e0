package usecase

import (
	"context"
	"fmt"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// RiskClassifier derives an inventory risk tier from a forecast and the
// product's current stock position. Classification itself is pure and
// deterministic; Assess wraps it with forecast and catalog lookups.
type RiskClassifier struct {
	forecasts *ForecastService
	catalog   drepo.ProductCatalog

	safetyMargin      float64 // stockout trigger, fraction over stock
	surplusMargin     float64 // overstock trigger, fraction over demand
	surplusWindowDays int
}

func NewRiskClassifier(forecasts *ForecastService, catalog drepo.ProductCatalog, safetyMargin, surplusMargin float64, surplusWindowDays int) *RiskClassifier {
	if safetyMargin <= 0 {
		safetyMargin = 0.10
	}
	if surplusMargin <= 0 {
		surplusMargin = 0.50
	}
	if surplusWindowDays <= 0 {
		surplusWindowDays = 30
	}
	return &RiskClassifier{
		forecasts:         forecasts,
		catalog:           catalog,
		safetyMargin:      safetyMargin,
		surplusMargin:     surplusMargin,
		surplusWindowDays: surplusWindowDays,
	}
}

// Assess fetches the latest forecast for a product and classifies its risk.
func (c *RiskClassifier) Assess(ctx context.Context, productID string) (models.RiskAssessment, error) {
	product, err := c.catalog.Get(ctx, productID)
	if err != nil {
		return models.RiskAssessment{}, fmt.Errorf("catalog lookup %s: %w", productID, err)
	}

	horizon := c.surplusWindowDays
	if product.LeadTimeDays > horizon {
		horizon = product.LeadTimeDays
	}
	fc, err := c.forecasts.Forecast(ctx, productID, horizon)
	if err != nil {
		return models.RiskAssessment{}, err
	}

	return c.Classify(fc, product.CurrentStock, product.LeadTimeDays), nil
}

// Classify applies the tier rules. Demand over the lead-time window beyond
// stock plus the safety margin means stockout; stock beyond window demand
// plus the surplus margin means overstock; stockout wins when both hold.
// Windows longer than the forecast horizon are extended flat at the final
// point estimate.
func (c *RiskClassifier) Classify(fc models.Forecast, currentStock, leadTimeDays int) models.RiskAssessment {
	if leadTimeDays <= 0 {
		leadTimeDays = 7
	}
	leadDemand := fc.CumulativeDemand(leadTimeDays)
	windowDemand := fc.CumulativeDemand(c.surplusWindowDays)

	out := models.RiskAssessment{
		ProductID:      fc.ProductID,
		Tier:           models.TierHealthy,
		CurrentStock:   currentStock,
		LeadTimeDays:   leadTimeDays,
		LeadTimeDemand: leadDemand,
		WindowDays:     c.surplusWindowDays,
		WindowDemand:   windowDemand,
		LowConfidence:  fc.LowConfidence,
		AssessedAt:     time.Now(),
	}

	stock := float64(currentStock)
	if currentStock <= 0 && leadDemand > 0 {
		out.Tier = models.TierStockoutRisk
		out.Severity = 1
		return out
	}
	if stock > 0 && leadDemand > stock*(1+c.safetyMargin) {
		out.Tier = models.TierStockoutRisk
		out.Severity = (leadDemand - stock) / stock
		return out
	}
	if windowDemand > 0 && stock > windowDemand*(1+c.surplusMargin) {
		out.Tier = models.TierOverstockRisk
		out.Severity = (stock - windowDemand) / windowDemand
		return out
	}
	return out
}

// StockoutProbability is the simulator's probability proxy: the fraction of
// horizon days whose cumulative point demand exceeds the available stock.
func StockoutProbability(fc models.Forecast, stock int) float64 {
	if len(fc.Points) == 0 {
		return 0
	}
	available := float64(stock)
	cum := 0.0
	short := 0
	for _, p := range fc.Points {
		cum += p.Point
		if cum > available {
			short++
		}
	}
	return float64(short) / float64(len(fc.Points))
}
