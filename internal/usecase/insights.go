package usecase

import (
	"context"
	"fmt"
	"math"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// InsightGenerator renders engine output as short operator-facing
// recommendations. It consumes assessments and simulation results only and
// never reaches back into the data layer for anything but reference data.
type InsightGenerator struct {
	risks     *RiskClassifier
	forecasts *ForecastService
	catalog   drepo.ProductCatalog
}

func NewInsightGenerator(risks *RiskClassifier, forecasts *ForecastService, catalog drepo.ProductCatalog) *InsightGenerator {
	return &InsightGenerator{risks: risks, forecasts: forecasts, catalog: catalog}
}

// Insight is one recommendation with the tier that produced it.
type Insight struct {
	ProductID string          `json:"product_id"`
	Tier      models.RiskTier `json:"tier"`
	Message   string          `json:"message"`
}

// ForProduct produces the recommendation for one product from its current
// risk assessment.
func (g *InsightGenerator) ForProduct(ctx context.Context, productID string) (Insight, error) {
	product, err := g.catalog.Get(ctx, productID)
	if err != nil {
		return Insight{}, err
	}
	assessment, err := g.risks.Assess(ctx, productID)
	if err != nil {
		return Insight{}, err
	}
	return g.render(product, assessment), nil
}

// ForAll produces recommendations for the whole catalog. Products whose
// assessment fails (no sales history yet) are skipped rather than failing
// the batch.
func (g *InsightGenerator) ForAll(ctx context.Context) ([]Insight, error) {
	products, err := g.catalog.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]Insight, 0, len(products))
	for _, p := range products {
		assessment, err := g.risks.Assess(ctx, p.ID)
		if err != nil {
			continue
		}
		out = append(out, g.render(p, assessment))
	}
	return out, nil
}

func (g *InsightGenerator) render(product models.Product, a models.RiskAssessment) Insight {
	msg := ""
	switch a.Tier {
	case models.TierStockoutRisk:
		deficit := int(math.Ceil(a.LeadTimeDemand - float64(a.CurrentStock)))
		if deficit < 1 {
			deficit = 1
		}
		msg = fmt.Sprintf(
			"Stock up on %s: projected %d-day demand of %.0f units exceeds the %d on hand. Order at least %d extra units before the next replenishment.",
			product.Name, a.LeadTimeDays, a.LeadTimeDemand, a.CurrentStock, deficit)
	case models.TierOverstockRisk:
		surplus := int(float64(a.CurrentStock) - a.WindowDemand)
		msg = fmt.Sprintf(
			"Discount %s: %d units on hand against %.0f expected to sell in %d days. A promotion could clear roughly %d excess units.",
			product.Name, a.CurrentStock, a.WindowDemand, a.WindowDays, surplus)
	default:
		msg = fmt.Sprintf(
			"Hold current levels for %s: demand and stock are balanced over the next %d days.",
			product.Name, a.WindowDays)
	}
	if a.LowConfidence {
		msg += " Forecast confidence is low; treat this as a rough estimate."
	}
	return Insight{ProductID: product.ID, Tier: a.Tier, Message: msg}
}

// Verdict summarizes a simulation result in one sentence for the operator.
func Verdict(r models.SimulationResult) string {
	stockout := "unchanged stockout risk"
	switch {
	case r.StockoutProbDelta > 0.001:
		stockout = fmt.Sprintf("stockout risk up %.0f%%", r.StockoutProbDelta*100)
	case r.StockoutProbDelta < -0.001:
		stockout = fmt.Sprintf("stockout risk down %.0f%%", -r.StockoutProbDelta*100)
	}

	var msg string
	switch {
	case r.ProfitDelta > 0:
		msg = fmt.Sprintf("This intervention would raise projected profit by %.2f over %d days with %s.",
			r.ProfitDelta, r.Horizon, stockout)
	case r.ProfitDelta < 0:
		msg = fmt.Sprintf("This intervention would lower projected profit by %.2f over %d days with %s.",
			math.Abs(r.ProfitDelta), r.Horizon, stockout)
	default:
		msg = fmt.Sprintf("This intervention leaves projected profit unchanged over %d days with %s.",
			r.Horizon, stockout)
	}
	if r.LowConfidence {
		msg += " Based on a low-confidence forecast."
	}
	return msg
}
