package models

// Intervention is a proposed business action scoped to one product and one
// horizon. It never mutates the Product; it exists only for the duration of
// a simulation call.
type Intervention struct {
	PriceDeltaPct   float64 `json:"price_delta_pct"`   // fraction, e.g. 0.10 = +10%
	StockDeltaUnits int     `json:"stock_delta_units"` // additional (or removed) units
	PromotionFlag   bool    `json:"promotion_flag"`
}

// IsNeutral reports whether the intervention changes nothing.
func (iv Intervention) IsNeutral() bool {
	return iv.PriceDeltaPct == 0 && iv.StockDeltaUnits == 0 && !iv.PromotionFlag
}

// PartnerEffect summarizes the depth-1 ripple of an intervention onto a
// synergy partner product.
type PartnerEffect struct {
	ProductID   string  `json:"product_id"`
	Lift        float64 `json:"lift"`
	ProfitDelta float64 `json:"profit_delta"`
	DemandDelta float64 `json:"demand_delta"`
}

// SimulationResult contrasts the counterfactual projection under an
// intervention against the baseline (no-intervention) projection. Ephemeral:
// returned to the caller and discarded.
type SimulationResult struct {
	ProductID      string       `json:"product_id"`
	Intervention   Intervention `json:"intervention"`
	Horizon        int          `json:"horizon"`
	Baseline       Forecast     `json:"baseline"`
	Counterfactual Forecast     `json:"counterfactual"`

	BaselineProfit       float64 `json:"baseline_profit"`
	CounterfactualProfit float64 `json:"counterfactual_profit"`
	ProfitDelta          float64 `json:"profit_delta"`

	BaselineStockoutProb       float64 `json:"baseline_stockout_prob"`
	CounterfactualStockoutProb float64 `json:"counterfactual_stockout_prob"`
	StockoutProbDelta          float64 `json:"stockout_prob_delta"`

	PartnerEffects []PartnerEffect `json:"partner_effects,omitempty"`
	LowConfidence  bool            `json:"low_confidence"`
}
