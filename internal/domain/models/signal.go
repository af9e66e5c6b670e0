package models

import "time"

// Detector source names recorded in SignalBundle.Sources.
const (
	SignalSourceElasticity  = "elasticity"
	SignalSourceSeasonality = "seasonality"
	SignalSourceSynergy     = "synergy"
)

// Neutral defaults used when a detector has not run or failed. A missing
// signal is not an error; it just contributes no effect.
const (
	NeutralElasticity  = -1.0
	NeutralBreakFactor = 1.0
)

// ElasticitySignal is the competitive-pricing detector output: percentage
// change in demand per percentage change in price (negative typical).
type ElasticitySignal struct {
	ProductID  string  `json:"product_id"`
	Elasticity float64 `json:"elasticity"`
	Confidence float64 `json:"confidence"`
}

// SeasonalitySignal is the seasonality-break detector output. BreakFactor
// is the ratio of recent demand to the historical seasonal pattern (1.0
// means the pattern is holding).
type SeasonalitySignal struct {
	ProductID   string  `json:"product_id"`
	BreakFactor float64 `json:"break_factor"`
	DeviationPc float64 `json:"deviation_pct"`
}

// SynergySignal is the cross-sell analyzer output: demand lift coefficients
// on partner products attributable to this product.
type SynergySignal struct {
	ProductID string             `json:"product_id"`
	Partners  map[string]float64 `json:"partners"`
}

// SignalBundle is the merged per-product feature bundle the simulation
// engine consumes. Fields default to neutral when a detector is absent.
type SignalBundle struct {
	ProductID       string             `json:"product_id"`
	Elasticity      float64            `json:"elasticity"`
	BreakFactor     float64            `json:"break_factor"`
	SynergyPartners map[string]float64 `json:"synergy_partners,omitempty"`
	Sources         []string           `json:"sources,omitempty"`
	MergedAt        time.Time          `json:"merged_at"`
}

// NeutralBundle returns a bundle with no detector contributions.
func NeutralBundle(productID string) SignalBundle {
	return SignalBundle{
		ProductID:   productID,
		Elasticity:  NeutralElasticity,
		BreakFactor: NeutralBreakFactor,
		MergedAt:    time.Now(),
	}
}
