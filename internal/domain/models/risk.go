package models

import "time"

// RiskTier classifies a product's inventory position.
type RiskTier string

const (
	TierStockoutRisk  RiskTier = "STOCKOUT_RISK"
	TierOverstockRisk RiskTier = "OVERSTOCK_RISK"
	TierHealthy       RiskTier = "HEALTHY"
)

// RiskAssessment is the derived risk classification for one product given
// its latest forecast and current stock. It is recomputed on every call,
// never stored.
type RiskAssessment struct {
	ProductID      string    `json:"product_id"`
	Tier           RiskTier  `json:"tier"`
	Severity       float64   `json:"severity"`
	CurrentStock   int       `json:"current_stock"`
	LeadTimeDays   int       `json:"lead_time_days"`
	LeadTimeDemand float64   `json:"lead_time_demand"`
	WindowDays     int       `json:"window_days"`
	WindowDemand   float64   `json:"window_demand"`
	LowConfidence  bool      `json:"low_confidence"`
	AssessedAt     time.Time `json:"assessed_at"`
}
