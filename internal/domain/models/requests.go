package models

// Requests for engine HTTP endpoints. Defined in domain for consistency and reuse.

type ForecastRequest struct {
	ProductID string `query:"product_id" json:"product_id" validate:"required"`
	Horizon   int    `query:"horizon" json:"horizon" default:"14" validate:"gte=1,lte=365"`
}

type RiskRequest struct {
	ProductID string `query:"product_id" json:"product_id" validate:"required"`
}

type SimulateRequest struct {
	ProductID    string `json:"product_id" validate:"required"`
	Horizon      int    `json:"horizon" default:"14" validate:"gte=1,lte=365"`
	Intervention struct {
		PriceDeltaPct   float64 `json:"price_delta_pct" validate:"gte=-0.90,lte=5.0"`
		StockDeltaUnits int     `json:"stock_delta_units"`
		PromotionFlag   bool    `json:"promotion_flag"`
	} `json:"intervention"`
}

type InsightsRequest struct {
	ProductID string `query:"product_id" json:"product_id"`
	Horizon   int    `query:"horizon" json:"horizon" default:"14" validate:"gte=1,lte=365"`
}
