package models

import "time"

// Product is the reference data for one SKU. It is read-only for the
// duration of a computation; price/stock updates happen between runs.
type Product struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	UnitCost     float64 `json:"unit_cost"`
	UnitPrice    float64 `json:"unit_price"`
	CurrentStock int     `json:"current_stock"`
	LeadTimeDays int     `json:"lead_time_days"`
}

// Margin returns the per-unit margin at the listed price.
func (p Product) Margin() float64 { return p.UnitPrice - p.UnitCost }

// SalesPoint is one day of observed sales for a product.
type SalesPoint struct {
	Date     time.Time `json:"date"`
	Quantity float64   `json:"quantity"`
}

// SalesSeries is the chronological daily sales history of one product.
// Points must be sorted ascending with no duplicate dates; gap days are
// filled as zero sales before model fitting (see services/forecast).
type SalesSeries struct {
	ProductID string       `json:"product_id"`
	Points    []SalesPoint `json:"points"`
}

// Len returns the number of observed days.
func (s SalesSeries) Len() int { return len(s.Points) }

// Last returns the most recent point, or a zero point for an empty series.
func (s SalesSeries) Last() SalesPoint {
	if len(s.Points) == 0 {
		return SalesPoint{}
	}
	return s.Points[len(s.Points)-1]
}

// SaleEvent is a raw point-of-sale record before daily aggregation.
type SaleEvent struct {
	ProductID string  `json:"product_id"`
	Timestamp int64   `json:"ts"` // unix seconds
	Quantity  float64 `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
}
