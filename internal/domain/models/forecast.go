package models

import "time"

// Forecast methods (which model produced the points).
const (
	ForecastMethodSeasonalTrend = "seasonal_trend"
	ForecastMethodNaiveMA       = "naive_ma"
)

// ForecastPoint is one projected day. Invariants: Point >= 0 and
// Lower <= Point <= Upper.
type ForecastPoint struct {
	Date  time.Time `json:"date"`
	Point float64   `json:"point"`
	Lower float64   `json:"lower"`
	Upper float64   `json:"upper"`
}

// Forecast is the demand projection for one product over a horizon of days.
// LowConfidence marks forecasts produced by the naive fallback (too little
// history, model divergence, or fit timeout).
type Forecast struct {
	ProductID     string          `json:"product_id"`
	Horizon       int             `json:"horizon"`
	GeneratedAt   time.Time       `json:"generated_at"`
	Method        string          `json:"method"`
	Points        []ForecastPoint `json:"points"`
	LowConfidence bool            `json:"low_confidence"`
}

// CumulativeDemand sums point estimates over the first n days. When the
// horizon is shorter than n the tail is extended flat at the final point
// estimate, so risk windows longer than the forecast stay well defined.
func (f Forecast) CumulativeDemand(n int) float64 {
	if n <= 0 || len(f.Points) == 0 {
		return 0
	}
	total := 0.0
	for i := 0; i < n; i++ {
		if i < len(f.Points) {
			total += f.Points[i].Point
		} else {
			total += f.Points[len(f.Points)-1].Point
		}
	}
	return total
}

// TotalDemand sums point estimates over the whole horizon.
func (f Forecast) TotalDemand() float64 {
	total := 0.0
	for _, p := range f.Points {
		total += p.Point
	}
	return total
}
