package forecast

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"RetailMind/internal/domain/models"
)

// NaiveModel is the fallback: a flat projection at the trailing moving
// average, with one standard deviation of the same window as the interval.
// It never fails on non-empty input, which is what makes it a safe fallback.
type NaiveModel struct {
	Window int // trailing days averaged, 30 by default
}

func NewNaiveModel(window int) *NaiveModel {
	if window <= 0 {
		window = 30
	}
	return &NaiveModel{Window: window}
}

// FitAndForecast projects the trailing mean flat over the horizon. The only
// error case is an empty series.
func (m *NaiveModel) FitAndForecast(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return models.Forecast{}, err
	}
	if series.Len() == 0 {
		return models.Forecast{}, &models.InsufficientDataError{ProductID: series.ProductID, Got: 0, Min: 1}
	}

	start := series.Len() - m.Window
	if start < 0 {
		start = 0
	}
	window := make([]float64, 0, series.Len()-start)
	for _, p := range series.Points[start:] {
		window = append(window, p.Quantity)
	}

	mean, sigma := stat.MeanStdDev(window, nil)
	if len(window) < 2 || !isFinite(sigma) {
		sigma = 0
	}
	if mean < 0 || !isFinite(mean) {
		mean = 0
	}

	last := series.Last().Date
	points := make([]models.ForecastPoint, 0, horizon)
	for h := 1; h <= horizon; h++ {
		points = append(points, models.ForecastPoint{
			Date:  last.Add(time.Duration(h) * day),
			Point: mean,
			Lower: math.Max(0, mean-sigma),
			Upper: mean + sigma,
		})
	}

	return models.Forecast{
		ProductID:     series.ProductID,
		Horizon:       horizon,
		GeneratedAt:   time.Now(),
		Method:        models.ForecastMethodNaiveMA,
		Points:        points,
		LowConfidence: true,
	}, nil
}
