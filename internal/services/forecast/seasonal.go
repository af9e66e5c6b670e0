package forecast

import (
	"context"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"RetailMind/internal/domain/models"
)

// SeasonalTrendModel is the primary demand model: an additive linear trend
// fitted with least squares, multiplied by day-of-cycle seasonal indices
// (weekly by default). Interval width comes from the spread of in-sample
// residuals.
type SeasonalTrendModel struct {
	CycleDays int     // seasonal period, 7 for weekly
	MinCycles int     // minimum full cycles of history required
	IntervalZ float64 // half-width multiplier on residual stddev
}

// NewSeasonalTrendModel returns a weekly model with an ~85% interval.
func NewSeasonalTrendModel(cycleDays, minCycles int, intervalZ float64) *SeasonalTrendModel {
	if cycleDays <= 0 {
		cycleDays = 7
	}
	if minCycles <= 0 {
		minCycles = 2
	}
	if intervalZ <= 0 {
		intervalZ = 1.44
	}
	return &SeasonalTrendModel{CycleDays: cycleDays, MinCycles: minCycles, IntervalZ: intervalZ}
}

// FitAndForecast fits trend and seasonal indices on the series and projects
// horizon days past the last observation. Returns InsufficientDataError when
// history covers fewer than MinCycles full cycles and ModelFitError when the
// fit diverges, so callers can fall back to the naive model.
func (m *SeasonalTrendModel) FitAndForecast(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error) {
	if err := ctx.Err(); err != nil {
		return models.Forecast{}, err
	}

	minDays := m.CycleDays * m.MinCycles
	if series.Len() < minDays {
		return models.Forecast{}, &models.InsufficientDataError{
			ProductID: series.ProductID,
			Got:       series.Len(),
			Min:       minDays,
		}
	}

	n := series.Len()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, p := range series.Points {
		xs[i] = float64(i)
		ys[i] = p.Quantity
	}

	alpha, beta := stat.LinearRegression(xs, ys, nil, false)
	if !isFinite(alpha) || !isFinite(beta) {
		return models.Forecast{}, &models.ModelFitError{ProductID: series.ProductID, Reason: "trend regression diverged"}
	}

	indices, err := m.seasonalIndices(series, alpha, beta)
	if err != nil {
		return models.Forecast{}, err
	}

	// Residual spread on the in-sample fit drives the interval width.
	residuals := make([]float64, n)
	for i := range ys {
		fitted := (alpha + beta*xs[i]) * indices[i%m.CycleDays]
		residuals[i] = ys[i] - fitted
	}
	_, sigma := stat.MeanStdDev(residuals, nil)
	if !isFinite(sigma) {
		sigma = 0
	}
	half := m.IntervalZ * sigma

	last := series.Points[n-1].Date
	points := make([]models.ForecastPoint, 0, horizon)
	for h := 1; h <= horizon; h++ {
		x := float64(n - 1 + h)
		point := (alpha + beta*x) * indices[(n-1+h)%m.CycleDays]
		if !isFinite(point) {
			return models.Forecast{}, &models.ModelFitError{ProductID: series.ProductID, Reason: "projection diverged"}
		}
		if point < 0 {
			point = 0
		}
		points = append(points, models.ForecastPoint{
			Date:  last.Add(time.Duration(h) * day),
			Point: point,
			Lower: math.Max(0, point-half),
			Upper: point + half,
		})
	}

	return models.Forecast{
		ProductID:   series.ProductID,
		Horizon:     horizon,
		GeneratedAt: time.Now(),
		Method:      models.ForecastMethodSeasonalTrend,
		Points:      points,
	}, nil
}

// seasonalIndices computes per-day-of-cycle multiplicative indices as the
// average ratio of observed demand to the trend line, normalized to mean 1.
func (m *SeasonalTrendModel) seasonalIndices(series models.SalesSeries, alpha, beta float64) ([]float64, error) {
	sums := make([]float64, m.CycleDays)
	counts := make([]int, m.CycleDays)
	for i, p := range series.Points {
		trend := alpha + beta*float64(i)
		if trend <= 0 {
			continue
		}
		slot := i % m.CycleDays
		sums[slot] += p.Quantity / trend
		counts[slot]++
	}

	indices := make([]float64, m.CycleDays)
	total := 0.0
	seen := 0
	for i := range indices {
		if counts[i] == 0 {
			indices[i] = 1
		} else {
			indices[i] = sums[i] / float64(counts[i])
		}
		if !isFinite(indices[i]) {
			return nil, &models.ModelFitError{ProductID: series.ProductID, Reason: "seasonal index diverged"}
		}
		total += indices[i]
		seen++
	}

	// Normalize so the indices redistribute demand across the cycle
	// without changing its total.
	mean := total / float64(seen)
	if mean <= 0 || !isFinite(mean) {
		return nil, &models.ModelFitError{ProductID: series.ProductID, Reason: "degenerate seasonal profile"}
	}
	for i := range indices {
		indices[i] /= mean
	}
	return indices, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
