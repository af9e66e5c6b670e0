package forecast

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
)

func daily(productID string, start time.Time, quantities ...float64) models.SalesSeries {
	pts := make([]models.SalesPoint, len(quantities))
	for i, q := range quantities {
		pts[i] = models.SalesPoint{Date: start.Add(time.Duration(i) * day), Quantity: q}
	}
	return models.SalesSeries{ProductID: productID, Points: pts}
}

func TestPrepareSortsAndFillsGaps(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := models.SalesSeries{
		ProductID: "sku-1",
		Points: []models.SalesPoint{
			{Date: start.Add(3 * day), Quantity: 7},
			{Date: start, Quantity: 4},
		},
	}

	out, err := Prepare(series)
	require.NoError(t, err)
	require.Equal(t, 4, out.Len())
	assert.Equal(t, 4.0, out.Points[0].Quantity)
	assert.Equal(t, 0.0, out.Points[1].Quantity)
	assert.Equal(t, 0.0, out.Points[2].Quantity)
	assert.Equal(t, 7.0, out.Points[3].Quantity)
	for i := 1; i < out.Len(); i++ {
		assert.Equal(t, day, out.Points[i].Date.Sub(out.Points[i-1].Date))
	}
	// input untouched
	assert.Equal(t, 2, series.Len())
}

func TestPrepareRejectsDuplicateDates(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := models.SalesSeries{
		ProductID: "sku-1",
		Points: []models.SalesPoint{
			{Date: start, Quantity: 4},
			{Date: start, Quantity: 5},
		},
	}

	_, err := Prepare(series)
	var verr *models.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "series", verr.Field)
}

func TestFingerprintChangesWithData(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	a := daily("sku-1", start, 1, 2, 3)
	b := daily("sku-1", start, 1, 2, 4)

	assert.Equal(t, Fingerprint(a), Fingerprint(a))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(daily("sku-2", start, 1, 2, 3)))
}

func TestSeasonalTrendRequiresTwoCycles(t *testing.T) {
	m := NewSeasonalTrendModel(7, 2, 1.44)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := daily("sku-1", start, 5, 6, 5, 4, 5, 6, 5, 4, 5, 6) // 10 < 14 days

	_, err := m.FitAndForecast(context.Background(), series, 7)
	var ierr *models.InsufficientDataError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 10, ierr.Got)
	assert.Equal(t, 14, ierr.Min)
}

func TestSeasonalTrendForecastShape(t *testing.T) {
	m := NewSeasonalTrendModel(7, 2, 1.44)
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	// Four weeks of a stable weekly pattern with a weekend bump.
	week := []float64{10, 10, 10, 10, 12, 20, 22}
	qs := make([]float64, 0, 28)
	for i := 0; i < 4; i++ {
		qs = append(qs, week...)
	}
	series := daily("sku-1", start, qs...)

	fc, err := m.FitAndForecast(context.Background(), series, 14)
	require.NoError(t, err)
	require.Len(t, fc.Points, 14)
	assert.Equal(t, models.ForecastMethodSeasonalTrend, fc.Method)
	assert.False(t, fc.LowConfidence)

	last := series.Last().Date
	for i, p := range fc.Points {
		assert.Equal(t, last.Add(time.Duration(i+1)*day), p.Date)
		assert.GreaterOrEqual(t, p.Point, 0.0)
		assert.LessOrEqual(t, p.Lower, p.Point)
		assert.GreaterOrEqual(t, p.Upper, p.Point)
	}

	// The weekend bump should survive into the projection: Saturday demand
	// forecast above Wednesday.
	assert.Greater(t, fc.Points[5].Point, fc.Points[2].Point)
}

func TestSeasonalTrendNeverNegative(t *testing.T) {
	m := NewSeasonalTrendModel(7, 2, 1.44)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// Steep downward trend that crosses zero inside the horizon.
	qs := make([]float64, 21)
	for i := range qs {
		qs[i] = float64(40 - 2*i)
	}
	series := daily("sku-1", start, qs...)

	fc, err := m.FitAndForecast(context.Background(), series, 30)
	require.NoError(t, err)
	for _, p := range fc.Points {
		assert.GreaterOrEqual(t, p.Point, 0.0)
		assert.GreaterOrEqual(t, p.Lower, 0.0)
	}
}

func TestNaiveModelFlatProjection(t *testing.T) {
	m := NewNaiveModel(30)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := daily("sku-1", start, 8, 12, 10, 10)

	fc, err := m.FitAndForecast(context.Background(), series, 5)
	require.NoError(t, err)
	require.Len(t, fc.Points, 5)
	assert.Equal(t, models.ForecastMethodNaiveMA, fc.Method)
	assert.True(t, fc.LowConfidence)
	for _, p := range fc.Points {
		assert.InDelta(t, 10.0, p.Point, 1e-9)
		assert.LessOrEqual(t, p.Lower, p.Point)
		assert.GreaterOrEqual(t, p.Upper, p.Point)
	}
}

func TestNaiveModelUsesTrailingWindow(t *testing.T) {
	m := NewNaiveModel(3)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := daily("sku-1", start, 100, 100, 100, 1, 2, 3)

	fc, err := m.FitAndForecast(context.Background(), series, 1)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, fc.Points[0].Point, 1e-9)
}

func TestNaiveModelEmptySeries(t *testing.T) {
	m := NewNaiveModel(30)
	_, err := m.FitAndForecast(context.Background(), models.SalesSeries{ProductID: "sku-1"}, 7)
	var ierr *models.InsufficientDataError
	require.ErrorAs(t, err, &ierr)
}

func TestCumulativeDemandExtendsFlat(t *testing.T) {
	m := NewNaiveModel(30)
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	series := daily("sku-1", start, 5, 5, 5, 5)

	fc, err := m.FitAndForecast(context.Background(), series, 3)
	require.NoError(t, err)
	assert.InDelta(t, 15.0, fc.CumulativeDemand(3), 1e-9)
	assert.InDelta(t, 50.0, fc.CumulativeDemand(10), 1e-9)
}
