package usecase

import (
	"context"
	"fmt"
	"time"

	"RetailMind/internal/domain/models"
)

// fakes shared by the engine tests

type fakeStore struct {
	series map[string]models.SalesSeries
}

func (f *fakeStore) GetDailySales(ctx context.Context, productID string, from, to time.Time) (models.SalesSeries, error) {
	return f.GetLatestDailySales(ctx, productID, 0)
}

func (f *fakeStore) GetLatestDailySales(ctx context.Context, productID string, days int) (models.SalesSeries, error) {
	s, ok := f.series[productID]
	if !ok {
		return models.SalesSeries{ProductID: productID}, nil
	}
	return s, nil
}

type fakeCatalog struct {
	products map[string]models.Product
}

func (f *fakeCatalog) Get(ctx context.Context, productID string) (models.Product, error) {
	p, ok := f.products[productID]
	if !ok {
		return models.Product{}, fmt.Errorf("product %q not found", productID)
	}
	return p, nil
}

func (f *fakeCatalog) List(ctx context.Context) ([]models.Product, error) {
	out := make([]models.Product, 0, len(f.products))
	for _, p := range f.products {
		out = append(out, p)
	}
	return out, nil
}

type noopMetrics struct{}

func (noopMetrics) RecordMessageSent(backend, productID string)      {}
func (noopMetrics) RecordError(kind string)                          {}
func (noopMetrics) RecordLastQuantity(productID string, qty float64) {}
func (noopMetrics) RecordLatency(op string, seconds float64)         {}

type stubElasticity struct {
	sig models.ElasticitySignal
	err error
}

func (s stubElasticity) Detect(ctx context.Context, productID string) (models.ElasticitySignal, error) {
	return s.sig, s.err
}

type stubSeasonality struct {
	sig models.SeasonalitySignal
	err error
}

func (s stubSeasonality) Detect(ctx context.Context, productID string) (models.SeasonalitySignal, error) {
	return s.sig, s.err
}

type stubSynergy struct {
	sig models.SynergySignal
	err error
}

func (s stubSynergy) Detect(ctx context.Context, productID string) (models.SynergySignal, error) {
	return s.sig, s.err
}

func flatSeries(productID string, days int, qty float64) models.SalesSeries {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]models.SalesPoint, days)
	for i := range pts {
		pts[i] = models.SalesPoint{Date: start.AddDate(0, 0, i), Quantity: qty}
	}
	return models.SalesSeries{ProductID: productID, Points: pts}
}

func flatForecast(productID string, days int, qty float64) models.Forecast {
	start := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	pts := make([]models.ForecastPoint, days)
	for i := range pts {
		pts[i] = models.ForecastPoint{
			Date:  start.AddDate(0, 0, i+1),
			Point: qty,
			Lower: qty * 0.8,
			Upper: qty * 1.2,
		}
	}
	return models.Forecast{
		ProductID:   productID,
		Horizon:     days,
		GeneratedAt: time.Now(),
		Method:      models.ForecastMethodSeasonalTrend,
		Points:      pts,
	}
}
