package usecase

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
	domsvc "RetailMind/internal/domain/service"
	"RetailMind/internal/services/forecast"
	pkgcache "RetailMind/pkg/cache"
)

func TestForecastHappyPath(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	svc := newForecastService(store)

	fc, err := svc.Forecast(context.Background(), "sku-1", 14)
	require.NoError(t, err)
	assert.Equal(t, models.ForecastMethodSeasonalTrend, fc.Method)
	assert.False(t, fc.LowConfidence)
	require.Len(t, fc.Points, 14)
	for _, p := range fc.Points {
		assert.GreaterOrEqual(t, p.Point, 0.0)
		assert.LessOrEqual(t, p.Lower, p.Point)
		assert.GreaterOrEqual(t, p.Upper, p.Point)
	}
}

func TestForecastFallsBackOnShortSeries(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 5, 10)}}
	svc := newForecastService(store)

	fc, err := svc.Forecast(context.Background(), "sku-1", 7)
	require.NoError(t, err)
	assert.Equal(t, models.ForecastMethodNaiveMA, fc.Method)
	assert.True(t, fc.LowConfidence)
}

func TestForecastEmptySeriesSurfaces(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{}}
	svc := newForecastService(store)

	_, err := svc.Forecast(context.Background(), "sku-unknown", 7)
	var ierr *models.InsufficientDataError
	require.ErrorAs(t, err, &ierr)
}

func TestForecastValidatesHorizon(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	svc := newForecastService(store)

	var verr *models.ValidationError
	_, err := svc.Forecast(context.Background(), "sku-1", 0)
	require.ErrorAs(t, err, &verr)
	_, err = svc.Forecast(context.Background(), "sku-1", 366)
	require.ErrorAs(t, err, &verr)
	_, err = svc.Forecast(context.Background(), "", 7)
	require.ErrorAs(t, err, &verr)
}

// slowModel blocks until the context expires, standing in for a fit that
// overruns its budget.
type slowModel struct{}

func (slowModel) FitAndForecast(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error) {
	<-ctx.Done()
	return models.Forecast{}, ctx.Err()
}

func TestForecastTimeoutFallsBackToNaive(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	svc := NewForecastService(
		store,
		slowModel{},
		forecast.NewNaiveModel(30),
		nil,
		noopMetrics{},
		180,
		20*time.Millisecond,
		time.Minute,
	)

	fc, err := svc.Forecast(context.Background(), "sku-1", 7)
	require.NoError(t, err)
	assert.Equal(t, models.ForecastMethodNaiveMA, fc.Method)
	assert.True(t, fc.LowConfidence)
}

// countingModel counts fits so the single-flight guarantee is observable.
type countingModel struct {
	mu    sync.Mutex
	fits  int
	inner domsvc.Forecaster
}

func (m *countingModel) FitAndForecast(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error) {
	m.mu.Lock()
	m.fits++
	m.mu.Unlock()
	time.Sleep(10 * time.Millisecond)
	return m.inner.FitAndForecast(ctx, series, horizon)
}

// memCache is a minimal in-process cache.Service for tests.
type memCache struct {
	mu sync.Mutex
	m  map[string]models.Forecast
}

func (c *memCache) Set(ctx context.Context, key string, value interface{}, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if fc, ok := value.(models.Forecast); ok {
		c.m[key] = fc
	}
	return nil
}

func (c *memCache) Get(ctx context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	fc, ok := c.m[key]
	if !ok {
		return pkgcache.ErrCacheMiss
	}
	if d, ok := dest.(*models.Forecast); ok {
		*d = fc
		return nil
	}
	return pkgcache.ErrCacheMiss
}

func (c *memCache) Delete(ctx context.Context, keys ...string) error          { return nil }
func (c *memCache) DeleteByPattern(ctx context.Context, pattern string) error { return nil }
func (c *memCache) Exists(ctx context.Context, keys ...string) (bool, error)  { return false, nil }
func (c *memCache) Increment(ctx context.Context, key string) (int64, error)  { return 0, nil }
func (c *memCache) Expire(ctx context.Context, key string, e time.Duration) (bool, error) {
	return false, nil
}
func (c *memCache) MSet(ctx context.Context, values map[string]interface{}, e time.Duration) error {
	return nil
}
func (c *memCache) MGet(ctx context.Context, keys ...string) (map[string]string, error) {
	return nil, nil
}
func (c *memCache) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return true, nil
}
func (c *memCache) Unlock(ctx context.Context, key string) error { return nil }

func TestForecastSingleFlightPerKey(t *testing.T) {
	store := &fakeStore{series: map[string]models.SalesSeries{"sku-1": flatSeries("sku-1", 60, 10)}}
	model := &countingModel{inner: forecast.NewSeasonalTrendModel(7, 2, 1.44)}
	svc := NewForecastService(
		store,
		model,
		forecast.NewNaiveModel(30),
		&memCache{m: make(map[string]models.Forecast)},
		noopMetrics{},
		180,
		2*time.Second,
		time.Minute,
	)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Forecast(context.Background(), "sku-1", 7)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	model.mu.Lock()
	defer model.mu.Unlock()
	assert.Equal(t, 1, model.fits)
}
