package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
	domsvc "RetailMind/internal/domain/service"
	"RetailMind/internal/services/forecast"
	pkgcache "RetailMind/pkg/cache"
)

// ForecastService orchestrates demand forecasting: it fetches and prepares
// the sales history, serves cached forecasts, and runs the primary model
// under a hard timeout with the naive model as fallback. Only an empty
// series surfaces as an error; every other model failure is absorbed into a
// low-confidence result.
type ForecastService struct {
	store    drepo.SalesStore
	primary  domsvc.Forecaster
	fallback domsvc.Forecaster
	cache    pkgcache.Service
	metrics  drepo.Metrics

	historyDays int
	fitTimeout  time.Duration
	cacheTTL    time.Duration

	mu     sync.Mutex
	inKeys map[string]*sync.Mutex // single-flight per cache key
}

func NewForecastService(
	store drepo.SalesStore,
	primary domsvc.Forecaster,
	fallback domsvc.Forecaster,
	cache pkgcache.Service,
	metrics drepo.Metrics,
	historyDays int,
	fitTimeout time.Duration,
	cacheTTL time.Duration,
) *ForecastService {
	if historyDays <= 0 {
		historyDays = 180
	}
	if fitTimeout <= 0 {
		fitTimeout = 2 * time.Second
	}
	if cacheTTL <= 0 {
		cacheTTL = 10 * time.Minute
	}
	return &ForecastService{
		store:       store,
		primary:     primary,
		fallback:    fallback,
		cache:       cache,
		metrics:     metrics,
		historyDays: historyDays,
		fitTimeout:  fitTimeout,
		cacheTTL:    cacheTTL,
		inKeys:      make(map[string]*sync.Mutex),
	}
}

// Forecast returns the demand projection for a product over horizon days.
func (s *ForecastService) Forecast(ctx context.Context, productID string, horizon int) (models.Forecast, error) {
	if horizon < 1 || horizon > 365 {
		return models.Forecast{}, &models.ValidationError{Field: "horizon", Reason: "must be between 1 and 365"}
	}
	if productID == "" {
		return models.Forecast{}, &models.ValidationError{Field: "product_id", Reason: "must not be empty"}
	}

	series, err := s.store.GetLatestDailySales(ctx, productID, s.historyDays)
	if err != nil {
		return models.Forecast{}, fmt.Errorf("load sales for %s: %w", productID, err)
	}

	prepared, err := forecast.Prepare(series)
	if err != nil {
		return models.Forecast{}, err
	}
	if prepared.Len() == 0 {
		return models.Forecast{}, &models.InsufficientDataError{ProductID: productID, Got: 0, Min: 1}
	}

	key := pkgcache.GenerateKeyWithParams("forecast", productID, forecast.Fingerprint(prepared), horizon)
	if fc, ok := s.cached(ctx, key); ok {
		return fc, nil
	}

	// At most one fit in flight per key. Concurrent callers for the same
	// key block here, then find the cache populated.
	lock := s.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	if fc, ok := s.cached(ctx, key); ok {
		return fc, nil
	}

	start := time.Now()
	fc, err := s.fit(ctx, prepared, horizon)
	if err != nil {
		return models.Forecast{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordLatency("forecast_fit", time.Since(start).Seconds())
	}

	if s.cache != nil {
		if cerr := s.cache.Set(ctx, key, fc, s.cacheTTL); cerr != nil && s.metrics != nil {
			s.metrics.RecordError("forecast_cache_set")
		}
	}
	return fc, nil
}

// fit runs the primary model under the configured timeout and falls back
// to the naive model on recoverable failures.
func (s *ForecastService) fit(ctx context.Context, series models.SalesSeries, horizon int) (models.Forecast, error) {
	fitCtx, cancel := context.WithTimeout(ctx, s.fitTimeout)
	defer cancel()

	fc, err := s.primary.FitAndForecast(fitCtx, series, horizon)
	if err == nil {
		return fc, nil
	}
	if !recoverable(err) {
		return models.Forecast{}, err
	}
	if s.metrics != nil {
		s.metrics.RecordError("forecast_fallback")
	}

	fc, err = s.fallback.FitAndForecast(ctx, series, horizon)
	if err != nil {
		return models.Forecast{}, err
	}
	fc.LowConfidence = true
	return fc, nil
}

func (s *ForecastService) cached(ctx context.Context, key string) (models.Forecast, bool) {
	if s.cache == nil {
		return models.Forecast{}, false
	}
	var fc models.Forecast
	err := s.cache.Get(ctx, key, &fc)
	if err != nil {
		if !errors.Is(err, pkgcache.ErrCacheMiss) && s.metrics != nil {
			s.metrics.RecordError("forecast_cache_get")
		}
		return models.Forecast{}, false
	}
	return fc, true
}

func (s *ForecastService) keyLock(key string) *sync.Mutex {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.inKeys[key]; ok {
		return m
	}
	m := &sync.Mutex{}
	s.inKeys[key] = m
	return m
}

// recoverable reports whether a model failure should degrade to the naive
// fallback instead of surfacing.
func recoverable(err error) bool {
	var insufficient *models.InsufficientDataError
	var fit *models.ModelFitError
	return errors.As(err, &insufficient) ||
		errors.As(err, &fit) ||
		errors.Is(err, context.DeadlineExceeded)
}
