package usecase

import (
	"context"
	"sort"
	"sync"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
	domsvc "RetailMind/internal/domain/service"
	svcache "RetailMind/internal/service/cache"
)

// SignalAggregator queries the detector sidecars concurrently and merges
// whatever subset answered into a SignalBundle. A missing or failed
// detector is not an error; its slot keeps the neutral default. Bundles are
// cached in-process for the configured TTL.
type SignalAggregator struct {
	elasticity  domsvc.ElasticityDetector
	seasonality domsvc.SeasonalityDetector
	synergy     domsvc.SynergyDetector
	metrics     drepo.Metrics

	cache   *svcache.TTLCache
	ttl     time.Duration
	timeout time.Duration
}

func NewSignalAggregator(
	elasticity domsvc.ElasticityDetector,
	seasonality domsvc.SeasonalityDetector,
	synergy domsvc.SynergyDetector,
	metrics drepo.Metrics,
	ttl time.Duration,
	timeout time.Duration,
) *SignalAggregator {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &SignalAggregator{
		elasticity:  elasticity,
		seasonality: seasonality,
		synergy:     synergy,
		metrics:     metrics,
		cache:       svcache.NewTTLCache(),
		ttl:         ttl,
		timeout:     timeout,
	}
}

// Bundle returns the merged signal bundle for a product. Never fails; the
// worst case is a fully neutral bundle.
func (a *SignalAggregator) Bundle(ctx context.Context, productID string) models.SignalBundle {
	key := "signals:" + productID
	if v, ok := a.cache.Get(key); ok {
		if b, ok := v.(models.SignalBundle); ok {
			return b
		}
	}

	bundle := models.NeutralBundle(productID)

	var mu sync.Mutex
	var wg sync.WaitGroup

	if a.elasticity != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			sig, err := a.elasticity.Detect(cctx, productID)
			if err != nil {
				a.recordMiss("elasticity")
				return
			}
			mu.Lock()
			bundle.Elasticity = sig.Elasticity
			bundle.Sources = append(bundle.Sources, models.SignalSourceElasticity)
			mu.Unlock()
		}()
	}

	if a.seasonality != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			sig, err := a.seasonality.Detect(cctx, productID)
			if err != nil {
				a.recordMiss("seasonality")
				return
			}
			mu.Lock()
			bundle.BreakFactor = sig.BreakFactor
			bundle.Sources = append(bundle.Sources, models.SignalSourceSeasonality)
			mu.Unlock()
		}()
	}

	if a.synergy != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cctx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()
			sig, err := a.synergy.Detect(cctx, productID)
			if err != nil {
				a.recordMiss("synergy")
				return
			}
			mu.Lock()
			bundle.SynergyPartners = sig.Partners
			bundle.Sources = append(bundle.Sources, models.SignalSourceSynergy)
			mu.Unlock()
		}()
	}

	wg.Wait()

	// sorted sources keep the merge order-independent for equality checks
	sort.Strings(bundle.Sources)
	bundle.MergedAt = time.Now()

	a.cache.Set(key, bundle, a.ttl)
	return bundle
}

// Invalidate drops a product's cached bundle, forcing fresh detector calls.
func (a *SignalAggregator) Invalidate(productID string) {
	a.cache.Delete("signals:" + productID)
}

func (a *SignalAggregator) recordMiss(detector string) {
	if a.metrics != nil {
		a.metrics.RecordError("detector_" + detector)
	}
}
