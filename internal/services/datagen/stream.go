package datagen

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// profile shapes one product's synthetic demand curve.
type profile struct {
	base        float64 // daily baseline units
	trend       float64 // yearly growth fraction
	seasonality float64 // annual amplitude multiplier
	weekendLift float64 // weekend demand boost
	price       float64
}

// defaultProfiles mirrors a small grocery assortment with distinct trend
// and seasonality characteristics, so every downstream code path (growth,
// decline, weekend spikes) gets exercised in demo mode.
var defaultProfiles = map[string]profile{
	"milk":    {base: 80, trend: 0.01, seasonality: 1.2, weekendLift: 1.30, price: 2.49},
	"bread":   {base: 60, trend: 0.02, seasonality: 1.1, weekendLift: 1.40, price: 1.99},
	"eggs":    {base: 40, trend: 0.03, seasonality: 1.3, weekendLift: 1.20, price: 3.49},
	"coffee":  {base: 25, trend: 0.015, seasonality: 0.9, weekendLift: 1.10, price: 7.99},
	"bananas": {base: 55, trend: 0.01, seasonality: 1.1, weekendLift: 1.25, price: 0.59},
	"yogurt":  {base: 35, trend: -0.005, seasonality: 1.0, weekendLift: 1.15, price: 1.29},
	"cereal":  {base: 30, trend: -0.01, seasonality: 0.95, weekendLift: 1.10, price: 4.29},
}

// Stream is a synthetic point-of-sale feed for demo and local development.
// It implements the same SalesStream contract as the production WebSocket
// feed, emitting one simulated register scan per product per tick.
type Stream struct {
	products []string
	interval time.Duration
	noise    distuv.Normal
	start    time.Time

	mu        sync.Mutex
	cancel    context.CancelFunc
	connected bool
}

// New creates a synthetic SalesStream for the given product IDs. Unknown
// IDs get a generic profile so the demo works with any catalog.
func New(products []string, interval time.Duration) drepo.SalesStream {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &Stream{
		products: products,
		interval: interval,
		noise:    distuv.Normal{Mu: 0, Sigma: 0.15, Src: exprand.NewSource(uint64(time.Now().UnixNano()))},
		start:    time.Now().AddDate(0, 0, -730),
	}
}

func (s *Stream) Connect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.products) == 0 {
		return fmt.Errorf("datagen: no products configured")
	}
	s.connected = true
	return nil
}

// Subscribe is a no-op; the generator emits for all configured products.
func (s *Stream) Subscribe(ctx context.Context) error {
	if !s.IsConnected() {
		return fmt.Errorf("datagen: not connected")
	}
	return nil
}

func (s *Stream) Read(ctx context.Context) (<-chan *models.SaleEvent, <-chan error) {
	events := make(chan *models.SaleEvent, 1024)
	errs := make(chan error, 1)

	ctx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.cancel = cancel
	s.mu.Unlock()

	go func() {
		defer close(events)
		defer close(errs)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				for _, id := range s.products {
					ev := s.sample(id, now)
					select {
					case events <- ev:
					default:
						// drop on backpressure
					}
				}
			}
		}
	}()

	return events, errs
}

// sample draws one sale for a product: baseline with yearly trend, annual
// and weekend seasonal factors, and 15% gaussian noise, floored at one unit.
func (s *Stream) sample(productID string, now time.Time) *models.SaleEvent {
	p, ok := defaultProfiles[productID]
	if !ok {
		p = profile{base: 30, trend: 0.01, seasonality: 1.0, weekendLift: 1.2, price: 2.99}
	}

	ageYears := now.Sub(s.start).Hours() / (24 * 365)
	base := p.base * (1 + p.trend*ageYears)

	monthFactor := 1 + 0.3*math.Sin(2*math.Pi*float64(now.Month())/12)*p.seasonality
	dowFactor := 1.0
	if wd := now.Weekday(); wd == time.Saturday || wd == time.Sunday {
		dowFactor = p.weekendLift
	}
	noise := 1 + s.noise.Rand()

	qty := base * monthFactor * dowFactor * noise
	if qty < 1 {
		qty = 1
	}

	return &models.SaleEvent{
		ProductID: productID,
		Timestamp: now.Unix(),
		Quantity:  math.Round(qty),
		UnitPrice: p.price,
	}
}

func (s *Stream) Reconnect(ctx context.Context) error {
	_ = s.Close()
	return s.Connect(ctx)
}

func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
	s.connected = false
	return nil
}

func (s *Stream) IsConnected() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.connected
}
