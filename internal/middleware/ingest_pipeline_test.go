package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"RetailMind/internal/domain/models"
)

type recordingProc struct {
	mu     sync.Mutex
	events []*models.SaleEvent
	fail   bool
}

func (p *recordingProc) Process(ctx context.Context, e *models.SaleEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.fail {
		return errors.New("downstream unavailable")
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingProc) count() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.events)
}

type nullMetrics struct{}

func (nullMetrics) RecordMessageSent(backend, productID string)      {}
func (nullMetrics) RecordError(kind string)                          {}
func (nullMetrics) RecordLastQuantity(productID string, qty float64) {}
func (nullMetrics) RecordLatency(op string, seconds float64)         {}

func validSale() *models.SaleEvent {
	return &models.SaleEvent{ProductID: "sku-1", Timestamp: time.Now().Unix(), Quantity: 3, UnitPrice: 2.49}
}

func TestPipelineForwardsValidEvents(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nullMetrics{})

	require.NoError(t, p.Process(context.Background(), validSale()))
	assert.Equal(t, 1, proc.count())
}

func TestPipelineRejectsInvalidEvents(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nullMetrics{})

	cases := []*models.SaleEvent{
		nil,
		{ProductID: "", Timestamp: 1, Quantity: 1},
		{ProductID: "sku-1", Timestamp: 0, Quantity: 1},
		{ProductID: "sku-1", Timestamp: 1, Quantity: 0},
		{ProductID: "sku-1", Timestamp: 1, Quantity: 1, UnitPrice: -1},
	}
	for _, e := range cases {
		assert.Error(t, p.Process(context.Background(), e))
	}
	assert.Zero(t, proc.count())
}

func TestPipelineThrottlesPerProduct(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nullMetrics{}, WithMaxRPS(1))

	// two events back to back: the second is throttled, silently dropped
	require.NoError(t, p.Process(context.Background(), validSale()))
	require.NoError(t, p.Process(context.Background(), validSale()))
	assert.Equal(t, 1, proc.count())

	// a different product has its own budget
	other := validSale()
	other.ProductID = "sku-2"
	require.NoError(t, p.Process(context.Background(), other))
	assert.Equal(t, 2, proc.count())
}

func TestPipelineBuffersOnDownstreamFailure(t *testing.T) {
	proc := &recordingProc{fail: true}
	p := NewIngestPipeline(proc, nullMetrics{}, WithBufferSize(8))

	err := p.Process(context.Background(), validSale())
	require.Error(t, err)

	// downstream recovers; Start flushes the buffer
	proc.mu.Lock()
	proc.fail = false
	proc.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	p.Start(ctx)
	defer p.Stop()

	assert.Eventually(t, func() bool { return proc.count() == 1 }, 2*time.Second, 10*time.Millisecond)
}

func TestPipelineTransformHook(t *testing.T) {
	proc := &recordingProc{}
	p := NewIngestPipeline(proc, nullMetrics{}, WithTransform(func(e *models.SaleEvent) *models.SaleEvent {
		if e.Timestamp > 1e11 { // ms to s
			e.Timestamp /= 1000
		}
		return e
	}))

	e := validSale()
	e.Timestamp = e.Timestamp * 1000
	require.NoError(t, p.Process(context.Background(), e))
	require.Equal(t, 1, proc.count())
	assert.Less(t, proc.events[0].Timestamp, int64(1e11))
}
