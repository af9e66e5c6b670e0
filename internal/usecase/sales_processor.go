package usecase

import (
	"context"
	"fmt"
	"time"

	"RetailMind/internal/domain/models"
	drepo "RetailMind/internal/domain/repository"
)

// SalesProcessor routes sale events to the configured backend: the Kafka
// topic in the full deployment, direct ClickHouse writes when running
// without a broker.
type SalesProcessor struct {
	pub     drepo.Publisher
	store   drepo.Storage
	metrics drepo.Metrics
	backend string
	batchSz int
	batchTO time.Duration
}

// NewSalesProcessor creates a new SalesProcessor instance.
func NewSalesProcessor(
	pub drepo.Publisher,
	store drepo.Storage,
	metrics drepo.Metrics,
	backend string,
	batchSz int,
	batchTO time.Duration,
) *SalesProcessor {
	return &SalesProcessor{
		pub:     pub,
		store:   store,
		metrics: metrics,
		backend: backend,
		batchSz: batchSz,
		batchTO: batchTO,
	}
}

// Process routes a single sale event to the configured backend.
func (p *SalesProcessor) Process(ctx context.Context, e *models.SaleEvent) error {
	if e == nil {
		return fmt.Errorf("sale event is nil")
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.Publish(ctx, e)
	case "clickhouse":
		err = p.store.Store(ctx, e)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process")
		return fmt.Errorf("process sale: %w", err)
	}

	p.metrics.RecordMessageSent(p.backend, e.ProductID)
	p.metrics.RecordLatency("process", time.Since(start).Seconds())

	return nil
}

// ProcessBatch routes multiple sale events in a batch.
func (p *SalesProcessor) ProcessBatch(ctx context.Context, events []*models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}

	start := time.Now()
	var err error

	switch p.backend {
	case "kafka":
		err = p.pub.PublishBatch(ctx, events)
	case "clickhouse":
		err = p.store.StoreBatch(ctx, events)
	default:
		err = fmt.Errorf("unknown backend: %s", p.backend)
	}

	if err != nil {
		p.metrics.RecordError("process_batch")
		return fmt.Errorf("process batch: %w", err)
	}

	for _, e := range events {
		p.metrics.RecordMessageSent(p.backend, e.ProductID)
	}
	p.metrics.RecordLatency("process_batch", time.Since(start).Seconds())

	return nil
}

// Close closes underlying resources if available.
func (p *SalesProcessor) Close() {
	if p.pub != nil {
		_ = p.pub.Close()
	}
	if p.store != nil {
		_ = p.store.Close()
	}
}
