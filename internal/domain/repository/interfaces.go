package repository

import (
	"context"
	"time"

	"RetailMind/internal/domain/models"
)

// SalesStream is a live source of point-of-sale events (a WebSocket feed in
// production, the synthetic generator in demo mode).
type SalesStream interface {
	Connect(ctx context.Context) error
	Subscribe(ctx context.Context) error
	Read(ctx context.Context) (<-chan *models.SaleEvent, <-chan error)
	Reconnect(ctx context.Context) error
	Close() error
	IsConnected() bool
}

// Publisher sends sale events onto the message backbone.
type Publisher interface {
	Publish(ctx context.Context, e *models.SaleEvent) error
	PublishBatch(ctx context.Context, events []*models.SaleEvent) error
	Close() error
}

// Storage persists raw sale events.
type Storage interface {
	Init(ctx context.Context) error
	Store(ctx context.Context, e *models.SaleEvent) error
	StoreBatch(ctx context.Context, events []*models.SaleEvent) error
	Health(ctx context.Context) error
	Close() error
}

// SalesStore provides read-only access to daily sales series. The core
// borrows these views for the duration of a computation and never mutates
// them.
type SalesStore interface {
	GetDailySales(ctx context.Context, productID string, from, to time.Time) (models.SalesSeries, error)
	GetLatestDailySales(ctx context.Context, productID string, days int) (models.SalesSeries, error)
}

// ProductCatalog provides product reference data (price, cost, stock, lead
// time). Owned by the data layer; the core only reads it.
type ProductCatalog interface {
	Get(ctx context.Context, productID string) (models.Product, error)
	List(ctx context.Context) ([]models.Product, error)
}

// Metrics records operational counters for ingestion and engine operations.
type Metrics interface {
	RecordMessageSent(backend, productID string)
	RecordError(kind string)
	RecordLastQuantity(productID string, qty float64)
	RecordLatency(op string, seconds float64)
}
