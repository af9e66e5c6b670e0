package usecase

import (
	"context"
	"encoding/json"
	"time"

	"RetailMind/internal/domain/models"
	domrepo "RetailMind/internal/domain/repository"
	pkgkafka "RetailMind/pkg/kafka"
	"RetailMind/pkg/queue"
)

// KafkaSalesHandler consumes sale events from the Kafka topic, persists
// them to storage, and enqueues a forecast-warm job so the cache refreshes
// shortly after new sales land.
type KafkaSalesHandler struct {
	topic   string
	storage domrepo.Storage
	metrics domrepo.Metrics
	warmer  queue.QueueService
}

func NewKafkaSalesHandler(topic string, storage domrepo.Storage, metrics domrepo.Metrics, warmer queue.QueueService) *KafkaSalesHandler {
	return &KafkaSalesHandler{topic: topic, storage: storage, metrics: metrics, warmer: warmer}
}

func (h *KafkaSalesHandler) Topic() string { return h.topic }

// incoming message schema: {product_id, ts, qty, unit_price}
func (h *KafkaSalesHandler) Handle(ctx context.Context, b []byte) error {
	var e models.SaleEvent
	if err := json.Unmarshal(b, &e); err != nil {
		h.metrics.RecordError("consumer_unmarshal")
		return err
	}
	if e.Timestamp > 1e11 { // ms
		e.Timestamp = e.Timestamp / 1000
	}
	// E2E latency from event time to now (approx)
	h.metrics.RecordLatency("ingest_e2e_seconds", time.Since(time.Unix(e.Timestamp, 0)).Seconds())

	start := time.Now()
	err := h.storage.Store(ctx, &e)
	h.metrics.RecordLatency("ch_insert_seconds", time.Since(start).Seconds())
	if err != nil {
		h.metrics.RecordError("consumer_store")
		return err
	}
	h.metrics.RecordMessageSent("clickhouse", e.ProductID)

	if h.warmer != nil {
		if err := h.warmer.PublishMessage(ctx, ForecastWarmJobType, ForecastWarmPayload{ProductID: e.ProductID}); err != nil {
			h.metrics.RecordError("warm_enqueue")
		}
	}
	return nil
}

var _ pkgkafka.MessageHandler = (*KafkaSalesHandler)(nil)
