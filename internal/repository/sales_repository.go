package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"RetailMind/internal/domain/models"
	"RetailMind/internal/domain/repository"
	pkgkafka "RetailMind/pkg/kafka"
)

// ClickHouseStorage implements Storage for ClickHouse.
type ClickHouseStorage struct {
	db    *sql.DB
	table string
}

// NewClickHouseStorage creates ClickHouse storage for raw sale events.
func NewClickHouseStorage(db *sql.DB, table string) repository.Storage {
	return &ClickHouseStorage{db: db, table: table}
}

func (s *ClickHouseStorage) Init(ctx context.Context) error {
	q := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
		ts DateTime,
		product_id String,
		qty Float64,
		unit_price Float64,
		source String,
		event_id String
	) ENGINE = MergeTree()
	PARTITION BY toYYYYMM(ts)
	ORDER BY (product_id, ts)`, s.table)
	_, err := s.db.ExecContext(ctx, q)
	return err
}

func (s *ClickHouseStorage) Store(ctx context.Context, e *models.SaleEvent) error {
	q := fmt.Sprintf("INSERT INTO %s (ts, product_id, qty, unit_price, source, event_id) VALUES (?, ?, ?, ?, ?, ?)", s.table)
	// event_id derived from product+timestamp for idempotent replays
	eventID := fmt.Sprintf("%s-%d", e.ProductID, e.Timestamp)
	_, err := s.db.ExecContext(ctx, q,
		time.Unix(e.Timestamp, 0),
		e.ProductID,
		e.Quantity,
		e.UnitPrice,
		"pos",
		eventID,
	)
	return err
}

func (s *ClickHouseStorage) StoreBatch(ctx context.Context, events []*models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}
	// Multi-row VALUES insert to cut round-trips.
	const chunkSize = 2000
	for start := 0; start < len(events); start += chunkSize {
		end := start + chunkSize
		if end > len(events) {
			end = len(events)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, e := range events[start:end] {
			if e == nil || e.ProductID == "" || e.Timestamp == 0 {
				continue
			}
			eventID := fmt.Sprintf("%s-%d", e.ProductID, e.Timestamp)
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				time.Unix(e.Timestamp, 0),
				e.ProductID,
				e.Quantity,
				e.UnitPrice,
				"pos",
				eventID,
			)
		}
		if len(values) == 0 {
			continue
		}
		q := fmt.Sprintf("INSERT INTO %s (ts, product_id, qty, unit_price, source, event_id) VALUES %s", s.table, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return err
		}
	}
	return nil
}

func (s *ClickHouseStorage) Health(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *ClickHouseStorage) Close() error {
	return nil // Managed by pkg
}

// KafkaPublisher implements Publisher for Kafka.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

// NewKafkaPublisher creates Kafka publisher.
func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) repository.Publisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, e *models.SaleEvent) error {
	return p.producer.Publish(ctx, p.topic, []byte(e.ProductID), e)
}

func (p *KafkaPublisher) PublishBatch(ctx context.Context, events []*models.SaleEvent) error {
	if len(events) == 0 {
		return nil
	}
	msgs := make([]pkgkafka.Message, len(events))
	for i, e := range events {
		msgs[i] = pkgkafka.Message{
			Key:   []byte(e.ProductID),
			Value: e,
		}
	}
	return p.producer.PublishBatch(ctx, p.topic, msgs)
}

func (p *KafkaPublisher) Close() error {
	if p.producer != nil {
		return p.producer.Close()
	}
	return nil
}
