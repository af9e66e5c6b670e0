package di

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"RetailMind/internal/domain/repository"
	domsvc "RetailMind/internal/domain/service"
	"RetailMind/internal/handler/api"
	mid "RetailMind/internal/middleware"
	internalrepo "RetailMind/internal/repository"
	icache "RetailMind/internal/service/cache"
	"RetailMind/internal/service/posfeed"
	"RetailMind/internal/services/datagen"
	"RetailMind/internal/services/detectors"
	"RetailMind/internal/services/forecast"
	"RetailMind/internal/usecase"
	pkgcache "RetailMind/pkg/cache"
	pkgch "RetailMind/pkg/clickhouse"
	"RetailMind/pkg/config"
	pkgkafka "RetailMind/pkg/kafka"
	applogger "RetailMind/pkg/logger"
	"RetailMind/pkg/metrics"
	"RetailMind/pkg/queue"
	"RetailMind/pkg/server"
)

// ProvideLogger creates the application logger. Production environments log
// JSON; everything else gets the console writer.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "console"
	if cfg.Environment == "production" {
		format = "json"
	}
	l, err := applogger.New(&applogger.Config{Level: "info", Format: format, Output: "stdout"})
	if err != nil {
		return nil, fmt.Errorf("logger: %w", err)
	}
	return l, nil
}

// ProvideClickHouseClient creates a ClickHouse client.
func ProvideClickHouseClient(cfg *config.Config) (*pkgch.Client, error) {
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithAsyncInsert(cfg.ClickHouse.AsyncInsert, cfg.ClickHouse.WaitForAsync),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}

	// Initialize schema
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db := cfg.ClickHouse.Database
	if err := client.InitSchema(ctx, []string{
		fmt.Sprintf("CREATE DATABASE IF NOT EXISTS %s", db),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.sales_raw (
			ts DateTime,
			product_id String,
			qty Int64,
			unit_price Float64,
			source String,
			event_id String
		) ENGINE=MergeTree PARTITION BY toYYYYMM(ts) ORDER BY (product_id, ts)`, db),
	}); err != nil {
		_ = client.Close() // cannot log here (DI layer no logger); propagate error
		return nil, fmt.Errorf("clickhouse schema: %w", err)
	}

	return client, nil
}

// ProvideKafkaProducer creates a Kafka producer.
func ProvideKafkaProducer(cfg *config.Config) (*pkgkafka.Producer, error) {
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchBytes(cfg.Kafka.Producer.BatchBytes),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithAsync(cfg.Kafka.Producer.Async),
		pkgkafka.WithHashByKey(true),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}

	return producer, nil
}

// ProvideKafkaConsumer creates a Kafka consumer configured from YAML.
func ProvideKafkaConsumer(cfg *config.Config) (*pkgkafka.Consumer, error) {
	consumer, err := pkgkafka.NewConsumer(
		pkgkafka.WithConsumerBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithConsumerGroupID(cfg.Kafka.Consumer.GroupID),
		pkgkafka.WithConsumerWorkers(cfg.Kafka.Consumer.Workers),
		pkgkafka.WithConsumerBufferSize(cfg.Kafka.Consumer.BufferSize),
		pkgkafka.WithConsumerRetry(cfg.Kafka.Consumer.RetryMax, cfg.Kafka.Consumer.BackoffMin, cfg.Kafka.Consumer.BackoffMax),
		pkgkafka.WithConsumerDLQ(cfg.Kafka.Consumer.DLQTopic),
		pkgkafka.WithConsumerFetch(cfg.Kafka.Consumer.MinBytes, cfg.Kafka.Consumer.MaxBytes),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka consumer: %w", err)
	}
	return consumer, nil
}

// ProvideMetrics creates a Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideSalesStorage creates ClickHouse storage repository.
func ProvideSalesStorage(chClient *pkgch.Client, cfg *config.Config) repository.Storage {
	return internalrepo.NewClickHouseStorage(chClient.DB(), cfg.ClickHouse.Database+".sales_raw")
}

// ProvideSalesPublisher creates Kafka publisher repository.
func ProvideSalesPublisher(producer *pkgkafka.Producer, cfg *config.Config) repository.Publisher {
	return internalrepo.NewKafkaPublisher(producer, cfg.Kafka.Topic)
}

// ProvideSalesStore creates the read-side daily sales repository.
func ProvideSalesStore(chClient *pkgch.Client, cfg *config.Config, l *applogger.Logger) repository.SalesStore {
	store := internalrepo.NewCHSalesStore(chClient, cfg.ClickHouse.Database+".sales_raw")
	store.SetLogger(l)
	return store
}

// ProvideCatalog seeds the in-memory product catalog from config.
func ProvideCatalog(cfg *config.Config) repository.ProductCatalog {
	return internalrepo.NewMemoryCatalog(cfg.Products)
}

// ProvideSalesStream selects the sales feed: synthetic generator in demo
// mode, POS WebSocket feed otherwise.
func ProvideSalesStream(cfg *config.Config) repository.SalesStream {
	products := cfg.POSFeed.Products
	if len(products) == 0 {
		for _, p := range cfg.Products {
			products = append(products, p.ID)
		}
	}

	if cfg.POSFeed.Mode == "websocket" {
		return posfeed.New(
			cfg.POSFeed.APIKey,
			cfg.POSFeed.WebSocketURL,
			products,
			cfg.POSFeed.ReconnectDelay,
			cfg.POSFeed.PingInterval,
		)
	}
	return datagen.New(products, cfg.POSFeed.DemoInterval)
}

// ProvideForecastCache builds the forecast result cache. With Redis enabled
// it layers an in-process cache over Redis; otherwise memory only.
func ProvideForecastCache(cfg *config.Config) (pkgcache.Service, error) {
	if !cfg.Cache.Redis.Enabled {
		return pkgcache.NewMemoryCache(
			pkgcache.WithMemoryMaxSize(cfg.Cache.MemoryMaxSize),
		), nil
	}

	host, port := splitHostPort(cfg.Cache.Redis.Addr)
	rc, err := pkgcache.NewRedisCache(
		pkgcache.WithRedisHost(host),
		pkgcache.WithRedisPort(port),
		pkgcache.WithRedisPassword(cfg.Cache.Redis.Password),
		pkgcache.WithRedisDB(cfg.Cache.Redis.DB),
	)
	if err != nil {
		return nil, fmt.Errorf("redis cache: %w", err)
	}
	return pkgcache.NewLayeredCache(rc,
		pkgcache.WithLayeredMemorySize(cfg.Cache.MemoryMaxSize),
	), nil
}

// ProvideForecastService wires the seasonal model over the naive fallback.
func ProvideForecastService(
	store repository.SalesStore,
	cache pkgcache.Service,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.ForecastService {
	primary := forecast.NewSeasonalTrendModel(
		cfg.Engine.SeasonalCycleDays,
		cfg.Engine.MinSeasonalCycles,
		cfg.Engine.IntervalZ,
	)
	fallback := forecast.NewNaiveModel(cfg.Engine.NaiveWindow)
	return usecase.NewForecastService(
		store,
		primary,
		fallback,
		cache,
		metrics,
		cfg.Engine.History,
		cfg.Engine.FitTimeout,
		cfg.Engine.ForecastCacheTTL,
	)
}

// ProvideSignalAggregator wires the HTTP detectors when a detectors service
// is configured. Without one the aggregator still works and returns neutral
// bundles for every product.
func ProvideSignalAggregator(metrics repository.Metrics, cfg *config.Config) *usecase.SignalAggregator {
	var (
		elasticity  domsvc.ElasticityDetector
		seasonality domsvc.SeasonalityDetector
		synergy     domsvc.SynergyDetector
	)
	if cfg.Detectors.ServiceURL != "" {
		elasticity = detectors.NewHTTPElasticityDetector(cfg)
		seasonality = detectors.NewHTTPSeasonalityDetector(cfg)
		synergy = detectors.NewHTTPSynergyDetector(cfg)
	}
	return usecase.NewSignalAggregator(
		elasticity,
		seasonality,
		synergy,
		metrics,
		cfg.Detectors.CacheTTL,
		cfg.Detectors.Timeout,
	)
}

// ProvideRiskClassifier creates the inventory risk classifier.
func ProvideRiskClassifier(forecasts *usecase.ForecastService, catalog repository.ProductCatalog, cfg *config.Config) *usecase.RiskClassifier {
	return usecase.NewRiskClassifier(
		forecasts,
		catalog,
		cfg.Engine.SafetyMargin,
		cfg.Engine.SurplusMargin,
		cfg.Engine.SurplusWindowDays,
	)
}

// ProvideSimulationEngine creates the what-if simulation engine.
func ProvideSimulationEngine(
	forecasts *usecase.ForecastService,
	signals *usecase.SignalAggregator,
	catalog repository.ProductCatalog,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.SimulationEngine {
	return usecase.NewSimulationEngine(
		forecasts,
		signals,
		catalog,
		metrics,
		cfg.Engine.PromotionLift,
		cfg.Engine.PriceDeltaMin,
		cfg.Engine.PriceDeltaMax,
	)
}

// ProvideInsightGenerator creates the natural-language insight layer.
func ProvideInsightGenerator(risks *usecase.RiskClassifier, forecasts *usecase.ForecastService, catalog repository.ProductCatalog) *usecase.InsightGenerator {
	return usecase.NewInsightGenerator(risks, forecasts, catalog)
}

// ProvideCatalogQuery creates the read-only product listing use case.
func ProvideCatalogQuery(catalog repository.ProductCatalog) *usecase.CatalogQuery {
	return usecase.NewCatalogQuery(catalog)
}

// ProvideWarmQueue creates the Redis-backed queue that runs forecast warm-up
// and log digest jobs. Returns nil when the queue is disabled; callers must
// tolerate that.
func ProvideWarmQueue(cfg *config.Config, l *applogger.Logger, forecasts *usecase.ForecastService, m repository.Metrics) (*queue.RedisQueue, error) {
	if !cfg.Queue.Enabled {
		return nil, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("queue redis ping: %w", err)
	}

	q := queue.NewRedisQueue(l,
		&queue.QueueConfig{
			Workers:    cfg.Queue.Workers,
			RetryLimit: cfg.Queue.RetryLimit,
			RetryDelay: cfg.Queue.RetryDelay,
		},
		client,
		queue.ModeProducerConsumer,
		queue.WithKeyPrefix("retailmind"),
	)
	q.RegisterJob(usecase.NewForecastWarmJob(forecasts, cfg.Engine.WarmForecastHorizon))
	q.RegisterJob(usecase.NewLogDigestJob(l, m))

	// Error logs get deduplicated and drained through the same queue.
	l.AddCollector(&applogger.CollectionConfig{
		TimeInterval:   30 * time.Second,
		CountThreshold: 100,
		Topic:          usecase.LogDigestJobType,
		Publisher:      q,
	})
	return q, nil
}

// ProvideKafkaSalesHandler registers the handler for the sales topic.
func ProvideKafkaSalesHandler(store repository.Storage, metrics repository.Metrics, warmQueue *queue.RedisQueue, cfg *config.Config) *usecase.KafkaSalesHandler {
	var warmer queue.QueueService
	if warmQueue != nil {
		warmer = warmQueue
	}
	return usecase.NewKafkaSalesHandler(cfg.Kafka.Topic, store, metrics, warmer)
}

// ProvideSalesProcessor creates the sale event processor use case.
func ProvideSalesProcessor(
	pub repository.Publisher,
	store repository.Storage,
	metrics repository.Metrics,
	cfg *config.Config,
) *usecase.SalesProcessor {
	return usecase.NewSalesProcessor(
		pub,
		store,
		metrics,
		cfg.Backend.Type,
		cfg.Backend.BatchSize,
		cfg.Backend.BatchTimeout,
	)
}

// ProvideSalesCollector creates the sales collector use case.
func ProvideSalesCollector(
	stream repository.SalesStream,
	processor *usecase.SalesProcessor,
	metrics repository.Metrics,
) *usecase.SalesCollector {
	// Build middleware pipeline between the feed and the backend
	pipe := mid.NewIngestPipeline(processor, metrics,
		mid.WithMaxRPS(50),
		mid.WithBufferSize(2000),
	)
	return usecase.NewSalesCollector(stream, processor, metrics, pipe)
}

// ProvideEngineHandler creates the Echo API handler for the decision engine.
// Response caching for the catalog-wide insights digest goes through Redis
// when available, in-process otherwise.
func ProvideEngineHandler(
	l *applogger.Logger,
	forecasts *usecase.ForecastService,
	risks *usecase.RiskClassifier,
	simulator *usecase.SimulationEngine,
	insights *usecase.InsightGenerator,
	products *usecase.CatalogQuery,
	cfg *config.Config,
) *api.EngineEchoHandler {
	var respCache icache.BytesCache
	if cfg.Cache.Redis.Enabled {
		respCache = icache.NewRedisCache(icache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	} else {
		respCache = icache.NewTTLCache()
	}
	return api.NewEngineEchoHandler(l, forecasts, risks, simulator, insights, products, respCache)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	l *applogger.Logger,
	collector *usecase.SalesCollector,
	consumer *pkgkafka.Consumer,
	kh *usecase.KafkaSalesHandler,
	chClient *pkgch.Client,
	warmQueue *queue.RedisQueue,
	handler *api.EngineEchoHandler,
) *server.App {
	if consumer != nil {
		consumer.WithConsumerHook(pkgkafka.NoopHook{})
	}
	app := server.New(cfg, l, collector, consumer, kh, chClient, warmQueue)
	app.SetHTTPHandler(handler)
	if collector != nil {
		app.SalesProc = collector.Processor()
	}
	return app
}

func splitHostPort(addr string) (string, int) {
	host, portStr, err := net.SplitHostPort(addr)
	if err != nil {
		if addr != "" {
			return addr, 6379
		}
		return "localhost", 6379
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		port = 6379
	}
	return host, port
}
