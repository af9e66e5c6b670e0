package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port" default:"8080"`
		ReadTimeout     time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout    time.Duration `yaml:"write_timeout" default:"10s"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout" default:"10s"`
	} `yaml:"server"`
	Metrics struct {
		Enabled bool   `yaml:"enabled" default:"true"`
		Path    string `yaml:"path" default:"/metrics"`
	} `yaml:"metrics"`
	Backend struct {
		Type         string        `yaml:"type" default:"clickhouse"`
		BatchSize    int           `yaml:"batch_size" default:"500"`
		BatchTimeout time.Duration `yaml:"batch_timeout" default:"1s"`
	} `yaml:"backend"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		Topic        string   `yaml:"topic" default:"retailmind.sales"`
		RequiredAcks int      `yaml:"required_acks" default:"-1"`
		Compression  string   `yaml:"compression" default:"gzip"`
		Producer     struct {
			MaxAttempts  int           `yaml:"max_attempts" default:"3"`
			Linger       time.Duration `yaml:"linger" default:"500ms"`
			BatchBytes   int           `yaml:"batch_bytes" default:"1048576"`
			BatchSize    int           `yaml:"batch_size" default:"100"`
			WriteTimeout time.Duration `yaml:"write_timeout" default:"10s"`
			ReadTimeout  time.Duration `yaml:"read_timeout" default:"10s"`
			Async        bool          `yaml:"async"`
		} `yaml:"producer"`
		Consumer struct {
			GroupID    string        `yaml:"group_id" default:"retailmind-ingest"`
			Workers    int           `yaml:"workers" default:"2"`
			BufferSize int           `yaml:"buffer_size" default:"1000"`
			RetryMax   int           `yaml:"retry_max" default:"3"`
			BackoffMin time.Duration `yaml:"backoff_min" default:"100ms"`
			BackoffMax time.Duration `yaml:"backoff_max" default:"5s"`
			DLQTopic   string        `yaml:"dlq_topic"`
			MinBytes   int           `yaml:"min_bytes" default:"1"`
			MaxBytes   int           `yaml:"max_bytes" default:"1048576"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	ClickHouse struct {
		Host             string        `yaml:"host"`
		Port             int           `yaml:"port" default:"9000"`
		Database         string        `yaml:"database" default:"retailmind"`
		User             string        `yaml:"user" default:"default"`
		Password         string        `yaml:"password"`
		UseHTTP          bool          `yaml:"use_http"`
		AsyncInsert      bool          `yaml:"async_insert"`
		WaitForAsync     bool          `yaml:"wait_for_async_insert"`
		DialTimeout      time.Duration `yaml:"dial_timeout" default:"5s"`
		ReadTimeout      time.Duration `yaml:"read_timeout" default:"10s"`
		WriteTimeout     time.Duration `yaml:"write_timeout" default:"10s"`
		MaxExecutionTime time.Duration `yaml:"max_execution_time" default:"30s"`
	} `yaml:"clickhouse"`
	POSFeed struct {
		Mode           string        `yaml:"mode" default:"demo"` // demo | websocket
		WebSocketURL   string        `yaml:"websocket_url"`
		APIKey         string        `yaml:"api_key"`
		Products       []string      `yaml:"products"`
		ReconnectDelay time.Duration `yaml:"reconnect_delay" default:"3s"`
		PingInterval   time.Duration `yaml:"ping_interval" default:"20s"`
		DemoInterval   time.Duration `yaml:"demo_interval" default:"2s"`
	} `yaml:"pos_feed"`
	Detectors struct {
		ServiceURL string        `yaml:"service_url"`
		Timeout    time.Duration `yaml:"timeout" default:"3s"`
		CacheTTL   time.Duration `yaml:"cache_ttl" default:"5m"`
	} `yaml:"detectors"`
	Engine struct {
		History             int           `yaml:"history_days" default:"180"`
		SeasonalCycleDays   int           `yaml:"seasonal_cycle_days" default:"7"`
		MinSeasonalCycles   int           `yaml:"min_seasonal_cycles" default:"2"`
		NaiveWindow         int           `yaml:"naive_window" default:"30"`
		IntervalZ           float64       `yaml:"interval_z" default:"1.44"` // ~85% interval
		FitTimeout          time.Duration `yaml:"fit_timeout" default:"2s"`
		SafetyMargin        float64       `yaml:"safety_margin" default:"0.10"`
		SurplusMargin       float64       `yaml:"surplus_margin" default:"0.50"`
		SurplusWindowDays   int           `yaml:"surplus_window_days" default:"30"`
		PromotionLift       float64       `yaml:"promotion_lift" default:"1.15"`
		PriceDeltaMin       float64       `yaml:"price_delta_min" default:"-0.90"`
		PriceDeltaMax       float64       `yaml:"price_delta_max" default:"5.0"`
		ForecastCacheTTL    time.Duration `yaml:"forecast_cache_ttl" default:"10m"`
		WarmForecastHorizon int           `yaml:"warm_forecast_horizon" default:"14"`
	} `yaml:"engine"`
	Cache struct {
		Redis struct {
			Enabled  bool   `yaml:"enabled"`
			Addr     string `yaml:"addr" default:"localhost:6379"`
			Password string `yaml:"password"`
			DB       int    `yaml:"db"`
		} `yaml:"redis"`
		MemoryMaxSize int `yaml:"memory_max_size" default:"1000"`
	} `yaml:"cache"`
	Queue struct {
		Enabled    bool          `yaml:"enabled"`
		Workers    int           `yaml:"workers" default:"2"`
		RetryLimit int           `yaml:"retry_limit" default:"3"`
		RetryDelay time.Duration `yaml:"retry_delay" default:"10s"`
	} `yaml:"queue"`
	Products []ProductSeed `yaml:"products"`
}

// ProductSeed is the reference-data seed for the in-memory catalog.
type ProductSeed struct {
	ID           string  `yaml:"id"`
	Name         string  `yaml:"name"`
	Category     string  `yaml:"category"`
	UnitCost     float64 `yaml:"unit_cost"`
	UnitPrice    float64 `yaml:"unit_price"`
	CurrentStock int     `yaml:"current_stock"`
	LeadTimeDays int     `yaml:"lead_time_days" default:"7"`
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var c Config
	if err := yaml.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	// Fill zero-value fields with struct defaults
	if err := defaults.Set(&c); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return &c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
func LoadWithEnv(path string) (*Config, error) {
	c, err := Load(path)
	if err != nil {
		return nil, err
	}

	if v := os.Getenv("BACKEND"); v != "" {
		c.Backend.Type = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("KAFKA_TOPIC"); v != "" {
		c.Kafka.Topic = v
	}
	if v := os.Getenv("CLICKHOUSE_HOST"); v != "" {
		c.ClickHouse.Host = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Cache.Redis.Addr = v
	}
	if v := os.Getenv("POS_FEED_API_KEY"); v != "" {
		c.POSFeed.APIKey = v
	}
	if v := os.Getenv("DETECTORS_URL"); v != "" {
		c.Detectors.ServiceURL = v
	}

	return c, nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Backend.Type != "kafka" && c.Backend.Type != "clickhouse" {
		return fmt.Errorf("backend.type must be 'kafka' or 'clickhouse', got '%s'", c.Backend.Type)
	}
	if c.POSFeed.Mode != "demo" && c.POSFeed.Mode != "websocket" {
		return fmt.Errorf("pos_feed.mode must be 'demo' or 'websocket', got '%s'", c.POSFeed.Mode)
	}
	if c.POSFeed.Mode == "websocket" && c.POSFeed.WebSocketURL == "" {
		return fmt.Errorf("pos_feed.websocket_url is required in websocket mode")
	}
	if c.Engine.SeasonalCycleDays <= 0 || c.Engine.MinSeasonalCycles <= 0 {
		return fmt.Errorf("engine seasonal cycle policy must be positive")
	}
	if c.Engine.PriceDeltaMin >= c.Engine.PriceDeltaMax {
		return fmt.Errorf("engine.price_delta_min must be below engine.price_delta_max")
	}
	if len(c.Products) == 0 {
		return fmt.Errorf("products cannot be empty")
	}
	return nil
}

// MinSeriesDays returns the minimum series length policy (two full seasonal
// cycles by default).
func (c *Config) MinSeriesDays() int {
	return c.Engine.SeasonalCycleDays * c.Engine.MinSeasonalCycles
}
