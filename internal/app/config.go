package app

import (
	"errors"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds runtime configuration for the application.
type Config struct {
	AppEnv            string        `envconfig:"APP_ENV" default:"development"`
	AppAddr           string        `envconfig:"APP_ADDR" default:":8080"`
	AppReadTimeout    time.Duration `envconfig:"APP_READ_TIMEOUT" default:"15s"`
	AppWriteTimeout   time.Duration `envconfig:"APP_WRITE_TIMEOUT" default:"15s"`
	AppRequestTimeout time.Duration `envconfig:"APP_REQUEST_TIMEOUT" default:"30s"`
	AppShutdownGrace  time.Duration `envconfig:"APP_SHUTDOWN_GRACE" default:"10s"`
	RateLimitPerMin   int           `envconfig:"RATE_LIMIT_PER_MIN" default:"120"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// PGDSN enables the Postgres audit trail when set.
	PGDSN string `envconfig:"PG_DSN"`

	RedisAddr      string        `envconfig:"REDIS_ADDR" default:"127.0.0.1:6379"`
	IdempotencyTTL time.Duration `envconfig:"IDEMPOTENCY_TTL" default:"24h"`

	// AMQPURL enables RabbitMQ event publishing when set.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"skillsdesk.events"`

	// DocumentsDir overrides the embedded YAML documents file by file.
	DocumentsDir      string `envconfig:"DOCUMENTS_DIR"`
	SlotsLenientDates bool   `envconfig:"SLOTS_LENIENT_DATES" default:"false"`
	SlotsMaxSpanDays  int    `envconfig:"SLOTS_MAX_SPAN_DAYS" default:"92"`
	TechnicianID      string `envconfig:"TECHNICIAN_ID" default:"TECH-99"`
	WorkerConcurrency int    `envconfig:"WORKER_CONCURRENCY" default:"5"`
	WorkerMetricsAddr string `envconfig:"WORKER_METRICS_ADDR" default:":9091"`
}

// LoadConfig reads configuration from environment variables.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	if c.AppAddr == "" {
		return errors.New("app address must be provided")
	}
	if c.RedisAddr == "" {
		return errors.New("redis address must be provided")
	}
	if c.RateLimitPerMin <= 0 {
		return errors.New("rate limit must be positive")
	}
	if c.SlotsMaxSpanDays <= 0 {
		return errors.New("slot span must be positive")
	}
	if c.TechnicianID == "" {
		return errors.New("technician id must be provided")
	}
	return nil
}

// IsProduction returns true when the application runs in production.
func (c *Config) IsProduction() bool {
	return c != nil && c.AppEnv == "production"
}
