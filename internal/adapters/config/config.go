package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"hypertracker/pkg/errors"
)

type Config struct {
	App           AppConfig
	Postgres      PostgresConfig
	Oracle        OracleConfig
	Telegram      TelegramConfig
	Tracker       TrackerConfig
	ErrorTracking ErrorTrackingConfig
	Metrics       MetricsConfig
	Workers       WorkerConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"hypertracker"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// OracleConfig configures the price oracle (CoinGecko)
type OracleConfig struct {
	BaseURL     string        `envconfig:"COINGECKO_BASE_URL" default:"https://api.coingecko.com"`
	APIKey      string        `envconfig:"COINGECKO_API_KEY" required:"true"`
	HTTPTimeout time.Duration `envconfig:"COINGECKO_HTTP_TIMEOUT" default:"10s"`
}

type TelegramConfig struct {
	BotToken    string        `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	ChatIDs     []int64       `envconfig:"TELEGRAM_CHAT_IDS" required:"true"`
	HTTPTimeout time.Duration `envconfig:"TELEGRAM_HTTP_TIMEOUT" default:"30s"`
}

// TrackerConfig contains the tracked symbols and selection width.
// The aggregator base URL and whale threshold are deliberately not here:
// they live in the runtime settings table mutated by the operator app.
type TrackerConfig struct {
	Symbols      []string `envconfig:"TRACKER_SYMBOLS" default:"ETH"`
	NearestCount int      `envconfig:"TRACKER_NEAREST_COUNT" default:"3"`
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"true"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

type MetricsConfig struct {
	Enabled bool   `envconfig:"METRICS_ENABLED" default:"true"`
	Addr    string `envconfig:"METRICS_ADDR" default:":9090"`
}

// WorkerConfig contains intervals for the background workers.
// ChangeDetectOffset shifts the change detector's schedule behind the
// ingester's and must stay above RunTimeout: by the time the comparison
// reads run, the ingest pass on the same tick has either committed its
// snapshot or been cancelled by its deadline.
type WorkerConfig struct {
	IngestInterval       time.Duration `envconfig:"WORKER_INGEST_INTERVAL" default:"5m"`
	ChangeDetectInterval time.Duration `envconfig:"WORKER_CHANGE_DETECT_INTERVAL" default:"5m"`
	ChangeDetectOffset   time.Duration `envconfig:"WORKER_CHANGE_DETECT_OFFSET" default:"90s"`
	RunTimeout           time.Duration `envconfig:"WORKER_RUN_TIMEOUT" default:"1m"`
	IngestEnabled        bool          `envconfig:"WORKER_INGEST_ENABLED" default:"true"`
	ChangeDetectEnabled  bool          `envconfig:"WORKER_CHANGE_DETECT_ENABLED" default:"true"`
}

// Load reads configuration from environment variables
// It first tries to load .env file (useful for local development)
func Load() (*Config, error) {
	// Load .env file if exists (ignore error if not exists)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	return &cfg, nil
}
