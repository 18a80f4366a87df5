package config

import (
	"time"
)

// Operating modes. Simple mode only upserts profiles and fills the
// configured list; extended mode additionally pushes salon properties
// and emits events (requires events:write scope on the API key).
const (
	ModeSimple   = "simple"
	ModeExtended = "extended"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Klaviyo  KlaviyoConfig  `yaml:"klaviyo"`
	Webhook  WebhookConfig  `yaml:"webhook"`
	Sync     SyncConfig     `yaml:"sync"`
	Log      LogConfig      `yaml:"log"`
	CORS     CORSConfig     `yaml:"cors"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	WebhookPerMin   int           `yaml:"webhook_per_min"  env:"SERVER_WEBHOOK_PER_MIN"  env-default:"120"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"10"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	MigrateOnStart  bool          `yaml:"migrate_on_start"   env:"DATABASE_MIGRATE_ON_START"   env-default:"true"`
}

// KlaviyoConfig holds the downstream Klaviyo V3 API settings.
type KlaviyoConfig struct {
	APIKey string `yaml:"api_key" env:"KLAVIYO_API_KEY" env-required:"true"`
	// ListID is optional: when empty, contacts are upserted but not
	// added to any list.
	ListID   string `yaml:"list_id"  env:"KLAVIYO_LIST_ID"`
	Revision string `yaml:"revision" env:"KLAVIYO_REVISION" env-default:"2024-10-15"`
	BaseURL  string `yaml:"base_url" env:"KLAVIYO_BASE_URL" env-default:"https://a.klaviyo.com/api"`
	Mode     string `yaml:"mode"     env:"KLAVIYO_MODE"     env-default:"simple"`

	Timeout        time.Duration `yaml:"timeout"         env:"KLAVIYO_TIMEOUT"         env-default:"30s"`
	MaxAttempts    int           `yaml:"max_attempts"    env:"KLAVIYO_MAX_ATTEMPTS"    env-default:"3"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"KLAVIYO_INITIAL_BACKOFF" env-default:"1s"`
}

// WebhookConfig holds inbound webhook settings.
type WebhookConfig struct {
	// Secret is the shared HMAC-SHA256 key for signature verification.
	// When empty, verification is skipped (development only).
	Secret string `yaml:"secret" env:"WEBHOOK_SECRET"`
}

// SyncConfig holds daily sync scheduling settings.
type SyncConfig struct {
	// Hour is the UTC hour of day at which the daily sync runs (0-23).
	Hour int `yaml:"hour" env:"SYNC_HOUR" env-default:"0"`
	// RetentionDays controls how long processed buffer rows are kept
	// before cmd/cleanup removes them.
	RetentionDays int `yaml:"retention_days" env:"SYNC_RETENTION_DAYS" env-default:"90"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// CORSConfig holds CORS settings for the webhook and admin endpoints.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-Webhook-Signature"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// Extended reports whether the deployment runs in extended mode.
func (c KlaviyoConfig) Extended() bool {
	return c.Mode == ModeExtended
}
