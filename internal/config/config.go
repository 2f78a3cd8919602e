package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Tickets  TicketConfig
	Notify   NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	CORSOrigins           string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr         string
	Password     string
	DB           int
	EventChannel string
}

// LoggerConfig configures logging behavior. Format is "json" or "console".
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthMode selects the bearer token verification strategy.
type AuthMode string

const (
	// AuthModeHMAC verifies HS256 signatures with JWTSecret.
	AuthModeHMAC AuthMode = "hmac"
	// AuthModeStatic compares the raw bearer token against a bcrypt hash.
	AuthModeStatic AuthMode = "static"
	// AuthModeInsecure decodes claims without verifying the signature,
	// trusting row-level enforcement downstream. Explicit opt-in only.
	AuthModeInsecure AuthMode = "insecure"
)

// AuthConfig defines authentication parameters.
type AuthConfig struct {
	Mode            AuthMode
	JWTSecret       string
	StaticTokenHash string
	StaticOwnerID   string
	StaticEmail     string
}

// TicketConfig carries domain-level defaults.
type TicketConfig struct {
	// DefaultStatus is applied when a create payload omits the status.
	// An explicitly provided invalid status is still rejected.
	DefaultStatus string
	// DefaultPriority is applied when a create payload omits the priority.
	DefaultPriority string
}

// NotificationConfig configures outbound notification stubs. Empty values
// disable the corresponding channel.
type NotificationConfig struct {
	EmailFrom  string
	WebhookURL string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	mode := AuthMode(getEnv("AUTH_MODE", string(AuthModeHMAC)))
	switch mode {
	case AuthModeHMAC, AuthModeStatic, AuthModeInsecure:
	default:
		return nil, fmt.Errorf("invalid AUTH_MODE %q", mode)
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "ticketflow"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			CORSOrigins:           getEnv("CORS_ORIGINS", "http://localhost:3000,http://localhost:5173"),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:         getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password:     os.Getenv("REDIS_PASSWORD"),
			DB:           redisDB,
			EventChannel: getEnv("REDIS_EVENT_CHANNEL", "ticketflow.events"),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			Mode:            mode,
			JWTSecret:       getEnv("AUTH_JWT_SECRET", "dev-secret"),
			StaticTokenHash: os.Getenv("AUTH_STATIC_TOKEN_HASH"),
			StaticOwnerID:   os.Getenv("AUTH_STATIC_OWNER_ID"),
			StaticEmail:     os.Getenv("AUTH_STATIC_EMAIL"),
		},
		Tickets: TicketConfig{
			DefaultStatus:   getEnv("TICKETS_DEFAULT_STATUS", "open"),
			DefaultPriority: getEnv("TICKETS_DEFAULT_PRIORITY", "medium"),
		},
		Notify: NotificationConfig{
			EmailFrom:  os.Getenv("NOTIFY_EMAIL_FROM"),
			WebhookURL: os.Getenv("NOTIFY_WEBHOOK_URL"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
