package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/tair/inventory-ledger/pkg/database"
)

// Config aggregates runtime settings; everything comes from the environment
// (optionally seeded by a .env file) with development defaults.
type Config struct {
	ServiceName    string
	Environment    string
	LogLevel       string
	HTTPPort       string
	RequestTimeout time.Duration

	Database database.Config

	RedisAddr          string
	RedisDB            int
	CacheTTL           time.Duration
	RateLimitPerMinute int

	KafkaBrokers []string

	TracingEnabled bool
	JaegerEndpoint string

	LowStockThreshold int
}

// IsDevelopment reports whether pretty console logging should be used
func (c Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from the process environment only.
func FromEnv() (Config, error) {
	cfg := Config{
		ServiceName: getEnv("OTEL_SERVICE_NAME", "inventory-service"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		HTTPPort:    getEnv("HTTP_PORT", "8082"),
		Database: database.Config{
			Driver:   strings.ToLower(getEnv("DB_DRIVER", database.DriverSQLite)),
			Path:     getEnv("DB_PATH", "inventory.db"),
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "inventorydb"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		RedisAddr:      getEnv("REDIS_ADDR", ""),
		KafkaBrokers:   splitCSV(getEnv("KAFKA_BROKERS", "")),
		JaegerEndpoint: getEnv("JAEGER_ENDPOINT", "http://localhost:14268/api/traces"),
	}

	switch cfg.Database.Driver {
	case database.DriverSQLite, database.DriverPostgres:
	default:
		return Config{}, fmt.Errorf("DB_DRIVER must be %q or %q, got %q",
			database.DriverSQLite, database.DriverPostgres, cfg.Database.Driver)
	}

	maxOpen, err := getEnvInt("DB_MAX_OPEN_CONNS", 25)
	if err != nil {
		return Config{}, fmt.Errorf("invalid DB_MAX_OPEN_CONNS: %w", err)
	}
	if maxOpen <= 0 {
		return Config{}, fmt.Errorf("DB_MAX_OPEN_CONNS must be > 0")
	}
	cfg.Database.MaxOpenConns = maxOpen

	timeoutSec, err := getEnvInt("REQUEST_TIMEOUT_SEC", 30)
	if err != nil {
		return Config{}, fmt.Errorf("invalid REQUEST_TIMEOUT_SEC: %w", err)
	}
	if timeoutSec <= 0 {
		return Config{}, fmt.Errorf("REQUEST_TIMEOUT_SEC must be > 0")
	}
	cfg.RequestTimeout = time.Duration(timeoutSec) * time.Second

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		return Config{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	cfg.RedisDB = redisDB

	ttlSec, err := getEnvInt("CACHE_TTL_SEC", 300)
	if err != nil {
		return Config{}, fmt.Errorf("invalid CACHE_TTL_SEC: %w", err)
	}
	if ttlSec <= 0 {
		return Config{}, fmt.Errorf("CACHE_TTL_SEC must be > 0")
	}
	cfg.CacheTTL = time.Duration(ttlSec) * time.Second

	rateLimit, err := getEnvInt("RATE_LIMIT_PER_MIN", 100)
	if err != nil {
		return Config{}, fmt.Errorf("invalid RATE_LIMIT_PER_MIN: %w", err)
	}
	if rateLimit < 0 {
		return Config{}, fmt.Errorf("RATE_LIMIT_PER_MIN must be >= 0")
	}
	cfg.RateLimitPerMinute = rateLimit

	lowStock, err := getEnvInt("LOW_STOCK_THRESHOLD", 5)
	if err != nil {
		return Config{}, fmt.Errorf("invalid LOW_STOCK_THRESHOLD: %w", err)
	}
	if lowStock < 0 {
		return Config{}, fmt.Errorf("LOW_STOCK_THRESHOLD must be >= 0")
	}
	cfg.LowStockThreshold = lowStock

	tracing, err := strconv.ParseBool(getEnv("TRACING_ENABLED", "false"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid TRACING_ENABLED: %w", err)
	}
	cfg.TracingEnabled = tracing

	return cfg, nil
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		s := strings.TrimSpace(p)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
