package app

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"

	redisclient "github.com/yungbote/coachdesk-backend/internal/clients/redis"
	dbpkg "github.com/yungbote/coachdesk-backend/internal/data/db"
	"github.com/yungbote/coachdesk-backend/internal/observability"
	"github.com/yungbote/coachdesk-backend/internal/platform/envutil"
)

type Config struct {
	Env     string
	Version string
	LogMode string
	Port    string

	LogRedaction bool
	LogHashSalt  string

	DB    dbpkg.Config
	Redis redisclient.Config

	FamilyLockTTL  time.Duration
	FamilyLockWait time.Duration

	TxAttempts     int
	TxRetryBackoff time.Duration

	MetricsAddr string
	Otel        observability.OtelConfig

	CORSAllowedOrigins []string
}

// LoadDotEnv loads path (".env" when empty) without overriding variables already set.
// A missing file is not an error.
func LoadDotEnv(path string) (bool, error) {
	if strings.TrimSpace(path) == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func LoadConfig() Config {
	env := envutil.String("APP_ENV", "development")
	return Config{
		Env:     env,
		Version: envutil.String("APP_VERSION", "dev"),
		LogMode: envutil.String("LOG_MODE", "development"),
		Port:    envutil.String("PORT", "8080"),

		LogRedaction: envutil.Bool("LOG_REDACTION_ENABLED", true),
		LogHashSalt:  envutil.String("LOG_HASH_SALT", ""),

		DB: dbpkg.Config{
			Driver:     envutil.String("DB_DRIVER", dbpkg.DriverPostgres),
			Host:       envutil.String("POSTGRES_HOST", "localhost"),
			Port:       envutil.String("POSTGRES_PORT", "5432"),
			User:       envutil.String("POSTGRES_USER", "postgres"),
			Password:   envutil.String("POSTGRES_PASSWORD", ""),
			Name:       envutil.String("POSTGRES_NAME", "coachdesk"),
			SQLitePath: envutil.String("SQLITE_PATH", "coachdesk.db"),
		},
		Redis: redisclient.Config{
			Addr:     envutil.String("REDIS_ADDR", ""),
			Password: envutil.String("REDIS_PASSWORD", ""),
			DB:       envutil.Int("REDIS_DB", 0),
		},
		FamilyLockTTL:  envutil.Duration("FAMILY_LOCK_TTL", 10*time.Second),
		FamilyLockWait: envutil.Duration("FAMILY_LOCK_WAIT", 5*time.Second),
		TxAttempts:     envutil.Int("TX_RETRY_ATTEMPTS", 3),
		TxRetryBackoff: envutil.Duration("TX_RETRY_BACKOFF", 20*time.Millisecond),
		MetricsAddr:    envutil.String("METRICS_ADDR", ":9090"),
		Otel: observability.OtelConfig{
			Enabled:     envutil.Bool("OTEL_ENABLED", false),
			ServiceName: envutil.String("OTEL_SERVICE_NAME", "coachdesk"),
			Environment: env,
			Version:     envutil.String("APP_VERSION", "dev"),
			Endpoint:    envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:     envutil.String("OTEL_EXPORTER_OTLP_HEADERS", ""),
			Insecure:    envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", false),
			SampleRatio: envutil.Float("OTEL_SAMPLER_RATIO", 1),
		},
		CORSAllowedOrigins: envutil.List("CORS_ALLOWED_ORIGINS", nil),
	}
}

func (c Config) ListenAddr() string {
	port := strings.TrimSpace(c.Port)
	if strings.Contains(port, ":") {
		return port
	}
	return ":" + port
}
