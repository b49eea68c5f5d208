package config

import (
	"errors"
	"log"
	"time"

	"github.com/joho/godotenv"

	pkgcfg "github.com/bukucerdas/bookstore/pkg/config"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	AppEnv     string
	ServerPort int
	LogLevel   string

	DBDriver    string
	DatabaseURL string

	JWTSecret []byte

	PublicDir string

	KafkaBrokers []string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	ReindexSchedule string

	AuthRatePerSec float64
	AuthRateBurst  int

	CSRFEnabled bool
	CORSOrigins []string

	ShutdownTimeout time.Duration
}

func (c *Config) Production() bool { return c.AppEnv == "production" }

// Load reads .env (if present) and the process environment. A missing
// JWT_SECRET is reported as ErrMissingJWTSecret.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}
	return FromEnv()
}

func FromEnv() (*Config, error) {
	cfg := &Config{
		AppEnv:     pkgcfg.EnvDefault("APP_ENV", "development"),
		ServerPort: pkgcfg.EnvIntDefault("SERVER_PORT", 8080),
		LogLevel:   pkgcfg.EnvDefault("LOG_LEVEL", "info"),

		DBDriver:    pkgcfg.EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: pkgcfg.EnvDefault("DATABASE_URL", ""),

		JWTSecret: []byte(pkgcfg.EnvDefault("JWT_SECRET", "")),

		PublicDir: pkgcfg.EnvDefault("PUBLIC_DIR", "public"),

		KafkaBrokers: pkgcfg.CSV(pkgcfg.EnvDefault("KAFKA_BROKERS", "")),

		ESURL:      pkgcfg.EnvDefault("ES_URL", ""),
		ESUser:     pkgcfg.EnvDefault("ES_USER", ""),
		ESPassword: pkgcfg.EnvDefault("ES_PASSWORD", ""),
		ESIndex:    pkgcfg.EnvDefault("ES_INDEX", "books"),

		ReindexSchedule: pkgcfg.EnvDefault("REINDEX_SCHEDULE", "@every 1h"),

		AuthRatePerSec: pkgcfg.EnvFloatDefault("AUTH_RATE_PER_SEC", 5),
		AuthRateBurst:  pkgcfg.EnvIntDefault("AUTH_RATE_BURST", 10),

		CSRFEnabled: pkgcfg.EnvBoolDefault("CSRF_ENABLED", true),
		CORSOrigins: pkgcfg.CSV(pkgcfg.EnvDefault("CORS_ORIGINS", "")),

		ShutdownTimeout: pkgcfg.EnvDurationDefault("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if len(cfg.JWTSecret) == 0 {
		return nil, ErrMissingJWTSecret
	}
	return cfg, nil
}
