package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/playperu/secretdraw/internal/join"
	"github.com/playperu/secretdraw/internal/store/jsonbin"
)

const (
	BackendJSONBin = "jsonbin"
	BackendSQLite  = "sqlite"
	BackendRedis   = "redis"
	BackendMemory  = "memory"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
	SPADir   string     `env:"SPA_DIR" envDefault:"../web/dist"`

	StoreBackend   string        `env:"STORE_BACKEND" envDefault:"jsonbin"`
	StoreTimeout   time.Duration `env:"STORE_TIMEOUT" envDefault:"10s"`
	JSONBinBaseURL string        `env:"JSONBIN_BASE_URL" envDefault:"https://api.jsonbin.io/v3/b"`
	JSONBinBinID   string        `env:"JSONBIN_BIN_ID"`
	JSONBinAPIKey  string        `env:"JSONBIN_API_KEY"`
	DBPath         string        `env:"DB_PATH" envDefault:"data/secretdraw.db"`
	RedisURL       string        `env:"REDIS_URL" envDefault:"redis://localhost:6379/0"`
	RedisKey       string        `env:"REDIS_KEY" envDefault:"secretdraw:games"`

	AdminKey        string        `env:"ADMIN_KEY" envDefault:"admin123"`
	JoinMaxAttempts int           `env:"JOIN_MAX_ATTEMPTS" envDefault:"3"`
	JoinVerify      bool          `env:"JOIN_VERIFY" envDefault:"true"`
	JoinRetryDelay  time.Duration `env:"JOIN_RETRY_DELAY" envDefault:"50ms"`

	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`
	SeedDemo      bool   `env:"SEED_DEMO" envDefault:"false"`
}

var ErrInvalid = errors.New("invalid configuration")

// LoadDotEnv loads environment variables from a .env file if present.
// Existing environment variables are not overwritten.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return godotenv.Load(path)
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	cfg.StoreBackend = strings.ToLower(strings.TrimSpace(cfg.StoreBackend))
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.StoreBackend {
	case BackendJSONBin:
		if c.JSONBinBinID == "" || c.JSONBinAPIKey == "" {
			return fmt.Errorf("%w: %w (set JSONBIN_BIN_ID and JSONBIN_API_KEY)", ErrInvalid, jsonbin.ErrMissingConfig)
		}
	case BackendSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("%w: DB_PATH is empty", ErrInvalid)
		}
	case BackendRedis:
		if c.RedisURL == "" {
			return fmt.Errorf("%w: REDIS_URL is empty", ErrInvalid)
		}
	case BackendMemory:
	default:
		return fmt.Errorf("%w: unknown STORE_BACKEND %q", ErrInvalid, c.StoreBackend)
	}
	if c.JoinMaxAttempts < 1 {
		return fmt.Errorf("%w: JOIN_MAX_ATTEMPTS must be at least 1", ErrInvalid)
	}
	if c.StoreTimeout <= 0 {
		return fmt.Errorf("%w: STORE_TIMEOUT must be positive", ErrInvalid)
	}
	return nil
}

func (c *Config) JoinOptions() join.Options {
	return join.Options{
		MaxAttempts: c.JoinMaxAttempts,
		Verify:      c.JoinVerify,
		RetryDelay:  c.JoinRetryDelay,
	}
}
