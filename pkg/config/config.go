package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/nirajw/eshop-storefront/pkg/enums"
)

type Config struct {
	App      AppConfig
	API      APIConfig
	Storage  StorageConfig
	Redis    RedisConfig
	Cart     CartConfig
	Checkout CheckoutConfig
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(EnvPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Storage.validate(cfg.Redis); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type AppConfig struct {
	Env          string `envconfig:"ESHOP_APP_ENV" default:"dev"`
	LogLevel     string `envconfig:"ESHOP_LOG_LEVEL" default:"info"`
	LogWarnStack bool   `envconfig:"ESHOP_LOG_WARN_STACK" default:"false"`
}

func (a AppConfig) IsDev() bool {
	return strings.EqualFold(a.Env, AppEnvDev)
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, AppEnvProd)
}

// APIConfig points the client at the storefront backend.
type APIConfig struct {
	BaseURL string        `envconfig:"ESHOP_API_BASE_URL" default:"http://localhost:8080/api"`
	Timeout time.Duration `envconfig:"ESHOP_API_TIMEOUT" default:"10s"`
}

// StorageConfig selects the local key-value backend standing in for the
// browser's persistent storage.
type StorageConfig struct {
	Backend enums.StorageBackend `envconfig:"ESHOP_STORAGE_BACKEND" default:"sqlite"`
	SQLite  SQLiteConfig
}

type SQLiteConfig struct {
	Path string `envconfig:"ESHOP_SQLITE_PATH" default:"eshop-local.db"`
}

type RedisConfig struct {
	URL          string        `envconfig:"ESHOP_REDIS_URL"`
	Address      string        `envconfig:"ESHOP_REDIS_ADDR"`
	Password     string        `envconfig:"ESHOP_REDIS_PASSWORD"`
	DB           int           `envconfig:"ESHOP_REDIS_DB" default:"0"`
	PoolSize     int           `envconfig:"ESHOP_REDIS_POOL_SIZE" default:"10"`
	MinIdleConns int           `envconfig:"ESHOP_REDIS_MIN_IDLE_CONNS" default:"2"`
	DialTimeout  time.Duration `envconfig:"ESHOP_REDIS_DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"ESHOP_REDIS_READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"ESHOP_REDIS_WRITE_TIMEOUT" default:"5s"`
}

// CartConfig carries the cart session tunables.
type CartConfig struct {
	PendingActionTTLMinutes int `envconfig:"ESHOP_CART_PENDING_TTL_MINUTES" default:"30"`
}

// PendingActionTTL returns the deferred add-to-cart expiry window.
func (c CartConfig) PendingActionTTL() time.Duration {
	if c.PendingActionTTLMinutes <= 0 {
		return 0
	}
	return time.Duration(c.PendingActionTTLMinutes) * time.Minute
}

// CheckoutConfig carries the order total constants.
type CheckoutConfig struct {
	ShippingFlatCents int64   `envconfig:"ESHOP_CHECKOUT_SHIPPING_CENTS" default:"599"`
	TaxRate           float64 `envconfig:"ESHOP_CHECKOUT_TAX_RATE" default:"0.08"`
}

func (s *StorageConfig) validate(redis RedisConfig) error {
	if !s.Backend.IsValid() {
		return fmt.Errorf("unknown storage backend %q", s.Backend)
	}
	if s.Backend == enums.StorageBackendSQLite && strings.TrimSpace(s.SQLite.Path) == "" {
		return fmt.Errorf("%s is required for the sqlite backend", EnvSQLitePath)
	}
	if s.Backend == enums.StorageBackendRedis && redis.URL == "" && redis.Address == "" {
		return fmt.Errorf("either %s or %s is required for the redis backend", EnvRedisURL, EnvRedisAddr)
	}
	return nil
}
