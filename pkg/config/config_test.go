package config

import (
	"testing"
	"time"

	"github.com/nirajw/eshop-storefront/pkg/enums"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.API.BaseURL != "http://localhost:8080/api" {
		t.Fatalf("unexpected API base URL: %q", cfg.API.BaseURL)
	}
	if cfg.Storage.Backend != enums.StorageBackendSQLite {
		t.Fatalf("expected sqlite backend by default, got %q", cfg.Storage.Backend)
	}
	if got := cfg.Cart.PendingActionTTL(); got != 30*time.Minute {
		t.Fatalf("expected pending TTL 30m, got %v", got)
	}
	if cfg.Checkout.ShippingFlatCents != 599 {
		t.Fatalf("unexpected shipping cents: %d", cfg.Checkout.ShippingFlatCents)
	}
	if cfg.Checkout.TaxRate != 0.08 {
		t.Fatalf("unexpected tax rate: %v", cfg.Checkout.TaxRate)
	}
	if !cfg.App.IsDev() {
		t.Fatalf("expected dev env by default, got %q", cfg.App.Env)
	}
}

func TestLoad_RedisBackendRequiresAddress(t *testing.T) {
	t.Setenv("ESHOP_STORAGE_BACKEND", "redis")

	if _, err := Load(); err == nil {
		t.Fatal("expected redis backend without address to return an error")
	}

	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}
	if cfg.Storage.Backend != enums.StorageBackendRedis {
		t.Fatalf("expected redis backend, got %q", cfg.Storage.Backend)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("ESHOP_STORAGE_BACKEND", "cloud")

	if _, err := Load(); err == nil {
		t.Fatal("expected unknown backend to return an error")
	}
}
