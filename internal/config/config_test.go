package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "http://localhost:5000/api/")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIBaseURL != "http://localhost:5000/api" {
		t.Errorf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if cfg.PaymentDelay != 3*time.Second || cfg.PaymentRedirectDelay != 1500*time.Millisecond || cfg.ErrorRedirectDelay != 3*time.Second {
		t.Errorf("delays = %v %v %v", cfg.PaymentDelay, cfg.PaymentRedirectDelay, cfg.ErrorRedirectDelay)
	}
	if cfg.SessionCookie != "sid" || cfg.SessionTTL != 720*time.Hour || cfg.Port != "8080" {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestLoadRequiresAPIBaseURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "API_BASE_URL") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_BASE_URL", "http://api")
	t.Setenv("PAYMENT_DELAY", "10ms")
	t.Setenv("EVENTS_ENABLED", "yes")
	t.Setenv("RABBITMQ_URL", "amqp://broker/")
	t.Setenv("API_TIMEOUT", "not-a-duration")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.PaymentDelay != 10*time.Millisecond || !cfg.EventsEnabled || cfg.RabbitURL != "amqp://broker/" {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.APITimeout != 10*time.Second {
		t.Errorf("APITimeout = %v, want default", cfg.APITimeout)
	}
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
	t.Setenv("RATE_LIMIT_CAPACITY", "0")
	t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
	t.Setenv("RATE_LIMIT_TTL", "1s")

	cfg := LoadRateLimitConfig()
	if cfg.Capacity != 1 || cfg.RefillTokens != 1 || cfg.RefillInterval != 2*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
	if cfg.TTL != 10*time.Second {
		t.Errorf("TTL = %v, want 10s", cfg.TTL)
	}
}

func TestLoadCatalogCacheConfig(t *testing.T) {
	t.Setenv("CACHE_METHODS", "get, head")
	cfg := LoadCatalogCacheConfig()
	if !cfg.Methods["GET"] || !cfg.Methods["HEAD"] || cfg.TTL != 30*time.Second {
		t.Errorf("cfg = %+v", cfg)
	}
}
