package config

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("BANK_API_URL", "")
	t.Setenv("API_URL", "")
	t.Setenv("TOKEN_STORE", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("STATUS_FALLBACK", "")
	t.Setenv("DEMO_MODE", "")
	t.Setenv("PAGE_SIZE", "")
	t.Setenv("REDIRECT_DELAY", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("CURRENCY", "")
	t.Setenv("DAILY_LIMIT", "")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BankAPIURL != "http://localhost:8080/api" {
		t.Fatalf("expected default api url, got %q", cfg.BankAPIURL)
	}
	if cfg.TokenStore != TokenStoreFile || cfg.StoreBackend != "memory" || cfg.StatusFallback != "strict" {
		t.Fatalf("unexpected backends %+v", cfg)
	}
	if cfg.DemoMode {
		t.Fatal("demo mode must be off by default")
	}
	if cfg.RedirectDelay != 3*time.Second || cfg.PageSize != 10 || cfg.Currency != "MAD" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.UsesRedis() {
		t.Fatal("default config must not need redis")
	}
}

func TestLoadConfig_ReadsEnvironment(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("BANK_API_URL", " https://bank.example.com/api/ ")
	t.Setenv("TOKEN_STORE", "Redis")
	t.Setenv("STATUS_FALLBACK", "LEGACY")
	t.Setenv("DEMO_MODE", "true")
	t.Setenv("PAGE_SIZE", "25")
	t.Setenv("DAILY_LIMIT", "2500.50")
	t.Setenv("CURRENCY", "eur")

	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig returned error: %v", err)
	}
	if cfg.BankAPIURL != "https://bank.example.com/api" {
		t.Fatalf("expected trimmed api url, got %q", cfg.BankAPIURL)
	}
	if cfg.TokenStore != TokenStoreRedis || !cfg.UsesRedis() {
		t.Fatalf("expected redis token store, got %q", cfg.TokenStore)
	}
	if cfg.StatusFallback != "legacy" || !cfg.DemoMode || cfg.PageSize != 25 || cfg.Currency != "EUR" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.DailyLimit().String() != "2500.5" {
		t.Fatalf("expected daily limit 2500.5, got %s", cfg.DailyLimit())
	}
}

func TestLoadConfig_Rejects(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		mention string
	}{
		{name: "unknown token store", key: "TOKEN_STORE", value: "cookie", mention: "TOKEN_STORE"},
		{name: "unknown store backend", key: "STORE_BACKEND", value: "postgres", mention: "STORE_BACKEND"},
		{name: "unknown fallback", key: "STATUS_FALLBACK", value: "lenient", mention: "STATUS_FALLBACK"},
		{name: "zero page size", key: "PAGE_SIZE", value: "0", mention: "PAGE_SIZE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			viper.Reset()
			t.Cleanup(viper.Reset)
			t.Setenv(tt.key, tt.value)

			_, err := LoadConfig(t.TempDir())
			if err == nil {
				t.Fatal("expected an error")
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Fatalf("expected error to mention %s, got %v", tt.mention, err)
			}
		})
	}
}

func TestDailyLimitIgnoresGarbage(t *testing.T) {
	if !(Config{DailyLimitRaw: "lots"}).DailyLimit().IsZero() {
		t.Fatal("unparsable limit must disable the check")
	}
}
