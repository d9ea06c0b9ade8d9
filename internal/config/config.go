// Package config loads the console's settings from the environment and an
// optional .env file.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	TokenStoreFile   = "file"
	TokenStoreRedis  = "redis"
	TokenStoreMemory = "memory"
)

type Config struct {
	BankAPIURL     string        `mapstructure:"BANK_API_URL"`
	TokenStore     string        `mapstructure:"TOKEN_STORE"`
	TokenFile      string        `mapstructure:"TOKEN_FILE"`
	StoreBackend   string        `mapstructure:"STORE_BACKEND"`
	RedisAddr      string        `mapstructure:"REDIS_ADDR"`
	RedisPassword  string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB        int           `mapstructure:"REDIS_DB"`
	DemoMode       bool          `mapstructure:"DEMO_MODE"`
	StatusFallback string        `mapstructure:"STATUS_FALLBACK"`
	RedirectDelay  time.Duration `mapstructure:"REDIRECT_DELAY"`
	HTTPTimeout    time.Duration `mapstructure:"HTTP_TIMEOUT"`
	Currency       string        `mapstructure:"CURRENCY"`
	DailyLimitRaw  string        `mapstructure:"DAILY_LIMIT"`
	PageSize       int           `mapstructure:"PAGE_SIZE"`
}

// DailyLimit is the client-side hint for single operations; zero disables it.
func (c Config) DailyLimit() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(c.DailyLimitRaw))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UsesRedis reports whether any component needs a redis connection.
func (c Config) UsesRedis() bool {
	return c.TokenStore == TokenStoreRedis || c.StoreBackend == "redis"
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, "eaglebank", "session.json")
}

// LoadConfig reads the environment, then path/.env when present. Real
// environment variables win over the file.
func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !os.IsNotExist(err) {
		log.Printf("level=warn component=config msg=\"failed to load .env\" err=%v", err)
	}

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("BANK_API_URL", "http://localhost:8080/api")
	viper.SetDefault("TOKEN_STORE", TokenStoreFile)
	viper.SetDefault("TOKEN_FILE", defaultTokenFile())
	viper.SetDefault("STORE_BACKEND", "memory")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("DEMO_MODE", false)
	viper.SetDefault("STATUS_FALLBACK", "strict")
	viper.SetDefault("REDIRECT_DELAY", "3s")
	viper.SetDefault("HTTP_TIMEOUT", "30s")
	viper.SetDefault("CURRENCY", "MAD")
	viper.SetDefault("DAILY_LIMIT", "10000")
	viper.SetDefault("PAGE_SIZE", 10)

	_ = viper.BindEnv("BANK_API_URL", "BANK_API_URL", "API_URL")
	_ = viper.BindEnv("TOKEN_STORE")
	_ = viper.BindEnv("TOKEN_FILE")
	_ = viper.BindEnv("STORE_BACKEND")
	_ = viper.BindEnv("REDIS_ADDR")
	_ = viper.BindEnv("REDIS_PASSWORD")
	_ = viper.BindEnv("REDIS_DB")
	_ = viper.BindEnv("DEMO_MODE")
	_ = viper.BindEnv("STATUS_FALLBACK")
	_ = viper.BindEnv("REDIRECT_DELAY")
	_ = viper.BindEnv("HTTP_TIMEOUT")
	_ = viper.BindEnv("CURRENCY")
	_ = viper.BindEnv("DAILY_LIMIT")
	_ = viper.BindEnv("PAGE_SIZE")

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	config.BankAPIURL = strings.TrimRight(strings.TrimSpace(config.BankAPIURL), "/")
	config.TokenStore = strings.ToLower(strings.TrimSpace(config.TokenStore))
	config.StoreBackend = strings.ToLower(strings.TrimSpace(config.StoreBackend))
	config.StatusFallback = strings.ToLower(strings.TrimSpace(config.StatusFallback))
	config.Currency = strings.ToUpper(strings.TrimSpace(config.Currency))

	if err := config.validate(); err != nil {
		return config, err
	}
	return config, nil
}

func (c Config) validate() error {
	if c.BankAPIURL == "" {
		return fmt.Errorf("BANK_API_URL must not be empty")
	}
	switch c.TokenStore {
	case TokenStoreFile, TokenStoreRedis, TokenStoreMemory:
	default:
		return fmt.Errorf("TOKEN_STORE must be one of file, redis, memory; got %q", c.TokenStore)
	}
	switch c.StoreBackend {
	case "memory", "redis":
	default:
		return fmt.Errorf("STORE_BACKEND must be memory or redis; got %q", c.StoreBackend)
	}
	switch c.StatusFallback {
	case "strict", "legacy":
	default:
		return fmt.Errorf("STATUS_FALLBACK must be strict or legacy; got %q", c.StatusFallback)
	}
	if c.RedirectDelay < 0 {
		return fmt.Errorf("REDIRECT_DELAY must not be negative")
	}
	if c.HTTPTimeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive")
	}
	return nil
}
