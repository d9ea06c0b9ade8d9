// Package config holds the settings of the mock banking API.
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Port             string        `mapstructure:"PORT"`
	BasePath         string        `mapstructure:"BASE_PATH"`
	JWTSecret        string        `mapstructure:"JWT_SECRET"`
	TokenTTL         time.Duration `mapstructure:"TOKEN_TTL"`
	AdminPassword    string        `mapstructure:"ADMIN_PASSWORD"`
	CustomerPassword string        `mapstructure:"CUSTOMER_PASSWORD"`
	SeedDemo         bool          `mapstructure:"SEED_DEMO"`
	// StatusRoute serves PATCH /admin/accounts/{id}/status. Turning it off
	// leaves only the older PATCH /admin/accounts/{id} route.
	StatusRoute bool   `mapstructure:"STATUS_ROUTE"`
	GinMode     string `mapstructure:"GIN_MODE"`
}

func LoadConfig(path string) (config Config, err error) {
	if err := godotenv.Load(filepath.Join(path, ".env")); err != nil && !os.IsNotExist(err) {
		log.Printf("level=warn component=config msg=\"failed to load .env\" err=%v", err)
	}

	viper.AutomaticEnv()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BASE_PATH", "/api")
	viper.SetDefault("TOKEN_TTL", "1h")
	viper.SetDefault("ADMIN_PASSWORD", "admin123")
	viper.SetDefault("CUSTOMER_PASSWORD", "customer123")
	viper.SetDefault("SEED_DEMO", true)
	viper.SetDefault("STATUS_ROUTE", true)
	viper.SetDefault("GIN_MODE", "debug")

	_ = viper.BindEnv("PORT", "MOCKBANK_PORT", "PORT")
	_ = viper.BindEnv("BASE_PATH")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("TOKEN_TTL")
	_ = viper.BindEnv("ADMIN_PASSWORD")
	_ = viper.BindEnv("CUSTOMER_PASSWORD")
	_ = viper.BindEnv("SEED_DEMO")
	_ = viper.BindEnv("STATUS_ROUTE")
	_ = viper.BindEnv("GIN_MODE")

	if err = viper.Unmarshal(&config); err != nil {
		return config, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if strings.TrimSpace(config.JWTSecret) == "" {
		return config, fmt.Errorf("JWT_SECRET environment variable is not set")
	}
	if config.TokenTTL <= 0 {
		return config, fmt.Errorf("TOKEN_TTL must be positive")
	}
	config.BasePath = "/" + strings.Trim(config.BasePath, "/")
	if config.BasePath == "/" {
		config.BasePath = ""
	}
	return config, nil
}
