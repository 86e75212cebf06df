// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
)

// FX providers
const (
	FXProviderYahoo        = "yahoo"
	FXProviderExchangeRate = "exchangerate"
)

// ScheduleParser accepts standard five-field specs, an optional leading
// seconds field, and descriptors such as "@every 60s".
var ScheduleParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// Config holds application configuration
type Config struct {
	Transactions    string // source URI: path, file://, s3://, sqlite://, postgres://
	TickersFile     string // empty uses the embedded mapping
	HomeCurrency    string
	ForeignCurrency string
	FallbackFXRate  float64
	FXProvider      string
	Timezone        string
	Location        *time.Location
	RefreshSchedule string
	Concurrency     int
	LookupTimeout   time.Duration
	Port            int
	LogLevel        string
	DevMode         bool
	S3              S3Config
}

// S3Config holds credentials for s3:// transaction sources
type S3Config struct {
	Region    string
	Endpoint  string
	AccessKey string
	SecretKey string
}

// Load reads configuration from environment variables.
// A .env file in the working directory is loaded first if present.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if it doesn't)
	_ = godotenv.Load()

	cfg := &Config{
		Transactions:    getEnv("FOLIO_TRANSACTIONS", "bux_export.csv"),
		TickersFile:     getEnv("FOLIO_TICKERS", ""),
		HomeCurrency:    strings.ToUpper(getEnv("FOLIO_HOME_CURRENCY", "EUR")),
		ForeignCurrency: strings.ToUpper(getEnv("FOLIO_FOREIGN_CURRENCY", "USD")),
		FallbackFXRate:  getEnvAsFloat("FOLIO_FALLBACK_FX_RATE", 0.92),
		FXProvider:      strings.ToLower(getEnv("FOLIO_FX_PROVIDER", FXProviderYahoo)),
		Timezone:        getEnv("FOLIO_TIMEZONE", "Europe/Amsterdam"),
		RefreshSchedule: getEnv("FOLIO_REFRESH_SCHEDULE", "@every 60s"),
		Concurrency:     getEnvAsInt("FOLIO_LOOKUP_CONCURRENCY", 1),
		LookupTimeout:   time.Duration(getEnvAsInt("FOLIO_LOOKUP_TIMEOUT", 15)) * time.Second,
		Port:            getEnvAsInt("FOLIO_PORT", 8001),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		DevMode:         getEnvAsBool("DEV_MODE", false),
		S3: S3Config{
			Region:    getEnv("FOLIO_S3_REGION", ""),
			Endpoint:  getEnv("FOLIO_S3_ENDPOINT", ""),
			AccessKey: getEnv("FOLIO_S3_ACCESS_KEY", ""),
			SecretKey: getEnv("FOLIO_S3_SECRET_KEY", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration and resolves the export time zone
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Transactions) == "" {
		return fmt.Errorf("FOLIO_TRANSACTIONS must not be empty")
	}
	if !isCurrencyCode(c.HomeCurrency) {
		return fmt.Errorf("invalid home currency %q", c.HomeCurrency)
	}
	if !isCurrencyCode(c.ForeignCurrency) {
		return fmt.Errorf("invalid foreign currency %q", c.ForeignCurrency)
	}
	if !(c.FallbackFXRate > 0) || math.IsInf(c.FallbackFXRate, 0) {
		return fmt.Errorf("fallback FX rate must be positive, got %v", c.FallbackFXRate)
	}
	switch c.FXProvider {
	case FXProviderYahoo, FXProviderExchangeRate:
	default:
		return fmt.Errorf("unknown FX provider %q", c.FXProvider)
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("lookup concurrency must be at least 1, got %d", c.Concurrency)
	}
	if c.LookupTimeout < 0 {
		return fmt.Errorf("lookup timeout must not be negative")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port %d", c.Port)
	}
	if _, err := ScheduleParser.Parse(c.RefreshSchedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.RefreshSchedule, err)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc

	return nil
}

func isCurrencyCode(code string) bool {
	if len(code) != 3 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}
