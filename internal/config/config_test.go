package config

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "bux_export.csv", cfg.Transactions)
	assert.Equal(t, "", cfg.TickersFile)
	assert.Equal(t, "EUR", cfg.HomeCurrency)
	assert.Equal(t, "USD", cfg.ForeignCurrency)
	assert.Equal(t, 0.92, cfg.FallbackFXRate)
	assert.Equal(t, FXProviderYahoo, cfg.FXProvider)
	assert.Equal(t, "@every 60s", cfg.RefreshSchedule)
	assert.Equal(t, 1, cfg.Concurrency)
	assert.Equal(t, 15*time.Second, cfg.LookupTimeout)
	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
	require.NotNil(t, cfg.Location)
	assert.Equal(t, "Europe/Amsterdam", cfg.Location.String())
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_TRANSACTIONS", "s3://exports/bux.csv")
	t.Setenv("FOLIO_HOME_CURRENCY", "gbp")
	t.Setenv("FOLIO_FALLBACK_FX_RATE", "0.79")
	t.Setenv("FOLIO_FX_PROVIDER", "ExchangeRate")
	t.Setenv("FOLIO_LOOKUP_CONCURRENCY", "4")
	t.Setenv("FOLIO_REFRESH_SCHEDULE", "0 */5 * * * *")
	t.Setenv("FOLIO_TIMEZONE", "UTC")
	t.Setenv("FOLIO_S3_ENDPOINT", "http://localhost:9000")
	t.Setenv("DEV_MODE", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3://exports/bux.csv", cfg.Transactions)
	assert.Equal(t, "GBP", cfg.HomeCurrency)
	assert.Equal(t, 0.79, cfg.FallbackFXRate)
	assert.Equal(t, FXProviderExchangeRate, cfg.FXProvider)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, time.UTC, cfg.Location)
	assert.Equal(t, "http://localhost:9000", cfg.S3.Endpoint)
	assert.True(t, cfg.DevMode)
}

func TestLoad_InvalidNumbersFallBackToDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FOLIO_PORT", "not-a-port")
	t.Setenv("FOLIO_FALLBACK_FX_RATE", "abc")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, 0.92, cfg.FallbackFXRate)
}

func TestLoad_NonFiniteFallbackRate(t *testing.T) {
	for _, value := range []string{"NaN", "Inf"} {
		t.Run(value, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv("FOLIO_FALLBACK_FX_RATE", value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Transactions:    "bux_export.csv",
			HomeCurrency:    "EUR",
			ForeignCurrency: "USD",
			FallbackFXRate:  0.92,
			FXProvider:      FXProviderYahoo,
			Timezone:        "Europe/Amsterdam",
			RefreshSchedule: "@every 60s",
			Concurrency:     1,
			Port:            8001,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"empty source", func(c *Config) { c.Transactions = " " }},
		{"bad home currency", func(c *Config) { c.HomeCurrency = "EURO" }},
		{"bad foreign currency", func(c *Config) { c.ForeignCurrency = "us" }},
		{"zero fallback", func(c *Config) { c.FallbackFXRate = 0 }},
		{"NaN fallback", func(c *Config) { c.FallbackFXRate = math.NaN() }},
		{"infinite fallback", func(c *Config) { c.FallbackFXRate = math.Inf(1) }},
		{"unknown provider", func(c *Config) { c.FXProvider = "ecb" }},
		{"zero concurrency", func(c *Config) { c.Concurrency = 0 }},
		{"negative timeout", func(c *Config) { c.LookupTimeout = -time.Second }},
		{"bad port", func(c *Config) { c.Port = 70000 }},
		{"bad schedule", func(c *Config) { c.RefreshSchedule = "every minute" }},
		{"bad timezone", func(c *Config) { c.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
