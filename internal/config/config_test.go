package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadFromEnv_DefaultValues(t *testing.T) {
	for _, key := range []string{"GITHUB_USERNAME", "GITHUB_TOKEN", "STOCK_SYMBOL", "LOG_LEVEL", "HTTP_TIMEOUT", "SITE_LANG"} {
		t.Setenv(key, "")
	}

	cfg := LoadFromEnv()
	assert.Equal(t, "Bouhzial", cfg.GitHub.Username)
	assert.Empty(t, cfg.GitHub.Token)
	assert.Equal(t, "^GSPC", cfg.Stock.Symbol)
	assert.Equal(t, "S&P 500", cfg.Stock.Label)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "en", cfg.Lang)
	assert.Equal(t, 10*time.Second, cfg.HTTPTimeout)
	assert.NoError(t, cfg.Validate())
}

func TestLoadFromEnv_CustomValues(t *testing.T) {
	t.Setenv("GITHUB_USERNAME", "octocat")
	t.Setenv("GITHUB_TOKEN", "ghp_x")
	t.Setenv("WEATHER_CITY", "Paris")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("HTTP_TIMEOUT", "3s")

	cfg := LoadFromEnv()
	assert.Equal(t, "octocat", cfg.GitHub.Username)
	assert.Equal(t, "ghp_x", cfg.GitHub.Token)
	assert.Equal(t, "Paris", cfg.Weather.City)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, 3*time.Second, cfg.HTTPTimeout)
}

func TestGetEnvDuration_Invalid(t *testing.T) {
	t.Setenv("HTTP_TIMEOUT", "soon")
	assert.Equal(t, 7*time.Second, GetEnvDuration("HTTP_TIMEOUT", 7*time.Second))
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad api url", mutate: func(c *Config) { c.GitHub.BaseURL = "not a url" }},
		{name: "missing username", mutate: func(c *Config) { c.GitHub.Username = "" }},
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "loud" }},
		{name: "bad log format", mutate: func(c *Config) { c.Logger.Format = "xml" }},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTPTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadFromEnv()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestConfig_ValidatePerJob(t *testing.T) {
	cfg := LoadFromEnv()
	cfg.Weather.BaseURL = "not a url"
	cfg.GitHub.BaseURL = "::"

	assert.NoError(t, cfg.ValidateStock())
	assert.Error(t, cfg.ValidateWeather())
	assert.Error(t, cfg.ValidateGitHub())
	assert.Error(t, cfg.Validate())
}

func TestConfig_ValidatePerJobChecksSharedSettings(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.Logger.Level = "loud" }},
		{name: "missing lang", mutate: func(c *Config) { c.Lang = "" }},
		{name: "zero timeout", mutate: func(c *Config) { c.HTTPTimeout = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := LoadFromEnv()
			tt.mutate(&cfg)
			assert.Error(t, cfg.ValidateStock())
			assert.Error(t, cfg.ValidateGitHub())
			assert.Error(t, cfg.ValidateWeather())
		})
	}
}

func TestLoggerConfig_IsProduction(t *testing.T) {
	assert.True(t, LoggerConfig{Level: "info", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "debug", Format: "json"}.IsProduction())
	assert.False(t, LoggerConfig{Level: "info", Format: "console"}.IsProduction())
}
