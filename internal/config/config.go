// Package config loads job configuration from the environment and an optional
// .env file.
package config

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type GitHubConfig struct {
	Username string `validate:"required"`
	Token    string
	BaseURL  string `validate:"required,url"`
	Output   string `validate:"required"`
}

type StockConfig struct {
	Symbol   string `validate:"required"`
	Label    string `validate:"required"`
	QuoteURL string `validate:"required,url"`
	Output   string `validate:"required"`
}

type WeatherConfig struct {
	APIKey  string
	City    string `validate:"required"`
	Country string `validate:"required"`
	BaseURL string `validate:"required,url"`
	Output  string `validate:"required"`
}

// Config holds the settings of all three fetch jobs.
type Config struct {
	GitHub      GitHubConfig
	Stock       StockConfig
	Weather     WeatherConfig
	Logger      LoggerConfig
	Lang        string        `validate:"required"`
	HTTPTimeout time.Duration `validate:"gt=0"`
}

// Load reads .env (if any) and then the process environment.
func Load() Config {
	_ = godotenv.Load()
	return LoadFromEnv()
}

// LoadFromEnv loads all configuration from environment variables.
func LoadFromEnv() Config {
	return Config{
		GitHub: GitHubConfig{
			Username: GetEnv("GITHUB_USERNAME", "Bouhzial"),
			Token:    GetEnv("GITHUB_TOKEN", ""),
			BaseURL:  GetEnv("GITHUB_API_URL", "https://api.github.com"),
			Output:   GetEnv("GITHUB_STATS_OUT", "src/data/github-stats.json"),
		},
		Stock: StockConfig{
			Symbol:   GetEnv("STOCK_SYMBOL", "^GSPC"),
			Label:    GetEnv("STOCK_LABEL", "S&P 500"),
			QuoteURL: GetEnv("STOCK_QUOTE_URL", "https://query1.finance.yahoo.com/v7/finance/quote"),
			Output:   GetEnv("STOCK_OUT", "public/stock-data.json"),
		},
		Weather: WeatherConfig{
			APIKey:  GetEnv("OPENWEATHER_API_KEY", ""),
			City:    GetEnv("WEATHER_CITY", "Lyon"),
			Country: GetEnv("WEATHER_COUNTRY", "FR"),
			BaseURL: GetEnv("WEATHER_API_URL", "https://api.openweathermap.org"),
			Output:  GetEnv("WEATHER_OUT", "public/weather.json"),
		},
		Logger:      LoadLoggerConfigFromEnv(),
		Lang:        GetEnv("SITE_LANG", "en"),
		HTTPTimeout: GetEnvDuration("HTTP_TIMEOUT", 10*time.Second),
	}
}

var validate = validator.New()

// Validate validates all configuration.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}
	return nil
}

// ValidateGitHub validates the settings fetch-github reads.
func (c Config) ValidateGitHub() error {
	return c.validateJob("github", c.GitHub)
}

// ValidateStock validates the settings fetch-stock reads.
func (c Config) ValidateStock() error {
	return c.validateJob("stock", c.Stock)
}

// ValidateWeather validates the settings fetch-weather reads.
func (c Config) ValidateWeather() error {
	return c.validateJob("weather", c.Weather)
}

// validateJob checks one job section plus the shared settings, so a broken
// section of another job never blocks this one.
func (c Config) validateJob(job string, section any) error {
	if err := validate.Struct(section); err != nil {
		return fmt.Errorf("config validation failed: %s: %w", job, err)
	}
	if err := validate.Struct(c.Logger); err != nil {
		return fmt.Errorf("config validation failed: logger: %w", err)
	}
	if err := validate.Var(c.Lang, "required"); err != nil {
		return fmt.Errorf("config validation failed: Lang: %w", err)
	}
	if err := validate.Var(c.HTTPTimeout, "gt=0"); err != nil {
		return fmt.Errorf("config validation failed: HTTPTimeout: %w", err)
	}
	return nil
}
