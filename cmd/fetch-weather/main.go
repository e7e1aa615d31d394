package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/artifact"
	"github.com/vukan322/folio/internal/config"
	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/logger"
	"github.com/vukan322/folio/internal/providers"
	"github.com/vukan322/folio/internal/providers/openweather"
)

type cli struct {
	City     string        `help:"City to report on." default:"${city}"`
	Country  string        `help:"ISO country code of the city." default:"${country}"`
	Out      string        `help:"Output JSON document." default:"${out}" type:"path"`
	Watch    bool          `help:"Keep running and refresh the document every --interval."`
	Interval time.Duration `help:"Refresh period in watch mode." default:"60s"`
	APIURL   string        `name:"api-url" help:"OpenWeather API base URL." default:"${api}" hidden:""`
}

func main() {
	cfg := config.Load()

	var args cli
	kong.Parse(&args,
		kong.Name("fetch-weather"),
		kong.Description("Write current weather conditions to a static JSON document."),
		kong.Vars{
			"city":    cfg.Weather.City,
			"country": cfg.Weather.Country,
			"out":     cfg.Weather.Output,
			"api":     cfg.Weather.BaseURL,
		},
	)

	cfg.Weather.City = args.City
	cfg.Weather.Country = args.Country
	cfg.Weather.Output = args.Out
	cfg.Weather.BaseURL = args.APIURL

	if err := cfg.ValidateWeather(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.Weather.APIKey == "" {
		log.Error("OPENWEATHER_API_KEY is required")
		log.Sync()
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := openweather.New(cfg.Weather.APIKey,
		openweather.WithBaseURL(cfg.Weather.BaseURL),
		openweather.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout}),
	)

	if !args.Watch {
		if err := refresh(ctx, provider, cfg.Weather, log); err != nil {
			log.Errorw("weather fetch failed", "city", cfg.Weather.City, "error", err)
			log.Sync()
			stop()
			os.Exit(1)
		}
		return
	}

	log.Infow("watching weather", "city", cfg.Weather.City, "interval", args.Interval)
	watch(ctx, provider, cfg.Weather, args.Interval, log)
	log.Info("weather watcher stopped")
}

// refresh fetches current conditions once and overwrites the output file.
// A key that is not activated yet still produces a document, carrying the
// message in its error field.
func refresh(ctx context.Context, p providers.WeatherProvider, cfg config.WeatherConfig, log *zap.SugaredLogger) error {
	report, err := p.Current(ctx, cfg.City, cfg.Country)
	switch {
	case errors.Is(err, openweather.ErrKeyPending):
		log.Warnw("weather api key not active yet", "provider", p.Name())
		report = core.WeatherReport{
			City:        cfg.City,
			LastUpdated: time.Now().UTC(),
			Error:       err.Error(),
		}
	case err != nil:
		return fmt.Errorf("provider %s failed: %w", p.Name(), err)
	}

	if err := artifact.WriteJSON(cfg.Output, report); err != nil {
		return err
	}
	log.Infow("weather written", "path", cfg.Output, "temp", report.Temp, "description", report.Description)
	return nil
}

// watch refreshes immediately and then on every tick until ctx is done.
// Failed refreshes are logged and leave the previous document in place.
func watch(ctx context.Context, p providers.WeatherProvider, cfg config.WeatherConfig, interval time.Duration, log *zap.SugaredLogger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if err := refresh(ctx, p, cfg, log); err != nil && ctx.Err() == nil {
			log.Errorw("weather refresh failed", "city", cfg.City, "error", err)
		}
		if ctx.Err() != nil {
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
