package providers

import (
	"context"

	"github.com/vukan322/folio/internal/core"
)

// StatsProvider produces the GitHub statistics document for one account.
type StatsProvider interface {
	Name() string
	Fetch(ctx context.Context, handle string) (core.GitHubStats, error)
}

// QuoteProvider produces a stock snapshot for the configured symbol.
type QuoteProvider interface {
	Name() string
	Quote(ctx context.Context) (core.StockSnapshot, error)
}

// WeatherProvider reports current conditions for a city.
type WeatherProvider interface {
	Name() string
	Current(ctx context.Context, city, country string) (core.WeatherReport, error)
}
