package openweather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"

	"github.com/vukan322/folio/internal/core"
)

const defaultBaseURL = "https://api.openweathermap.org"

// ErrKeyPending is returned on HTTP 401, which for a fresh key means it has
// not been activated yet.
var ErrKeyPending = errors.New("API Key Pending Activation (Takes 2-4 hours)")

type Provider struct {
	client  *http.Client
	baseURL string
	apiKey  string
	now     func() time.Time
}

type Option func(*Provider)

func WithBaseURL(u string) Option {
	return func(p *Provider) { p.baseURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

func New(apiKey string, opts ...Option) *Provider {
	p := &Provider{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: defaultBaseURL,
		apiKey:  apiKey,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "openweather"
}

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
		Icon        string `json:"icon"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

func (p *Provider) Current(ctx context.Context, city, country string) (core.WeatherReport, error) {
	q := url.Values{}
	q.Set("q", city+","+country)
	q.Set("appid", p.apiKey)
	q.Set("units", "metric")
	endpoint := fmt.Sprintf("%s/data/2.5/weather?%s", p.baseURL, q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return core.WeatherReport{}, fmt.Errorf("openweather: new request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return core.WeatherReport{}, fmt.Errorf("openweather: do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return core.WeatherReport{}, ErrKeyPending
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return core.WeatherReport{}, fmt.Errorf("openweather: unexpected status %d", resp.StatusCode)
	}

	var cur currentResponse
	if err := json.NewDecoder(resp.Body).Decode(&cur); err != nil {
		return core.WeatherReport{}, fmt.Errorf("openweather: decode response: %w", err)
	}

	report := core.WeatherReport{
		City:        city,
		Temp:        int(math.Round(cur.Main.Temp)),
		FeelsLike:   int(math.Round(cur.Main.FeelsLike)),
		Humidity:    cur.Main.Humidity,
		WindSpeed:   cur.Wind.Speed,
		Sunrise:     time.Unix(cur.Sys.Sunrise, 0).UTC(),
		Sunset:      time.Unix(cur.Sys.Sunset, 0).UTC(),
		LastUpdated: p.now().UTC(),
	}
	if len(cur.Weather) > 0 {
		report.Description = cur.Weather[0].Description
		report.Icon = cur.Weather[0].Icon
	}
	return report, nil
}
