package yahoo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/retry"
)

const (
	defaultQuoteURL = "https://query1.finance.yahoo.com/v7/finance/quote"

	browserUserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"
	browserAccept    = "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8"

	// MaxAttempts is the total number of quote requests per run.
	MaxAttempts = 3
	// RetryDelay is the wait after a transport error, and the step by which
	// the wait grows after each non-200 answer.
	RetryDelay = 2 * time.Second
)

var (
	ErrEmptyResponse = errors.New("empty response")
	ErrUnknownShape  = errors.New("neither quote nor chart result in response")
)

// StatusError is returned for non-200 answers; these are retried with a
// linearly growing delay.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("request failed with status %d", e.Code)
}

type Provider struct {
	client   *http.Client
	quoteURL string
	symbol   string
	label    string
	log      *zap.SugaredLogger
	now      func() time.Time
	sleep    func(ctx context.Context, d time.Duration) error
}

type Option func(*Provider)

func WithQuoteURL(u string) Option {
	return func(p *Provider) { p.quoteURL = u }
}

func WithHTTPClient(c *http.Client) Option {
	return func(p *Provider) { p.client = c }
}

func WithLogger(l *zap.SugaredLogger) Option {
	return func(p *Provider) { p.log = l }
}

func WithClock(now func() time.Time) Option {
	return func(p *Provider) { p.now = now }
}

// WithSleep replaces the wait between attempts.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(p *Provider) { p.sleep = sleep }
}

// New returns a provider quoting symbol (e.g. "^GSPC") and publishing it
// under label (e.g. "S&P 500").
func New(symbol, label string, opts ...Option) *Provider {
	p := &Provider{
		client:   &http.Client{Timeout: 10 * time.Second},
		quoteURL: defaultQuoteURL,
		symbol:   symbol,
		label:    label,
		log:      zap.NewNop().Sugar(),
		now:      time.Now,
		sleep:    retry.SleepContext,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *Provider) Name() string {
	return "yahoo"
}

func (p *Provider) Quote(ctx context.Context) (core.StockSnapshot, error) {
	body, err := retry.Do(ctx, retry.Config{
		MaxAttempts: MaxAttempts,
		Delay:       retryDelay,
		Sleep:       p.sleep,
		OnRetry: func(attempt int, err error, d time.Duration) {
			p.log.Infow("quote request failed, retrying",
				"symbol", p.symbol, "attempt", attempt, "left", MaxAttempts-attempt, "delay", d, "error", err)
		},
	}, p.fetchOnce)
	if err != nil {
		return core.StockSnapshot{}, fmt.Errorf("yahoo: fetch quote: %w", err)
	}

	snap, err := p.parse(body)
	if err != nil {
		return core.StockSnapshot{}, fmt.Errorf("yahoo: %w", err)
	}
	return snap, nil
}

func retryDelay(attempt int, err error) time.Duration {
	var se *StatusError
	if errors.As(err, &se) {
		return retry.Linear(RetryDelay)(attempt, err)
	}
	return RetryDelay
}

func (p *Provider) fetchOnce(ctx context.Context) ([]byte, error) {
	endpoint := fmt.Sprintf("%s?symbols=%s", p.quoteURL, url.QueryEscape(p.symbol))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, retry.Permanent(fmt.Errorf("new request: %w", err))
	}
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", browserAccept)
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if len(body) == 0 {
		return nil, retry.Permanent(ErrEmptyResponse)
	}
	return body, nil
}

type quoteResult struct {
	RegularMarketPrice         *float64 `json:"regularMarketPrice"`
	RegularMarketChange        *float64 `json:"regularMarketChange"`
	RegularMarketChangePercent *float64 `json:"regularMarketChangePercent"`
}

func (q quoteResult) complete() bool {
	return q.RegularMarketPrice != nil && q.RegularMarketChange != nil && q.RegularMarketChangePercent != nil
}

type chartResult struct {
	Meta struct {
		RegularMarketPrice *float64 `json:"regularMarketPrice"`
		ChartPreviousClose float64  `json:"chartPreviousClose"`
	} `json:"meta"`
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type envelope struct {
	QuoteResponse *struct {
		Result []quoteResult `json:"result"`
	} `json:"quoteResponse"`
	Chart *struct {
		Result []chartResult `json:"result"`
	} `json:"chart"`
}

// parse accepts the quote shape and, failing that, the chart shape. A quote
// result missing any price field does not count as the quote shape.
func (p *Provider) parse(body []byte) (core.StockSnapshot, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return core.StockSnapshot{}, fmt.Errorf("decode response: %w", err)
	}

	if env.QuoteResponse != nil && len(env.QuoteResponse.Result) > 0 {
		if q := env.QuoteResponse.Result[0]; q.complete() {
			return core.NewStockSnapshot(p.label,
				*q.RegularMarketPrice, *q.RegularMarketChange, *q.RegularMarketChangePercent,
				nil, p.now()), nil
		}
	}

	if env.Chart != nil && len(env.Chart.Result) > 0 {
		return p.fromChart(env.Chart.Result[0])
	}

	return core.StockSnapshot{}, ErrUnknownShape
}

func (p *Provider) fromChart(r chartResult) (core.StockSnapshot, error) {
	if r.Meta.RegularMarketPrice == nil {
		return core.StockSnapshot{}, fmt.Errorf("chart result has no market price: %w", ErrUnknownShape)
	}
	if len(r.Timestamp) == 0 {
		return core.StockSnapshot{}, fmt.Errorf("chart result has no timestamps: %w", ErrUnknownShape)
	}
	if len(r.Indicators.Quote) == 0 || r.Indicators.Quote[0].Close == nil {
		return core.StockSnapshot{}, fmt.Errorf("chart result has no close prices: %w", ErrUnknownShape)
	}
	if r.Meta.ChartPreviousClose == 0 {
		return core.StockSnapshot{}, fmt.Errorf("chart result has no previous close: %w", ErrUnknownShape)
	}

	closes := r.Indicators.Quote[0].Close
	history := make([]float64, 0, len(r.Timestamp))
	for i := range r.Timestamp {
		if i < len(closes) && closes[i] != nil {
			history = append(history, *closes[i])
		}
	}

	price := *r.Meta.RegularMarketPrice
	change := price - r.Meta.ChartPreviousClose
	changePercent := change / r.Meta.ChartPreviousClose * 100

	return core.NewStockSnapshot(p.label, price, change, changePercent, history, p.now()), nil
}
