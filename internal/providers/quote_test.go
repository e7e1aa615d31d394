package providers_test

import (
	"context"
	"math/rand/v2"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vukan322/folio/internal/providers"
	"github.com/vukan322/folio/internal/providers/demo"
	"github.com/vukan322/folio/internal/providers/yahoo"
)

func noSleep(context.Context, time.Duration) error { return nil }

func TestQuoteWithFallback_ExhaustedRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	live := yahoo.New("^GSPC", "S&P 500",
		yahoo.WithQuoteURL(srv.URL),
		yahoo.WithHTTPClient(srv.Client()),
		yahoo.WithSleep(noSleep),
	)
	fallback := demo.New("S&P 500", demo.WithRand(rand.New(rand.NewPCG(1, 2))))

	snap, source, err := providers.QuoteWithFallback(context.Background(), live, fallback, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)

	assert.Equal(t, int32(yahoo.MaxAttempts), calls.Load())
	assert.Equal(t, "demo", source)
	assert.Equal(t, "S&P 500", snap.Symbol)
	assert.NotEmpty(t, snap.Price)
	assert.NotEmpty(t, snap.Change)
	assert.NotEmpty(t, snap.ChangePercent)
	assert.NotEmpty(t, snap.History)
	assert.False(t, snap.LastUpdated.IsZero())

	_, err = time.Parse(time.RFC3339, snap.LastUpdated.Format(time.RFC3339Nano))
	assert.NoError(t, err)
}

func TestQuoteWithFallback_LiveQuote(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"regularMarketPrice":6000.5,"regularMarketChange":-3.25,"regularMarketChangePercent":-0.054}]}}`))
	}))
	defer srv.Close()

	live := yahoo.New("^GSPC", "S&P 500", yahoo.WithQuoteURL(srv.URL), yahoo.WithHTTPClient(srv.Client()))

	snap, source, err := providers.QuoteWithFallback(context.Background(), live, demo.New("S&P 500"), zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Equal(t, "yahoo", source)
	assert.Equal(t, "6000.50", snap.Price)
	assert.False(t, snap.IsPositive)
}

func TestQuoteWithFallback_QuoteWithoutPrices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"quoteResponse":{"result":[{"symbol":"^GSPC"}]}}`))
	}))
	defer srv.Close()

	live := yahoo.New("^GSPC", "S&P 500",
		yahoo.WithQuoteURL(srv.URL),
		yahoo.WithHTTPClient(srv.Client()),
		yahoo.WithSleep(noSleep),
	)
	fallback := demo.New("S&P 500", demo.WithRand(rand.New(rand.NewPCG(3, 4))))

	snap, source, err := providers.QuoteWithFallback(context.Background(), live, fallback, zaptest.NewLogger(t).Sugar())
	require.NoError(t, err)
	assert.Equal(t, "demo", source)
	assert.NotEqual(t, "0.00", snap.Price)
	assert.NoError(t, snap.Validate())
}
