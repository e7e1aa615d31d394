package main

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/vukan322/folio/internal/config"
	"github.com/vukan322/folio/internal/core"
	"github.com/vukan322/folio/internal/providers/openweather"
)

type stubWeather struct {
	calls  atomic.Int32
	report func(n int32) (core.WeatherReport, error)
}

func (s *stubWeather) Name() string { return "stub" }

func (s *stubWeather) Current(_ context.Context, city, _ string) (core.WeatherReport, error) {
	n := s.calls.Add(1)
	r, err := s.report(n)
	r.City = city
	return r, err
}

func weatherConfig(t *testing.T) config.WeatherConfig {
	return config.WeatherConfig{
		City:    "Lyon",
		Country: "FR",
		Output:  filepath.Join(t.TempDir(), "public", "weather.json"),
	}
}

func readReport(t *testing.T, path string) core.WeatherReport {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var r core.WeatherReport
	require.NoError(t, json.Unmarshal(raw, &r))
	return r
}

func TestRefresh_WritesReport(t *testing.T) {
	cfg := weatherConfig(t)
	p := &stubWeather{report: func(int32) (core.WeatherReport, error) {
		return core.WeatherReport{Temp: 15, Description: "light rain"}, nil
	}}

	require.NoError(t, refresh(context.Background(), p, cfg, zaptest.NewLogger(t).Sugar()))

	r := readReport(t, cfg.Output)
	assert.Equal(t, "Lyon", r.City)
	assert.Equal(t, 15, r.Temp)
	assert.Empty(t, r.Error)
}

func TestRefresh_KeyPendingWritesMessage(t *testing.T) {
	cfg := weatherConfig(t)
	p := &stubWeather{report: func(int32) (core.WeatherReport, error) {
		return core.WeatherReport{}, openweather.ErrKeyPending
	}}

	require.NoError(t, refresh(context.Background(), p, cfg, zaptest.NewLogger(t).Sugar()))

	r := readReport(t, cfg.Output)
	assert.Equal(t, "API Key Pending Activation (Takes 2-4 hours)", r.Error)
	assert.Equal(t, "Lyon", r.City)
	assert.False(t, r.LastUpdated.IsZero())
}

func TestRefresh_OtherErrorsWriteNothing(t *testing.T) {
	cfg := weatherConfig(t)
	p := &stubWeather{report: func(int32) (core.WeatherReport, error) {
		return core.WeatherReport{}, errors.New("openweather: unexpected status 500")
	}}

	err := refresh(context.Background(), p, cfg, zaptest.NewLogger(t).Sugar())
	require.Error(t, err)
	assert.NoFileExists(t, cfg.Output)
}

func TestWatch_LastWriteWins(t *testing.T) {
	cfg := weatherConfig(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p := &stubWeather{report: func(n int32) (core.WeatherReport, error) {
		if n == 2 {
			return core.WeatherReport{}, errors.New("transient")
		}
		if n >= 3 {
			cancel()
		}
		return core.WeatherReport{Temp: int(n)}, nil
	}}

	done := make(chan struct{})
	go func() {
		watch(ctx, p, cfg, time.Millisecond, zaptest.NewLogger(t).Sugar())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancellation")
	}

	assert.GreaterOrEqual(t, p.calls.Load(), int32(3))
	assert.Equal(t, 3, readReport(t, cfg.Output).Temp)
}
