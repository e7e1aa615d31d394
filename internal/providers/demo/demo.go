package demo

import (
	"context"
	"math"
	"math/rand/v2"
	"time"

	"github.com/vukan322/folio/internal/core"
)

const (
	basePrice  = 5964.82
	baseChange = 32.52
)

var baseHistory = []float64{5930, 5940, 5935, 5950, 5945, 5955, 5960}

// DemoProvider synthesizes a plausible stock snapshot when the live quote is
// unavailable: small jitter around fixed base values so the ticker still moves.
type DemoProvider struct {
	label string
	rng   *rand.Rand
	now   func() time.Time
}

type Option func(*DemoProvider)

// WithRand fixes the random source, mostly for tests.
func WithRand(r *rand.Rand) Option {
	return func(d *DemoProvider) { d.rng = r }
}

func WithClock(now func() time.Time) Option {
	return func(d *DemoProvider) { d.now = now }
}

func New(label string, opts ...Option) *DemoProvider {
	d := &DemoProvider{
		label: label,
		rng:   rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x5eed)),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *DemoProvider) Name() string {
	return "demo"
}

func (d *DemoProvider) Quote(ctx context.Context) (core.StockSnapshot, error) {
	price := round2(basePrice + d.rng.Float64()*10 - 5)
	change := round2(baseChange + d.rng.Float64()*2 - 1)
	changePercent := change / (basePrice - change) * 100

	history := make([]float64, 0, len(baseHistory)+1)
	history = append(history, baseHistory...)
	history = append(history, price)

	snap := core.NewStockSnapshot(d.label, price, change, changePercent, history, d.now())
	if change > 0 {
		snap.Change = "+" + snap.Change
		snap.ChangePercent = "+" + snap.ChangePercent
	}
	return snap, nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
