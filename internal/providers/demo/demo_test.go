package demo

import (
	"context"
	"math/rand/v2"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuote_WithinBounds(t *testing.T) {
	now := time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC)

	for seed := uint64(0); seed < 50; seed++ {
		d := New("S&P 500", WithRand(rand.New(rand.NewPCG(seed, seed+1))), WithClock(func() time.Time { return now }))

		snap, err := d.Quote(context.Background())
		require.NoError(t, err)
		require.NoError(t, snap.Validate())

		price, err := strconv.ParseFloat(snap.Price, 64)
		require.NoError(t, err)
		assert.InDelta(t, basePrice, price, 5.01)

		change, err := strconv.ParseFloat(snap.Change, 64)
		require.NoError(t, err)
		assert.InDelta(t, baseChange, change, 1.01)

		assert.True(t, strings.HasPrefix(snap.Change, "+"))
		assert.True(t, strings.HasPrefix(snap.ChangePercent, "+"))
		assert.True(t, snap.IsPositive)

		require.Len(t, snap.History, len(baseHistory)+1)
		assert.Equal(t, price, snap.History[len(snap.History)-1])
		assert.Equal(t, now, snap.LastUpdated)
	}
}

func TestQuote_DoesNotMutateBaseHistory(t *testing.T) {
	d := New("S&P 500")
	_, err := d.Quote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []float64{5930, 5940, 5935, 5950, 5945, 5955, 5960}, baseHistory)
}

func TestName(t *testing.T) {
	assert.Equal(t, "demo", New("x").Name())
}
