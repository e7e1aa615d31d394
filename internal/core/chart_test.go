package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeSeries(t *testing.T) {
	points := NormalizeSeries([]float64{10, 20, 15})
	require.Len(t, points, 3)

	assert.Equal(t, Point{X: 0, Y: 40}, points[0])
	assert.Equal(t, Point{X: 50, Y: 0}, points[1])
	assert.Equal(t, Point{X: 100, Y: 20}, points[2])
}

func TestNormalizeSeries_SinglePoint(t *testing.T) {
	points := NormalizeSeries([]float64{5964.82})
	assert.Equal(t, []Point{{X: 0, Y: 20}}, points)
}

func TestNormalizeSeries_Flat(t *testing.T) {
	points := NormalizeSeries([]float64{7, 7, 7, 7})
	require.Len(t, points, 4)
	for _, p := range points {
		assert.Equal(t, 40.0, p.Y)
	}
	assert.Equal(t, 100.0, points[3].X)
}

func TestNormalizeSeries_EmptyUsesPlaceholder(t *testing.T) {
	points := NormalizeSeries(nil)
	require.Len(t, points, len(PlaceholderHistory))
	// placeholder max is 10 at the last index
	assert.Equal(t, Point{X: 100, Y: 0}, points[len(points)-1])
}
