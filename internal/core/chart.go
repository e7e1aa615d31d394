package core

import "slices"

const (
	ChartWidth  = 100.0
	ChartHeight = 40.0
)

// PlaceholderHistory is drawn when a snapshot has no price history.
var PlaceholderHistory = []float64{0, 5, 2, 8, 5, 10}

type Point struct {
	X float64
	Y float64
}

// NormalizeSeries maps prices into the 100x40 chart viewport, origin top-left,
// so the highest price gets the smallest y. An empty series is replaced by
// PlaceholderHistory and a flat series uses a range of 1.
func NormalizeSeries(prices []float64) []Point {
	if len(prices) == 0 {
		prices = PlaceholderHistory
	}

	if len(prices) == 1 {
		return []Point{{X: 0, Y: ChartHeight / 2}}
	}

	low, high := slices.Min(prices), slices.Max(prices)
	span := high - low
	if span == 0 {
		span = 1
	}

	last := float64(len(prices) - 1)
	points := make([]Point, len(prices))
	for i, p := range prices {
		points[i] = Point{
			X: float64(i) / last * ChartWidth,
			Y: ChartHeight - (p-low)/span*ChartHeight,
		}
	}
	return points
}
