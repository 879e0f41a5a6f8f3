// Package series turns a raw price series into the fixed-length sequence
// of points that drives the animation, one point per drawn frame.
package series

import (
	"errors"
	"math"
	"time"

	"MysteryChart/internal/model"
)

// ErrTooFewPoints is returned when a series cannot be animated.
var ErrTooFewPoints = errors.New("need at least two points")

// Resample returns a series of exactly n points, piecewise-linear over time,
// preserving the first and last timestamps of the input.
func Resample(s *model.PriceSeries, n int) (*model.PriceSeries, error) {
	if n < 2 {
		return nil, errors.New("resample: target count must be at least 2")
	}
	if s == nil || s.Len() < 2 {
		return nil, ErrTooFewPoints
	}

	xs, ys := toFloats(s)
	points := make([]model.PricePoint, n)
	for i := 0; i < n; i++ {
		x := sampleAt(xs, i, n)
		points[i] = model.PricePoint{
			Time:  floatToTime(x),
			Price: interpLinear(xs, ys, x),
		}
	}
	return derived(s, points), nil
}

// sampleAt returns the i-th of n evenly spaced sample positions over the data
// range, pinning the ends to the exact endpoints.
func sampleAt(xs []float64, i, n int) float64 {
	if i == 0 {
		return xs[0]
	}
	if i == n-1 {
		return xs[len(xs)-1]
	}
	return xs[0] + (xs[len(xs)-1]-xs[0])*float64(i)/float64(n-1)
}

// interpLinear evaluates the piecewise-linear interpolant of (xs, ys) at x.
// xs must be strictly increasing; x is clamped to the data range.
func interpLinear(xs, ys []float64, x float64) float64 {
	if x <= xs[0] {
		return ys[0]
	}
	if x >= xs[len(xs)-1] {
		return ys[len(ys)-1]
	}
	// Binary search for the interval containing x.
	lo, hi := 0, len(xs)-1
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid
		} else {
			hi = mid
		}
	}
	t := (x - xs[lo]) / (xs[hi] - xs[lo])
	return ys[lo] + t*(ys[hi]-ys[lo])
}

func toFloats(s *model.PriceSeries) (xs, ys []float64) {
	xs = make([]float64, s.Len())
	ys = make([]float64, s.Len())
	for i, p := range s.Points {
		xs[i] = float64(p.Time.UnixNano()) / float64(time.Second)
		ys[i] = p.Price
	}
	return xs, ys
}

func floatToTime(sec float64) time.Time {
	s, frac := math.Modf(sec)
	return time.Unix(int64(s), int64(frac*float64(time.Second))).UTC()
}

func derived(src *model.PriceSeries, points []model.PricePoint) *model.PriceSeries {
	return &model.PriceSeries{
		Symbol:    src.Symbol,
		Source:    src.Source,
		Points:    points,
		FetchedAt: src.FetchedAt,
	}
}
