package model

import (
	"errors"
	"time"
)

// PricePoint is a single observation in a price series.
type PricePoint struct {
	Time  time.Time
	Price float64
}

// PriceSeries holds ordered price data for one asset.
// Timestamps are strictly increasing and prices are positive.
// A series is never mutated after construction.
type PriceSeries struct {
	Symbol    string
	Source    string // "yahoo", "manual", "mock"
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of points in the series.
func (s *PriceSeries) Len() int { return len(s.Points) }

// Validate checks the series invariants: at least one point,
// strictly increasing timestamps, positive prices.
func (s *PriceSeries) Validate() error {
	if len(s.Points) == 0 {
		return errors.New("series has no points")
	}
	for i, p := range s.Points {
		if p.Price <= 0 {
			return errors.New("series contains non-positive price")
		}
		if i > 0 && !s.Points[i-1].Time.Before(p.Time) {
			return errors.New("series timestamps are not strictly increasing")
		}
	}
	return nil
}

// Prices returns the price values in order.
func (s *PriceSeries) Prices() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Price
	}
	return out
}

// Times returns the timestamps in order.
func (s *PriceSeries) Times() []time.Time {
	out := make([]time.Time, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Time
	}
	return out
}

// MinMax returns the lowest and highest price in the series.
func (s *PriceSeries) MinMax() (min, max float64) {
	if len(s.Points) == 0 {
		return 0, 0
	}
	min, max = s.Points[0].Price, s.Points[0].Price
	for _, p := range s.Points[1:] {
		if p.Price < min {
			min = p.Price
		}
		if p.Price > max {
			max = p.Price
		}
	}
	return min, max
}
