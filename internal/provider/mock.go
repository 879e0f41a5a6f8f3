package provider

import (
	"context"
	"math"
	"time"

	"MysteryChart/internal/model"
)

// MockProvider returns controllable fixed data for development and testing.
type MockProvider struct {
	BasePrice float64
	Series    *model.PriceSeries
	Err       error
}

func (m *MockProvider) Name() string { return "mock" }

func (m *MockProvider) FetchDaily(_ context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Series != nil {
		return m.Series, nil
	}
	days := int(end.Sub(start).Hours() / 24)
	if days < 2 {
		days = 2
	}
	return GenerateMockSeries(symbol, m.BasePrice, start, days), nil
}

// GenerateMockSeries builds a deterministic wavy series of count daily points.
func GenerateMockSeries(symbol string, basePrice float64, start time.Time, count int) *model.PriceSeries {
	if basePrice <= 0 {
		basePrice = 100
	}
	points := make([]model.PricePoint, count)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + 0.15*math.Sin(float64(i)*0.2) + 0.001*float64(i))
		points[i] = model.PricePoint{
			Time:  start.AddDate(0, 0, i),
			Price: p,
		}
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Source:    "mock",
		Points:    points,
		FetchedAt: start.AddDate(0, 0, count),
	}
}
