package provider

import (
	"context"
	"time"

	"MysteryChart/internal/model"
)

// Provider defines the interface for fetching historical price data.
type Provider interface {
	// FetchDaily returns daily closing prices for symbol between start and end.
	FetchDaily(ctx context.Context, symbol string, start, end time.Time) (*model.PriceSeries, error)
	Name() string
}
