package series

import (
	"github.com/rs/zerolog/log"
	"gonum.org/v1/gonum/interp"

	"MysteryChart/internal/model"
)

// Spline smoothing needs enough points to be worth fitting; below this we
// fall back to plain linear resampling.
const minSmoothPoints = 4

// Preprocess resamples s to exactly n points, smoothing with a spline when
// requested. Smoothing is best-effort: on too few points or a fit failure it
// degrades to plain resampling without error.
func Preprocess(s *model.PriceSeries, n int, smooth bool) (*model.PriceSeries, error) {
	if s == nil || s.Len() < 2 {
		return nil, ErrTooFewPoints
	}
	if smooth && s.Len() >= minSmoothPoints {
		out, err := smoothResample(s, n)
		if err == nil {
			return out, nil
		}
		log.Debug().Err(err).Msg("spline fit failed, falling back to linear resample")
	}
	return Resample(s, n)
}

// smoothResample fits an Akima spline through the series and samples it at n
// evenly spaced times. Akima is shape-preserving, which keeps volatile price
// data from overshooting wildly between knots.
func smoothResample(s *model.PriceSeries, n int) (*model.PriceSeries, error) {
	xs, ys := toFloats(s)

	var spline interp.AkimaSpline
	if err := spline.Fit(xs, ys); err != nil {
		return nil, err
	}

	points := make([]model.PricePoint, n)
	for i := 0; i < n; i++ {
		x := sampleAt(xs, i, n)
		y := spline.Predict(x)
		if y < 0 {
			y = 0 // no negative prices
		}
		points[i] = model.PricePoint{Time: floatToTime(x), Price: y}
	}
	return derived(s, points), nil
}
