package render

import (
	"math"
	"time"
)

// axisTick is one labelled position on the date axis.
type axisTick struct {
	X     float64 // unix seconds
	Label string
}

// dateTicks returns at most max ticks covering [t0, t1], placed on year or
// month boundaries depending on the span, days for very short ranges.
func dateTicks(t0, t1 time.Time, max int) []axisTick {
	if max < 1 || !t0.Before(t1) {
		return nil
	}
	span := t1.Sub(t0)

	switch {
	case span > 2*365*24*time.Hour:
		return yearTicks(t0, t1, max)
	case span > 60*24*time.Hour:
		return monthTicks(t0, t1, max)
	default:
		return dayTicks(t0, t1, max)
	}
}

func yearTicks(t0, t1 time.Time, max int) []axisTick {
	first := time.Date(t0.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	if first.Before(t0) {
		first = first.AddDate(1, 0, 0)
	}
	years := t1.Year() - first.Year() + 1
	step := (years + max - 1) / max
	if step < 1 {
		step = 1
	}
	var ticks []axisTick
	for t := first; !t.After(t1); t = t.AddDate(step, 0, 0) {
		ticks = append(ticks, axisTick{X: unixF(t), Label: t.Format("2006")})
	}
	return ticks
}

func monthTicks(t0, t1 time.Time, max int) []axisTick {
	first := time.Date(t0.Year(), t0.Month(), 1, 0, 0, 0, 0, time.UTC)
	if first.Before(t0) {
		first = first.AddDate(0, 1, 0)
	}
	months := (t1.Year()-first.Year())*12 + int(t1.Month()) - int(first.Month()) + 1
	step := (months + max - 1) / max
	if step < 1 {
		step = 1
	}
	var ticks []axisTick
	for t := first; !t.After(t1); t = t.AddDate(0, step, 0) {
		ticks = append(ticks, axisTick{X: unixF(t), Label: t.Format("Jan 06")})
	}
	return ticks
}

func dayTicks(t0, t1 time.Time, max int) []axisTick {
	days := int(t1.Sub(t0).Hours()/24) + 1
	step := (days + max - 1) / max
	if step < 1 {
		step = 1
	}
	first := time.Date(t0.Year(), t0.Month(), t0.Day(), 0, 0, 0, 0, time.UTC)
	if first.Before(t0) {
		first = first.AddDate(0, 0, 1)
	}
	var ticks []axisTick
	for t := first; !t.After(t1); t = t.AddDate(0, 0, step) {
		ticks = append(ticks, axisTick{X: unixF(t), Label: t.Format("Jan 2")})
	}
	return ticks
}

func unixF(t time.Time) float64 {
	return float64(t.UnixNano()) / float64(time.Second)
}

func floatToTime(sec float64) time.Time {
	s, frac := math.Modf(sec)
	return time.Unix(int64(s), int64(frac*float64(time.Second))).UTC()
}
