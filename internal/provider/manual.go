package provider

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"MysteryChart/internal/model"
)

// manualRowRe matches "YYYY-MM-DD price" rows, tolerating dotted dates,
// comma/tab/semicolon separators and thousands commas in the price.
var manualRowRe = regexp.MustCompile(`(\d{4}[-.]\d{1,2}[-.]\d{1,2})[\s,\t;]+([\d,.]+)`)

// ParseManual parses a pasted text block of "date price" rows into a series.
// Unparseable lines are skipped with a warning; returns an error when no
// usable rows remain.
func ParseManual(text string) (*model.PriceSeries, error) {
	var points []model.PricePoint

	for _, line := range strings.Split(strings.TrimSpace(text), "\n") {
		m := manualRowRe.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		dateStr := strings.ReplaceAll(m[1], ".", "-")
		ts, err := time.Parse("2006-1-2", dateStr)
		if err != nil {
			log.Warn().Str("line", strings.TrimSpace(line)).Msg("manual input: skipping line")
			continue
		}
		price, err := strconv.ParseFloat(strings.ReplaceAll(m[2], ",", ""), 64)
		if err != nil || price <= 0 {
			log.Warn().Str("line", strings.TrimSpace(line)).Msg("manual input: skipping line")
			continue
		}
		points = append(points, model.PricePoint{Time: ts, Price: price})
	}

	if len(points) == 0 {
		return nil, fmt.Errorf("manual input: no valid rows found")
	}

	sort.Slice(points, func(i, j int) bool { return points[i].Time.Before(points[j].Time) })

	series := &model.PriceSeries{
		Symbol:    "MANUAL",
		Source:    "manual",
		Points:    dedupeTimes(points),
		FetchedAt: time.Now(),
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("manual series: %w", err)
	}
	return series, nil
}
