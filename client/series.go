package client

import (
	"fmt"
	"time"

	"github.com/solarops/solar-console/domain"
)

// Granularity selects the tab/date-range combination of a series query.
type Granularity string

const (
	// GranularityDay yields one point per hour of the anchor day.
	GranularityDay Granularity = "day"
	// GranularityMonth yields one point per day of the anchor month.
	GranularityMonth Granularity = "month"
	// GranularityYear yields one point per month of the anchor year.
	GranularityYear Granularity = "year"
)

// sampleLayouts are the timestamp layouts observed across the two solar
// clouds. Samples are parsed with the first layout that matches.
var sampleLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-01",
}

// NormalizeSeries reshapes a sparse provider payload into a dense,
// chart-ready series: a fixed number of slots for the granularity, missing
// and null samples filled with zero, samples outside the anchor range
// dropped. Slot timestamps are in the anchor's location.
func NormalizeSeries(granularity Granularity, anchor time.Time, samples []domain.MetricSample) ([]domain.SeriesPoint, error) {
	slots, slotFor, err := seriesShape(granularity, anchor)
	if err != nil {
		return nil, err
	}

	points := make([]domain.SeriesPoint, len(slots))
	for i, ts := range slots {
		points[i] = domain.SeriesPoint{Time: ts}
	}

	for _, sample := range samples {
		ts, err := parseSampleTime(sample.Time, anchor.Location())
		if err != nil {
			// Unparseable rows are dropped rather than failing the chart.
			continue
		}
		idx, ok := slotFor(ts)
		if !ok {
			continue
		}
		if sample.Value != nil {
			points[idx].Value = *sample.Value
		}
	}
	return points, nil
}

// seriesShape returns the slot timestamps for a granularity plus the mapping
// from a sample timestamp to its slot index.
func seriesShape(granularity Granularity, anchor time.Time) ([]time.Time, func(time.Time) (int, bool), error) {
	loc := anchor.Location()

	switch granularity {
	case GranularityDay:
		day := time.Date(anchor.Year(), anchor.Month(), anchor.Day(), 0, 0, 0, 0, loc)
		slots := make([]time.Time, 24)
		for h := range slots {
			slots[h] = day.Add(time.Duration(h) * time.Hour)
		}
		slotFor := func(ts time.Time) (int, bool) {
			if ts.Year() != day.Year() || ts.Month() != day.Month() || ts.Day() != day.Day() {
				return 0, false
			}
			return ts.Hour(), true
		}
		return slots, slotFor, nil

	case GranularityMonth:
		first := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, loc)
		days := first.AddDate(0, 1, -1).Day()
		slots := make([]time.Time, days)
		for d := range slots {
			slots[d] = first.AddDate(0, 0, d)
		}
		slotFor := func(ts time.Time) (int, bool) {
			if ts.Year() != first.Year() || ts.Month() != first.Month() {
				return 0, false
			}
			return ts.Day() - 1, true
		}
		return slots, slotFor, nil

	case GranularityYear:
		first := time.Date(anchor.Year(), time.January, 1, 0, 0, 0, 0, loc)
		slots := make([]time.Time, 12)
		for m := range slots {
			slots[m] = first.AddDate(0, m, 0)
		}
		slotFor := func(ts time.Time) (int, bool) {
			if ts.Year() != first.Year() {
				return 0, false
			}
			return int(ts.Month()) - 1, true
		}
		return slots, slotFor, nil

	default:
		return nil, nil, fmt.Errorf("unknown series granularity %q", granularity)
	}
}

func parseSampleTime(value string, loc *time.Location) (time.Time, error) {
	for _, layout := range sampleLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized sample timestamp %q", value)
}
