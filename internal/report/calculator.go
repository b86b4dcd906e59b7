// Package report computes aggregate statistics from the stored session
// records. All methods are pure computations over their input slice: no
// internal state, safe to recompute on every refresh, and independent
// of record order.
package report

import (
	"sort"
	"time"

	"focustrack/internal/session"
)

const dayLayout = "2006-01-02"

// NoDataCategory labels the synthetic distribution entry produced for
// an empty record log, so the display layer never sees an empty pie.
const NoDataCategory = "no data"

// Summary holds the headline numbers for the reports view. Minutes are
// floor-truncated from seconds, never rounded up.
type Summary struct {
	TodayFocusMinutes int
	TotalFocusMinutes int
	TotalDistractions int
}

// DayMinutes is one bar of the daily series.
type DayMinutes struct {
	Date    string // calendar day, dayLayout
	Label   string // short weekday name
	Minutes int
}

// CategoryMinutes is one slice of the category distribution.
type CategoryMinutes struct {
	Category string
	Minutes  int
}

// Calculator computes report data from session records. Day boundaries
// follow the UTC calendar date of the record timestamp, matching the
// date prefix the legacy log compared against.
type Calculator struct{}

func NewCalculator() *Calculator {
	return &Calculator{}
}

// Summary totals focus minutes across the whole log and for the given
// day, plus the distraction count across all records.
func (c *Calculator) Summary(records []session.Record, today time.Time) Summary {
	todayKey := dayKey(today)

	var todaySeconds, totalSeconds, distractions int
	for _, rec := range records {
		totalSeconds += rec.DurationSeconds
		distractions += rec.DistractionCount
		if dayKey(rec.Date) == todayKey {
			todaySeconds += rec.DurationSeconds
		}
	}

	return Summary{
		TodayFocusMinutes: todaySeconds / 60,
		TotalFocusMinutes: totalSeconds / 60,
		TotalDistractions: distractions,
	}
}

// DailySeries returns one entry per calendar day for the `days` days
// ending at ref, oldest first. Days without records yield zero minutes;
// records outside the window are excluded from sums but never shrink
// the series.
func (c *Calculator) DailySeries(records []session.Record, ref time.Time, days int) []DayMinutes {
	if days < 1 {
		return nil
	}

	secondsByDay := make(map[string]int)
	for _, rec := range records {
		secondsByDay[dayKey(rec.Date)] += rec.DurationSeconds
	}

	series := make([]DayMinutes, 0, days)
	for i := days - 1; i >= 0; i-- {
		day := ref.UTC().AddDate(0, 0, -i)
		key := day.Format(dayLayout)
		series = append(series, DayMinutes{
			Date:    key,
			Label:   day.Format("Mon"),
			Minutes: secondsByDay[key] / 60,
		})
	}
	return series
}

// CategoryDistribution totals minutes per category, sorted by minutes
// descending then name. An empty log yields a single synthetic entry
// rather than an empty slice.
func (c *Calculator) CategoryDistribution(records []session.Record) []CategoryMinutes {
	if len(records) == 0 {
		return []CategoryMinutes{{Category: NoDataCategory}}
	}

	secondsByCategory := make(map[string]int)
	for _, rec := range records {
		cat := rec.Category
		if cat == "" {
			cat = session.DefaultCategory
		}
		secondsByCategory[cat] += rec.DurationSeconds
	}

	result := make([]CategoryMinutes, 0, len(secondsByCategory))
	for cat, secs := range secondsByCategory {
		result = append(result, CategoryMinutes{Category: cat, Minutes: secs / 60})
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].Minutes != result[j].Minutes {
			return result[i].Minutes > result[j].Minutes
		}
		return result[i].Category < result[j].Category
	})
	return result
}

func dayKey(t time.Time) string {
	return t.UTC().Format(dayLayout)
}
