package engine

import (
	"time"

	"github.com/montanaflynn/stats"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// MinCorrelationSamples is the smallest overlapping daily sample the
// correlator accepts. Below this the coefficient would be misleadingly
// precise, so the result is insufficient-data instead.
const MinCorrelationSamples = 14

// DailyPoint is one day of a goal's completion series: 0/1 for
// boolean-style goals, a scalar for the rest.
type DailyPoint struct {
	Day   time.Time
	Value float64
}

// CorrelationResult is the pairwise association between two goals'
// daily series over their overlapping date range.
type CorrelationResult struct {
	Correlation float64 `json:"correlation"`
	SampleSize  int     `json:"sample_size"`
}

// Correlate computes the Pearson correlation between two daily series
// over the days both cover. It returns ErrInsufficientData when the
// overlap is shorter than MinCorrelationSamples or when either series
// is constant (a zero-variance series has no defined coefficient).
func Correlate(a, b []DailyPoint) (*CorrelationResult, error) {
	byDay := make(map[time.Time]float64, len(b))
	for _, p := range b {
		byDay[dayOf(p.Day)] = p.Value
	}

	var xs, ys []float64
	for _, p := range a {
		if v, ok := byDay[dayOf(p.Day)]; ok {
			xs = append(xs, p.Value)
			ys = append(ys, v)
		}
	}
	if len(xs) < MinCorrelationSamples {
		return nil, ErrInsufficientData
	}
	if constant(xs) || constant(ys) {
		return nil, ErrInsufficientData
	}

	r, err := stats.Pearson(stats.Float64Data(xs), stats.Float64Data(ys))
	if err != nil {
		return nil, ErrInsufficientData
	}
	return &CorrelationResult{Correlation: r, SampleSize: len(xs)}, nil
}

func constant(vs []float64) bool {
	for _, v := range vs[1:] {
		if v != vs[0] {
			return false
		}
	}
	return true
}

// BuildDailySeries converts a goal's history into the daily series the
// correlator consumes, spanning the goal's creation day through asOf.
// Recurring and streak goals yield 0/1 per day; measurement goals yield
// the day's carried-forward value; the rest yield daily sums.
func BuildDailySeries(goal *models.Goal, history []models.Activity, asOf time.Time) []DailyPoint {
	history = liveHistory(history)
	start := dayOf(goal.CreatedAt)
	n := daysBetween(goal.CreatedAt, asOf) + 1
	if n <= 0 {
		return nil
	}

	values := make([]float64, n)
	switch goal.Pattern {
	case models.PatternRecurring, models.PatternStreak:
		for _, d := range qualifyingDays(goal, history) {
			idx := daysBetween(start, d)
			if idx >= 0 && idx < n {
				values[idx] = 1
			}
		}
	case models.PatternTarget:
		values = measurementSeries(goal, history, start, n)
	default:
		for i := range history {
			act := &history[i]
			if goal.Pattern == models.PatternLimit && !limitContributes(act) {
				continue
			}
			if goal.Pattern != models.PatternLimit && !qualifies(goal, act) {
				continue
			}
			idx := daysBetween(start, act.ActivityDate)
			if idx >= 0 && idx < n {
				values[idx] += act.Value
			}
		}
	}

	points := make([]DailyPoint, n)
	for i, v := range values {
		points[i] = DailyPoint{Day: start.AddDate(0, 0, i), Value: v}
	}
	return points
}
