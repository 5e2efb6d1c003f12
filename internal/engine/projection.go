package engine

import (
	"math"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// ProjectCompletion extrapolates the date at which a milestone or
// target goal closes its remaining gap at the current velocity. The
// velocity comes from the newer half of the same two-window split the
// trend analyzer uses. The goal must have been observed for at least
// two full windows of days; anything shorter returns
// (nil, ErrInsufficientData) rather than a precise-looking date built
// on a handful of entries. A zero velocity, or one pointing away from
// the goal, returns (nil, nil): an impossible completion is never
// given a date.
func ProjectCompletion(goal *models.Goal, history []models.Activity, asOf time.Time, windowSize int) (*time.Time, error) {
	c, ok := ConstraintsFor(goal.Pattern)
	if !ok || !c.ProjectionCapable {
		return nil, nil
	}
	days := qualifyingDays(goal, history)
	if len(days) == 0 {
		return nil, ErrInsufficientData
	}
	last := days[len(days)-1]

	// The window must fit inside the goal's lifetime; padding it with
	// days before creation would dilute the velocity.
	if daysBetween(dayOf(goal.CreatedAt), last)+1 < 2*windowSize {
		return nil, ErrInsufficientData
	}

	series := dailyValueSeries(goal, history, last, 2*windowSize)
	older, _ := stats.Mean(stats.Float64Data(series[:windowSize]))
	newer, _ := stats.Mean(stats.Float64Data(series[windowSize:]))

	var perDay, remaining float64
	switch goal.Pattern {
	case models.PatternMilestone:
		total := accumulate(goal, history)
		remaining = goal.Target.Value - total
		perDay = newer
	case models.PatternTarget:
		current, ok := latestMeasurement(goal, history)
		if !ok {
			return nil, ErrInsufficientData
		}
		// Measurement drift per day across the two windows.
		drift := (newer - older) / float64(windowSize)
		if goal.Target.Direction == models.DirectionDecrease {
			remaining = current - goal.Target.Value
			perDay = -drift
		} else {
			remaining = goal.Target.Value - current
			perDay = drift
		}
	}

	if remaining <= 0 {
		// Already at or past the target; nothing left to project.
		return nil, nil
	}
	if perDay <= 0 {
		return nil, nil
	}
	eta := last.AddDate(0, 0, int(math.Ceil(remaining/perDay)))
	return &eta, nil
}

// dailyValueSeries builds a fixed-length per-day series ending at the
// given day. For milestone goals each entry is the day's qualifying
// sum; for target goals it is the day's last measurement, carried
// forward over days without one.
func dailyValueSeries(goal *models.Goal, history []models.Activity, end time.Time, length int) []float64 {
	if length <= 0 {
		return nil
	}
	start := dayOf(end).AddDate(0, 0, -(length - 1))
	if goal.Pattern == models.PatternTarget {
		return measurementSeries(goal, history, start, length)
	}
	series := make([]float64, length)
	for i := range history {
		act := &history[i]
		if !qualifies(goal, act) {
			continue
		}
		idx := daysBetween(start, act.ActivityDate)
		if idx >= 0 && idx < length {
			series[idx] += act.Value
		}
	}
	return series
}

// measurementSeries carries the most recent measurement forward day by
// day so gaps between weigh-in style entries do not read as drops to
// zero.
func measurementSeries(goal *models.Goal, history []models.Activity, start time.Time, length int) []float64 {
	series := make([]float64, length)
	carry := 0.0
	if goal.Target.StartValue != nil {
		carry = *goal.Target.StartValue
	}
	byDay := make(map[int]float64)
	for i := range history {
		act := &history[i]
		if !qualifies(goal, act) {
			continue
		}
		idx := daysBetween(start, act.ActivityDate)
		if idx < length {
			if idx < 0 {
				carry = act.Value
				continue
			}
			byDay[idx] = act.Value
		}
	}
	for i := 0; i < length; i++ {
		if v, ok := byDay[i]; ok {
			carry = v
		}
		series[i] = carry
	}
	return series
}
