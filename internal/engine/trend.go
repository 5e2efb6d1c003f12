package engine

import (
	"math"

	"github.com/montanaflynn/stats"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// trendThreshold is the relative change below which two windows are
// considered equivalent. Deliberately biased toward stable: sparse or
// flat history must not produce a spurious trend signal.
const trendThreshold = 0.10

// DefaultTrendWindow is the number of periods in each comparison half.
const DefaultTrendWindow = 7

// ClassifyTrend partitions the most recent 2*windowSize entries of a
// per-period series (oldest first) into two halves and compares their
// means. Fewer than 2*windowSize periods of history yields stable.
func ClassifyTrend(series []float64, windowSize int) models.Trend {
	if windowSize <= 0 || len(series) < 2*windowSize {
		return models.TrendStable
	}
	recent := series[len(series)-2*windowSize:]
	older, _ := stats.Mean(stats.Float64Data(recent[:windowSize]))
	newer, _ := stats.Mean(stats.Float64Data(recent[windowSize:]))

	if older == 0 {
		if newer > 0 {
			return models.TrendImproving
		}
		return models.TrendStable
	}
	rel := (newer - older) / math.Abs(older)
	switch {
	case rel > trendThreshold:
		return models.TrendImproving
	case rel < -trendThreshold:
		return models.TrendDeclining
	default:
		return models.TrendStable
	}
}

// trendFor classifies a goal's trend from its per-period series,
// inverting the comparison for limit goals where a falling mean is the
// improvement.
func trendFor(goal *models.Goal, series []float64, windowSize int) models.Trend {
	t := ClassifyTrend(series, windowSize)
	if goal.Pattern != models.PatternLimit {
		return t
	}
	switch t {
	case models.TrendImproving:
		return models.TrendDeclining
	case models.TrendDeclining:
		return models.TrendImproving
	default:
		return t
	}
}
