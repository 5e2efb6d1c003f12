package models

import "time"

// Trend classifies the direction of recent progress.
type Trend string

const (
	TrendImproving Trend = "improving"
	TrendStable    Trend = "stable"
	TrendDeclining Trend = "declining"
)

// ProgressSnapshot is the engine's computed output, attached to a goal.
// It is wholly derived from the goal configuration plus the activity
// history: recomputing from scratch always reproduces it. It carries no
// wall-clock fields so identical inputs yield identical snapshots.
type ProgressSnapshot struct {
	// recurring / limit
	CurrentPeriodValue float64 `bson:"current_period_value,omitempty" json:"current_period_value,omitempty"`
	PeriodAchieved     bool    `bson:"period_achieved,omitempty" json:"period_achieved,omitempty"`

	// milestone
	TotalAccumulated float64 `bson:"total_accumulated,omitempty" json:"total_accumulated,omitempty"`
	RemainingToGoal  float64 `bson:"remaining_to_goal,omitempty" json:"remaining_to_goal,omitempty"`

	// target
	CurrentValue float64 `bson:"current_value,omitempty" json:"current_value,omitempty"`

	// streak
	CurrentStreak int `bson:"current_streak,omitempty" json:"current_streak,omitempty"`
	LongestStreak int `bson:"longest_streak,omitempty" json:"longest_streak,omitempty"`

	// limit
	AverageValue  float64 `bson:"average_value,omitempty" json:"average_value,omitempty"`
	DaysOverLimit int     `bson:"days_over_limit,omitempty" json:"days_over_limit,omitempty"`

	// universal
	PercentComplete     float64    `bson:"percent_complete" json:"percent_complete"`
	SuccessRate         float64    `bson:"success_rate" json:"success_rate"`
	Trend               Trend      `bson:"trend" json:"trend"`
	LastActivityDate    *time.Time `bson:"last_activity_date,omitempty" json:"last_activity_date,omitempty"`
	ProjectedCompletion *time.Time `bson:"projected_completion,omitempty" json:"projected_completion,omitempty"`
}

// EmptySnapshot is the snapshot a goal starts with and the one a goal
// with no activities recomputes to.
func EmptySnapshot() *ProgressSnapshot {
	return &ProgressSnapshot{Trend: TrendStable}
}
