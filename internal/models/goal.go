package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// GoalPattern is the fixed shape of a goal's progress semantics.
// It is set at creation and never changes; switching patterns means
// creating a new goal.
type GoalPattern string

const (
	PatternRecurring GoalPattern = "recurring"
	PatternMilestone GoalPattern = "milestone"
	PatternTarget    GoalPattern = "target"
	PatternStreak    GoalPattern = "streak"
	PatternLimit     GoalPattern = "limit"
)

// AllowedPatterns is the closed set of goal patterns.
var AllowedPatterns = map[GoalPattern]bool{
	PatternRecurring: true,
	PatternMilestone: true,
	PatternTarget:    true,
	PatternStreak:    true,
	PatternLimit:     true,
}

// GoalStatus is the goal lifecycle state, controlled by the caller.
type GoalStatus string

const (
	StatusDraft     GoalStatus = "draft"
	StatusActive    GoalStatus = "active"
	StatusPaused    GoalStatus = "paused"
	StatusCompleted GoalStatus = "completed"
	StatusArchived  GoalStatus = "archived"
)

var AllowedStatuses = map[GoalStatus]bool{
	StatusDraft:     true,
	StatusActive:    true,
	StatusPaused:    true,
	StatusCompleted: true,
	StatusArchived:  true,
}

// Period is a calendar-aligned bucketing unit.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
)

type Direction string

const (
	DirectionIncrease Direction = "increase"
	DirectionDecrease Direction = "decrease"
	DirectionMaintain Direction = "maintain"
)

type TargetType string

const (
	TargetMinimum TargetType = "minimum"
	TargetMaximum TargetType = "maximum"
	TargetExact   TargetType = "exact"
	TargetRange   TargetType = "range"
)

// GoalTarget describes what the goal is aiming for. Which fields are
// required depends on the goal's pattern; the engine's rule table is
// the authority on that.
type GoalTarget struct {
	Metric     string     `bson:"metric" json:"metric"`
	Value      float64    `bson:"value" json:"value"`
	Unit       string     `bson:"unit" json:"unit"`
	Period     Period     `bson:"period,omitempty" json:"period,omitempty"`
	TargetDate *time.Time `bson:"target_date,omitempty" json:"target_date,omitempty"`
	StartValue *float64   `bson:"start_value,omitempty" json:"start_value,omitempty"`
	Direction  Direction  `bson:"direction,omitempty" json:"direction,omitempty"`
	TargetType TargetType `bson:"target_type,omitempty" json:"target_type,omitempty"`
	MinValue   *float64   `bson:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue   *float64   `bson:"max_value,omitempty" json:"max_value,omitempty"`
}

// GoalRules tunes how progress is credited.
type GoalRules struct {
	MinValue       *float64 `bson:"min_value,omitempty" json:"min_value,omitempty"`
	MaxValue       *float64 `bson:"max_value,omitempty" json:"max_value,omitempty"`
	Rollover       bool     `bson:"rollover" json:"rollover"`
	PartialCredit  bool     `bson:"partial_credit" json:"partial_credit"`
	AllowSkipDays  int      `bson:"allow_skip_days" json:"allow_skip_days"`
	CatchUpAllowed bool     `bson:"catch_up_allowed" json:"catch_up_allowed"`
}

// Goal is a tracked objective. Progress is never edited by hand: it is
// recomputed from the activity history and written back as a whole.
type Goal struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Name      string             `bson:"name" json:"name"`
	Pattern   GoalPattern        `bson:"pattern" json:"pattern"`
	Target    GoalTarget         `bson:"target" json:"target"`
	Rules     GoalRules          `bson:"rules" json:"rules"`
	Status    GoalStatus         `bson:"status" json:"status"`
	Progress  *ProgressSnapshot  `bson:"progress,omitempty" json:"progress,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`
}
