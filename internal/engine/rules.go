package engine

import (
	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// PatternConstraints is the static rule table entry for one goal
// pattern: which target fields it requires or forbids and what an
// activity against it may look like. Absence of a required field is a
// data-integrity violation, never silently defaulted.
type PatternConstraints struct {
	RequiresPeriod     bool
	ForbidsPeriod      bool
	RequiresTargetDate bool
	ForbidsTargetDate  bool
	RequiresStartValue bool
	RequiresDirection  bool
	AllowNegativeValue bool
	ProjectionCapable  bool
}

var patternTable = map[models.GoalPattern]PatternConstraints{
	models.PatternRecurring: {
		RequiresPeriod:    true,
		ForbidsTargetDate: true,
	},
	models.PatternMilestone: {
		ForbidsPeriod:      true,
		RequiresTargetDate: true,
		ProjectionCapable:  true,
	},
	models.PatternTarget: {
		ForbidsPeriod:      true,
		RequiresTargetDate: true,
		RequiresStartValue: true,
		RequiresDirection:  true,
		ProjectionCapable:  true,
	},
	models.PatternStreak: {
		ForbidsPeriod:     true,
		ForbidsTargetDate: true,
	},
	models.PatternLimit: {
		RequiresPeriod:    true,
		ForbidsTargetDate: true,
	},
}

// ConstraintsFor returns the rule table entry for a pattern.
func ConstraintsFor(pattern models.GoalPattern) (PatternConstraints, bool) {
	c, ok := patternTable[pattern]
	return c, ok
}

// CheckGoalConfig verifies a goal's configuration against the rule
// table. A nil return means the configuration is computable; any error
// is a ConfigurationError (or PatternMismatchError for an unknown
// pattern) and must block recompute entirely.
func CheckGoalConfig(goal *models.Goal) error {
	c, ok := patternTable[goal.Pattern]
	if !ok {
		return &PatternMismatchError{Pattern: goal.Pattern, Reason: "unknown pattern"}
	}
	if c.RequiresPeriod && goal.Target.Period == "" {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "target.period", Reason: "required"}
	}
	if c.ForbidsPeriod && goal.Target.Period != "" {
		return &PatternMismatchError{Pattern: goal.Pattern, Reason: "target.period is not permitted"}
	}
	if c.RequiresPeriod {
		switch goal.Target.Period {
		case models.PeriodDay, models.PeriodWeek, models.PeriodMonth:
		default:
			return &ConfigurationError{Pattern: goal.Pattern, Field: "target.period", Reason: "unknown period"}
		}
	}
	if c.RequiresTargetDate && goal.Target.TargetDate == nil {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "target.target_date", Reason: "required"}
	}
	if c.ForbidsTargetDate && goal.Target.TargetDate != nil {
		return &PatternMismatchError{Pattern: goal.Pattern, Reason: "target.target_date is not permitted"}
	}
	if c.RequiresStartValue && goal.Target.StartValue == nil {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "target.start_value", Reason: "required"}
	}
	if c.RequiresDirection {
		switch goal.Target.Direction {
		case models.DirectionIncrease, models.DirectionDecrease, models.DirectionMaintain:
		default:
			return &ConfigurationError{Pattern: goal.Pattern, Field: "target.direction", Reason: "required"}
		}
	}
	if goal.Pattern != models.PatternStreak && goal.Target.Value <= 0 {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "target.value", Reason: "must be positive"}
	}
	if goal.Pattern == models.PatternTarget && goal.Target.StartValue != nil && *goal.Target.StartValue == goal.Target.Value {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "target.start_value", Reason: "must differ from target value"}
	}
	if goal.Rules.AllowSkipDays < 0 {
		return &ConfigurationError{Pattern: goal.Pattern, Field: "rules.allow_skip_days", Reason: "must not be negative"}
	}
	return nil
}
