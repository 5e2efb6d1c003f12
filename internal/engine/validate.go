package engine

import (
	"fmt"
	"time"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// ValidateActivity checks a candidate activity against its goal's
// pattern rules and existing history. A nil return means accept; any
// error is the reject reason. Validation never mutates the goal.
func ValidateActivity(goal *models.Goal, history []models.Activity, act *models.Activity, now time.Time) error {
	if goal.Status != models.StatusActive {
		return &GoalNotActiveError{Status: goal.Status}
	}
	if err := CheckGoalConfig(goal); err != nil {
		return err
	}
	if !models.AllowedActivityTypes[act.Type] {
		return &ValidationError{Reason: fmt.Sprintf("unknown activity type %q", act.Type)}
	}
	if act.ActivityDate.IsZero() {
		return &ValidationError{Reason: "activity date is required"}
	}
	if dayOf(act.ActivityDate).After(dayOf(now)) {
		return &ValidationError{Reason: "activity date is in the future"}
	}

	c, _ := ConstraintsFor(goal.Pattern)
	if act.Value < 0 && !c.AllowNegativeValue {
		return &ValidationError{Reason: "activity value must not be negative"}
	}
	if goal.Rules.MinValue != nil && act.Value < *goal.Rules.MinValue {
		return &ValidationError{Reason: fmt.Sprintf("activity value %.2f below rule minimum %.2f", act.Value, *goal.Rules.MinValue)}
	}
	if goal.Rules.MaxValue != nil && act.Value > *goal.Rules.MaxValue {
		return &ValidationError{Reason: fmt.Sprintf("activity value %.2f above rule maximum %.2f", act.Value, *goal.Rules.MaxValue)}
	}

	switch goal.Pattern {
	case models.PatternRecurring, models.PatternLimit:
		// Period-bucketed goals only accept activities inside the span
		// from the goal's first period to the current one.
		if act.ActivityDate.Before(periodStart(goal.CreatedAt, goal.Target.Period)) {
			return &PatternMismatchError{Pattern: goal.Pattern, Reason: "activity dated before the goal's first period"}
		}
	case models.PatternStreak:
		if err := checkStreakBackdating(goal, history, act, now); err != nil {
			return err
		}
	}
	return nil
}

// checkStreakBackdating enforces the catch-up policy: streak goals
// reject backdated activities unless catch-up is allowed, a make-up
// entry must land inside the grace window, and each grace window
// permits a single make-up.
func checkStreakBackdating(goal *models.Goal, history []models.Activity, act *models.Activity, now time.Time) error {
	back := daysBetween(act.ActivityDate, now)
	if back <= 0 {
		return nil
	}
	if !goal.Rules.CatchUpAllowed {
		return &ValidationError{Reason: "backdated activity requires catch-up to be allowed"}
	}
	window := goal.Rules.AllowSkipDays + 1
	if back > window {
		return &ValidationError{Reason: fmt.Sprintf("make-up activity is %d days back, outside the %d-day grace window", back, window)}
	}
	live := liveHistory(history)
	for i := range live {
		e := &live[i]
		if daysBetween(e.ActivityDate, e.LoggedAt) <= 0 {
			continue // logged on its own day
		}
		if daysBetween(e.ActivityDate, now) <= window {
			return &ValidationError{Reason: "a make-up activity was already logged inside this grace window"}
		}
	}
	return nil
}
