package engine

import (
	"errors"
	"fmt"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// ErrInsufficientData is the defined "cannot compute yet" result for
// trend, projection and correlation over sparse history. It is not a
// failure: callers surface it as an empty/omitted value.
var ErrInsufficientData = errors.New("insufficient data")

// ValidationError rejects a malformed activity. The goal is left
// untouched.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s", e.Reason)
}

// PatternMismatchError rejects an activity or configuration whose
// semantics are incompatible with the goal's fixed pattern.
type PatternMismatchError struct {
	Pattern models.GoalPattern
	Reason  string
}

func (e *PatternMismatchError) Error() string {
	return fmt.Sprintf("pattern %q: %s", e.Pattern, e.Reason)
}

// GoalNotActiveError rejects activity submissions against goals outside
// the active status. This is policy, not a data error.
type GoalNotActiveError struct {
	Status models.GoalStatus
}

func (e *GoalNotActiveError) Error() string {
	return fmt.Sprintf("goal is %s, not active", e.Status)
}

// ConfigurationError reports a goal missing a pattern-required field.
// It is fatal for recompute: no partial snapshot is produced.
type ConfigurationError struct {
	Pattern models.GoalPattern
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("goal configuration invalid for pattern %q: field %s: %s", e.Pattern, e.Field, e.Reason)
}
