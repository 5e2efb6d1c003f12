package engine

import (
	"sort"
	"time"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// StreakState is the fold result over a goal's qualifying-day sequence.
type StreakState struct {
	Current int
	Longest int
}

// qualifies reports whether an activity counts toward progress at all.
// Skipped entries are logged but excluded; partial entries count only
// when the goal grants partial credit.
func qualifies(goal *models.Goal, act *models.Activity) bool {
	switch act.Type {
	case models.ActivitySkipped:
		return false
	case models.ActivityPartial:
		return goal.Rules.PartialCredit
	default:
		return true
	}
}

// qualifyingDays returns the sorted, de-duplicated UTC days on which a
// qualifying activity occurred. Duplicate same-day entries collapse to
// one, which makes the streak fold idempotent with respect to them.
func qualifyingDays(goal *models.Goal, history []models.Activity) []time.Time {
	seen := make(map[time.Time]bool, len(history))
	var days []time.Time
	for i := range history {
		if !qualifies(goal, &history[i]) {
			continue
		}
		d := dayOf(history[i].ActivityDate)
		if !seen[d] {
			seen[d] = true
			days = append(days, d)
		}
	}
	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })
	return days
}

// TrackStreak folds the date-sorted qualifying days into streak state.
// A gap of up to allowSkipDays missed days keeps the streak alive (the
// skipped days themselves do not count); a larger gap breaks it and the
// next qualifying day restarts at 1. Longest is a high-water mark and
// never decreases. Because the fold runs over the full sorted history,
// make-up activities that arrived out of chronological order land in
// their proper place and fill the gap they cover.
func TrackStreak(goal *models.Goal, history []models.Activity, asOf time.Time) StreakState {
	days := qualifyingDays(goal, history)
	if len(days) == 0 {
		return StreakState{}
	}

	allow := goal.Rules.AllowSkipDays
	run := 1
	longest := 1
	for i := 1; i < len(days); i++ {
		missed := daysBetween(days[i-1], days[i]) - 1
		if missed <= allow {
			run++
		} else {
			run = 1
		}
		if run > longest {
			longest = run
		}
	}

	// The streak is only current while the gap since the last
	// qualifying day is still inside the grace window.
	if daysBetween(days[len(days)-1], asOf)-1 > allow {
		run = 0
	}
	return StreakState{Current: run, Longest: longest}
}
