package engine

import (
	"errors"
	"sort"
	"time"

	"github.com/montanaflynn/stats"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// ComputeProgress folds a goal's activity history into a progress
// snapshot. It is a pure function of (goal configuration, history,
// asOf): identical inputs always produce identical snapshots, and
// recomputing from scratch matches any correctly-ordered incremental
// sequence. An empty history yields a zeroed snapshot, never an error;
// a goal missing a pattern-required field is a ConfigurationError and
// no snapshot is produced at all.
func ComputeProgress(goal *models.Goal, history []models.Activity, asOf time.Time) (*models.ProgressSnapshot, error) {
	if err := CheckGoalConfig(goal); err != nil {
		return nil, err
	}

	ordered := make([]models.Activity, len(history))
	copy(ordered, history)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].ActivityDate.Before(ordered[j].ActivityDate)
	})
	ordered = liveHistory(ordered)

	snap := models.EmptySnapshot()
	if len(ordered) == 0 {
		return snap, nil
	}
	last := ordered[len(ordered)-1].ActivityDate
	snap.LastActivityDate = &last

	switch goal.Pattern {
	case models.PatternRecurring:
		computeRecurring(goal, ordered, asOf, snap)
	case models.PatternMilestone:
		computeMilestone(goal, ordered, asOf, snap)
	case models.PatternTarget:
		computeTarget(goal, ordered, asOf, snap)
	case models.PatternStreak:
		computeStreak(goal, ordered, asOf, snap)
	case models.PatternLimit:
		computeLimit(goal, ordered, asOf, snap)
	}

	snap.Trend = trendFor(goal, trendSeries(goal, ordered, asOf), DefaultTrendWindow)

	eta, err := ProjectCompletion(goal, ordered, asOf, DefaultTrendWindow)
	if err != nil && !errors.Is(err, ErrInsufficientData) {
		return nil, err
	}
	snap.ProjectedCompletion = eta

	return snap, nil
}

// computeRecurring buckets qualifying values by the goal's period and
// runs the rollover carry balance across the elapsed buckets.
func computeRecurring(goal *models.Goal, ordered []models.Activity, asOf time.Time, snap *models.ProgressSnapshot) {
	sums := bucketSeries(ordered, goal.Target.Period, goal.CreatedAt, asOf, func(a *models.Activity) bool {
		return qualifies(goal, a)
	})
	if len(sums) == 0 {
		return
	}

	achieved := 0
	carry := 0.0
	avail := 0.0
	for _, sum := range sums {
		avail = sum + carry
		if avail >= goal.Target.Value {
			achieved++
			if goal.Rules.Rollover {
				carry = avail - goal.Target.Value
			} else {
				carry = 0
			}
		} else {
			carry = 0
		}
	}

	snap.CurrentPeriodValue = sums[len(sums)-1]
	snap.PeriodAchieved = avail >= goal.Target.Value
	snap.SuccessRate = float64(achieved) / float64(len(sums))
	if goal.Rules.PartialCredit {
		snap.PercentComplete = clampPercent(avail / goal.Target.Value * 100)
	} else if snap.PeriodAchieved {
		snap.PercentComplete = 100
	}
}

func computeMilestone(goal *models.Goal, ordered []models.Activity, asOf time.Time, snap *models.ProgressSnapshot) {
	total := accumulate(goal, ordered)
	snap.TotalAccumulated = total
	snap.RemainingToGoal = goal.Target.Value - total
	if snap.RemainingToGoal < 0 {
		snap.RemainingToGoal = 0
	}
	snap.PercentComplete = clampPercent(total / goal.Target.Value * 100)
	snap.SuccessRate = consistency(goal, ordered, asOf)
}

func computeTarget(goal *models.Goal, ordered []models.Activity, asOf time.Time, snap *models.ProgressSnapshot) {
	current, ok := latestMeasurement(goal, ordered)
	if !ok {
		return
	}
	snap.CurrentValue = current
	snap.PercentComplete = targetPercent(goal, current)
	snap.SuccessRate = consistency(goal, ordered, asOf)
}

func computeStreak(goal *models.Goal, ordered []models.Activity, asOf time.Time, snap *models.ProgressSnapshot) {
	st := TrackStreak(goal, ordered, asOf)
	snap.CurrentStreak = st.Current
	snap.LongestStreak = st.Longest
	if goal.Target.Value > 0 {
		snap.PercentComplete = clampPercent(float64(st.Current) / goal.Target.Value * 100)
	}
	snap.SuccessRate = consistency(goal, ordered, asOf)
}

// computeLimit averages per-period sums and counts the periods that
// went over. Lower is better here, so a period is achieved when it
// stays at or under the limit.
func computeLimit(goal *models.Goal, ordered []models.Activity, asOf time.Time, snap *models.ProgressSnapshot) {
	sums := bucketSeries(ordered, goal.Target.Period, goal.CreatedAt, asOf, limitContributes)
	if len(sums) == 0 {
		return
	}

	under := 0
	for _, sum := range sums {
		if sum > goal.Target.Value {
			snap.DaysOverLimit++
		} else {
			under++
		}
	}
	avg, _ := stats.Mean(stats.Float64Data(sums))
	snap.AverageValue = avg
	snap.CurrentPeriodValue = sums[len(sums)-1]
	snap.PeriodAchieved = snap.CurrentPeriodValue <= goal.Target.Value
	snap.SuccessRate = float64(under) / float64(len(sums))
	snap.PercentComplete = clampPercent(snap.SuccessRate * 100)
}

// limitContributes: only progress and completed entries feed the
// running average of a limit goal.
func limitContributes(a *models.Activity) bool {
	return a.Type == models.ActivityProgress || a.Type == models.ActivityCompleted
}

// liveHistory drops retracted entries. An activity referenced by a
// later entry's supersedes pointer is excluded together with the
// retraction itself, so a supersede removes the original from every
// calculation regardless of pattern. Order is preserved.
func liveHistory(history []models.Activity) []models.Activity {
	var retracted map[primitive.ObjectID]bool
	for i := range history {
		if history[i].Supersedes != nil {
			if retracted == nil {
				retracted = make(map[primitive.ObjectID]bool)
			}
			retracted[*history[i].Supersedes] = true
		}
	}
	if retracted == nil {
		return history
	}
	live := make([]models.Activity, 0, len(history))
	for i := range history {
		if history[i].Supersedes != nil || retracted[history[i].ID] {
			continue
		}
		live = append(live, history[i])
	}
	return live
}

// accumulate sums all qualifying activity values. A milestone total
// only decreases when a retraction removes an entry from the live
// history.
func accumulate(goal *models.Goal, history []models.Activity) float64 {
	total := 0.0
	for i := range history {
		if qualifies(goal, &history[i]) {
			total += history[i].Value
		}
	}
	return total
}

// latestMeasurement returns the most recent qualifying value of a
// date-sorted history. Target-pattern activities are absolute
// measurements, not deltas.
func latestMeasurement(goal *models.Goal, ordered []models.Activity) (float64, bool) {
	for i := len(ordered) - 1; i >= 0; i-- {
		if qualifies(goal, &ordered[i]) {
			return ordered[i].Value, true
		}
	}
	return 0, false
}

// targetPercent maps a measurement onto the span from startValue to
// the target value, direction-aware and clamped to [0,100]. A span of
// zero is rejected at configuration time.
func targetPercent(goal *models.Goal, current float64) float64 {
	start := 0.0
	if goal.Target.StartValue != nil {
		start = *goal.Target.StartValue
	}
	span := goal.Target.Value - start
	if goal.Target.Direction == models.DirectionMaintain {
		lo, hi := goal.Target.Value, goal.Target.Value
		if goal.Target.MinValue != nil {
			lo = *goal.Target.MinValue
		}
		if goal.Target.MaxValue != nil {
			hi = *goal.Target.MaxValue
		}
		if current >= lo && current <= hi {
			return 100
		}
		return 0
	}
	if span == 0 {
		if current == goal.Target.Value {
			return 100
		}
		return 0
	}
	return clampPercent((current - start) / span * 100)
}

// consistency is the share of elapsed days since goal creation with at
// least one qualifying activity. It serves as the success rate for the
// patterns that have no period-achievement notion.
func consistency(goal *models.Goal, history []models.Activity, asOf time.Time) float64 {
	elapsed := daysBetween(goal.CreatedAt, asOf) + 1
	if elapsed <= 0 {
		return 0
	}
	active := len(qualifyingDays(goal, history))
	if active > elapsed {
		active = elapsed
	}
	return float64(active) / float64(elapsed)
}

// trendSeries builds the per-period series the trend analyzer runs on:
// bucket sums for period goals, daily measurements for target goals,
// daily 0/1 for streak goals, daily sums for milestone goals.
func trendSeries(goal *models.Goal, ordered []models.Activity, asOf time.Time) []float64 {
	switch goal.Pattern {
	case models.PatternRecurring:
		return bucketSeries(ordered, goal.Target.Period, goal.CreatedAt, asOf, func(a *models.Activity) bool {
			return qualifies(goal, a)
		})
	case models.PatternLimit:
		return bucketSeries(ordered, goal.Target.Period, goal.CreatedAt, asOf, limitContributes)
	case models.PatternTarget:
		length := daysBetween(goal.CreatedAt, asOf) + 1
		return measurementSeries(goal, ordered, dayOf(goal.CreatedAt), length)
	case models.PatternStreak:
		n := daysBetween(goal.CreatedAt, asOf) + 1
		if n <= 0 {
			return nil
		}
		series := make([]float64, n)
		for _, d := range qualifyingDays(goal, ordered) {
			idx := daysBetween(goal.CreatedAt, d)
			if idx >= 0 && idx < n {
				series[idx] = 1
			}
		}
		return series
	default:
		return bucketSeries(ordered, models.PeriodDay, goal.CreatedAt, asOf, func(a *models.Activity) bool {
			return qualifies(goal, a)
		})
	}
}

// bucketSeries sums the included activity values into calendar-aligned
// period buckets from the period containing `from` through the one
// containing `to`. Activities outside that span are ignored.
func bucketSeries(history []models.Activity, p models.Period, from, to time.Time, include func(*models.Activity) bool) []float64 {
	n := periodsBetween(from, to, p)
	if n <= 0 {
		return nil
	}
	series := make([]float64, n)
	for i := range history {
		act := &history[i]
		if !include(act) {
			continue
		}
		idx := periodsBetween(from, act.ActivityDate, p) - 1
		if idx >= 0 && idx < n {
			series[idx] += act.Value
		}
	}
	return series
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
