package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/engine"
	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n-1)
}

func floatPtr(v float64) *float64 { return &v }

func newTestProgressService(store *fakeStore, asOf time.Time) *ProgressService {
	svc := NewProgressService(store, store)
	svc.now = func() time.Time { return asOf }
	return svc
}

func seedGoal(t *testing.T, store *fakeStore, goal *models.Goal) *models.Goal {
	t.Helper()
	created, err := store.CreateGoal(context.Background(), goal)
	require.NoError(t, err)
	return created
}

func activeRecurringGoal() *models.Goal {
	return &models.Goal{
		UserID:  primitive.NewObjectID(),
		Name:    "weekly workouts",
		Pattern: models.PatternRecurring,
		Status:  models.StatusActive,
		Target: models.GoalTarget{
			Metric: "count",
			Value:  3,
			Unit:   "sessions",
			Period: models.PeriodWeek,
		},
		CreatedAt: day(1),
	}
}

func activeMilestoneGoal(value float64) *models.Goal {
	due := day(90)
	return &models.Goal{
		UserID:  primitive.NewObjectID(),
		Name:    "novel draft",
		Pattern: models.PatternMilestone,
		Status:  models.StatusActive,
		Target: models.GoalTarget{
			Metric:     "total",
			Value:      value,
			Unit:       "words",
			TargetDate: &due,
		},
		CreatedAt: day(1),
	}
}

func activeTargetGoal(start, target float64) *models.Goal {
	due := day(90)
	return &models.Goal{
		UserID:  primitive.NewObjectID(),
		Name:    "cut weight",
		Pattern: models.PatternTarget,
		Status:  models.StatusActive,
		Target: models.GoalTarget{
			Metric:     "weight",
			Value:      target,
			Unit:       "kg",
			TargetDate: &due,
			StartValue: floatPtr(start),
			Direction:  models.DirectionDecrease,
		},
		CreatedAt: day(1),
	}
}

// withGoal stamps the ownership fields the service would set, for
// tests that seed the store directly.
func withGoal(act *models.Activity, goal *models.Goal) *models.Activity {
	act.GoalID = goal.ID
	act.UserID = goal.UserID
	act.LoggedAt = act.ActivityDate
	return act
}

func TestLogActivityRecomputesAndPersists(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))
	goal := seedGoal(t, store, activeRecurringGoal())

	for _, d := range []time.Time{day(1), day(3), day(5)} {
		snap, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
			Type:         models.ActivityProgress,
			Value:        1,
			ActivityDate: d,
		})
		require.NoError(t, err)
		require.NotNil(t, snap)
	}

	persisted := store.snapshot(goal.ID)
	require.NotNil(t, persisted)
	assert.Equal(t, 3.0, persisted.CurrentPeriodValue)
	assert.Equal(t, 100.0, persisted.PercentComplete)
	assert.True(t, persisted.PeriodAchieved)
	assert.Equal(t, 3, store.progressWrites)
}

func TestLogActivityRejectedLeavesSnapshotUntouched(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))
	goal := activeRecurringGoal()
	goal.Status = models.StatusPaused
	goal = seedGoal(t, store, goal)

	_, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        1,
		ActivityDate: day(3),
	})

	var notActive *engine.GoalNotActiveError
	require.ErrorAs(t, err, &notActive)
	assert.Zero(t, store.progressWrites)

	history, _ := store.GetGoalActivities(context.Background(), goal.ID)
	assert.Empty(t, history, "rejected activity must not be stored")
}

func TestRecomputeConfigurationErrorWritesNothing(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))

	// Seeded directly with a broken configuration: recurring without a
	// period. Recompute must refuse to produce a partial snapshot.
	goal := activeRecurringGoal()
	goal.Target.Period = ""
	goal = seedGoal(t, store, goal)

	snap, err := svc.Recompute(context.Background(), goal.ID.Hex())
	assert.Nil(t, snap)

	var cfgErr *engine.ConfigurationError
	require.ErrorAs(t, err, &cfgErr)
	assert.Zero(t, store.progressWrites)
}

func TestSupersedeActivityCorrectsMilestoneTotal(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))
	goal := seedGoal(t, store, activeMilestoneGoal(80000))

	_, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        15000,
		ActivityDate: day(2),
	})
	require.NoError(t, err)
	second, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        5000,
		ActivityDate: day(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 20000.0, second.TotalAccumulated)

	history, err := store.GetGoalActivities(context.Background(), goal.ID)
	require.NoError(t, err)
	mistaken := history[0]

	snap, err := svc.SupersedeActivity(context.Background(), goal.ID.Hex(), mistaken.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 5000.0, snap.TotalAccumulated)
	assert.Equal(t, 75000.0, snap.RemainingToGoal)

	// The original entry is still there, alongside its tombstone.
	history, err = store.GetGoalActivities(context.Background(), goal.ID)
	require.NoError(t, err)
	require.Len(t, history, 3)
	assert.Equal(t, models.ActivitySkipped, history[2].Type)
	assert.Equal(t, mistaken.ActivityDate, history[2].ActivityDate)
	require.NotNil(t, history[2].Supersedes)
	assert.Equal(t, mistaken.ID, *history[2].Supersedes)
}

func TestSupersedeActivityTargetFallsBackToPriorMeasurement(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))
	goal := seedGoal(t, store, activeTargetGoal(90, 80))

	_, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        89,
		ActivityDate: day(2),
	})
	require.NoError(t, err)
	mistyped, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        8.8, // meant 88
		ActivityDate: day(3),
	})
	require.NoError(t, err)
	assert.Equal(t, 8.8, mistyped.CurrentValue)

	history, err := store.GetGoalActivities(context.Background(), goal.ID)
	require.NoError(t, err)

	// Retracting the typo restores the previous measurement; the
	// tombstone itself must never read as a measurement.
	snap, err := svc.SupersedeActivity(context.Background(), goal.ID.Hex(), history[1].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 89.0, snap.CurrentValue)
	assert.Equal(t, 10.0, snap.PercentComplete)
}

func TestSupersedeActivityStreakRemovesDay(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(3))
	streak := activeStreakGoal()
	streak.Rules.AllowSkipDays = 1
	goal := seedGoal(t, store, streak)

	for _, d := range []time.Time{day(1), day(2), day(3)} {
		act := &models.Activity{Type: models.ActivityProgress, Value: 1, ActivityDate: d}
		_, err := store.InsertActivity(context.Background(), withGoal(act, goal))
		require.NoError(t, err)
	}
	before, err := svc.Recompute(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 3, before.CurrentStreak)

	history, err := store.GetGoalActivities(context.Background(), goal.ID)
	require.NoError(t, err)

	after, err := svc.SupersedeActivity(context.Background(), goal.ID.Hex(), history[2].ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 2, after.CurrentStreak)
	assert.Equal(t, 2, after.LongestStreak)
}

func TestSupersedeRejectsForeignActivity(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(5))
	goalA := seedGoal(t, store, activeMilestoneGoal(1000))
	goalB := seedGoal(t, store, activeMilestoneGoal(1000))

	_, err := svc.LogActivity(context.Background(), goalA.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        100,
		ActivityDate: day(2),
	})
	require.NoError(t, err)

	history, _ := store.GetGoalActivities(context.Background(), goalA.ID)
	_, err = svc.SupersedeActivity(context.Background(), goalB.ID.Hex(), history[0].ID.Hex())
	assert.Error(t, err)
}

func TestLogActivityConcurrentSubmissionsSerialize(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(14))
	goal := seedGoal(t, store, activeMilestoneGoal(100000))

	const workers = 12
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
				Type:         models.ActivityProgress,
				Value:        500,
				ActivityDate: day(1 + i%7),
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	history, err := store.GetGoalActivities(context.Background(), goal.ID)
	require.NoError(t, err)
	assert.Len(t, history, workers)

	// Final persisted snapshot reflects the complete history no matter
	// the interleaving.
	persisted := store.snapshot(goal.ID)
	require.NotNil(t, persisted)
	assert.Equal(t, float64(workers)*500, persisted.TotalAccumulated)
}

func TestRecomputeIsIdempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestProgressService(store, day(6))
	goal := seedGoal(t, store, activeMilestoneGoal(1000))

	_, err := svc.LogActivity(context.Background(), goal.ID.Hex(), &models.Activity{
		Type:         models.ActivityProgress,
		Value:        250,
		ActivityDate: day(2),
	})
	require.NoError(t, err)

	first, err := svc.Recompute(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	second, err := svc.Recompute(context.Background(), goal.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
