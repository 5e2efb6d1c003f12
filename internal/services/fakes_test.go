package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Yerlan2901/Progress_Engine/internal/models"
)

// fakeStore is an in-memory stand-in for both mongo repositories.
type fakeStore struct {
	mu         sync.Mutex
	goals      map[primitive.ObjectID]*models.Goal
	activities map[primitive.ObjectID][]models.Activity

	progressWrites int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		goals:      make(map[primitive.ObjectID]*models.Goal),
		activities: make(map[primitive.ObjectID][]models.Activity),
	}
}

func (f *fakeStore) CreateGoal(_ context.Context, goal *models.Goal) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal.ID = primitive.NewObjectID()
	if goal.CreatedAt.IsZero() {
		goal.CreatedAt = time.Now()
	}
	copied := *goal
	f.goals[goal.ID] = &copied
	return goal, nil
}

func (f *fakeStore) GetGoalByID(_ context.Context, id primitive.ObjectID) (*models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[id]
	if !ok {
		return nil, fmt.Errorf("goal %s not found", id.Hex())
	}
	copied := *goal
	return &copied, nil
}

func (f *fakeStore) GetGoals(_ context.Context, userID primitive.ObjectID, pattern models.GoalPattern) ([]models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Goal
	for _, g := range f.goals {
		if g.UserID == userID && (pattern == "" || g.Pattern == pattern) {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) GetActiveGoals(_ context.Context) ([]models.Goal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Goal
	for _, g := range f.goals {
		if g.Status == models.StatusActive {
			out = append(out, *g)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateStatus(_ context.Context, id primitive.ObjectID, status models.GoalStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[id]
	if !ok {
		return fmt.Errorf("goal %s not found", id.Hex())
	}
	goal.Status = status
	return nil
}

func (f *fakeStore) UpdateProgress(_ context.Context, id primitive.ObjectID, snapshot *models.ProgressSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	goal, ok := f.goals[id]
	if !ok {
		return fmt.Errorf("goal %s not found", id.Hex())
	}
	goal.Progress = snapshot
	f.progressWrites++
	return nil
}

func (f *fakeStore) DeleteGoal(_ context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.goals, id)
	delete(f.activities, id)
	return nil
}

func (f *fakeStore) InsertActivity(_ context.Context, activity *models.Activity) (*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	activity.ID = primitive.NewObjectID()
	f.activities[activity.GoalID] = append(f.activities[activity.GoalID], *activity)
	return activity, nil
}

func (f *fakeStore) GetActivityByID(_ context.Context, id primitive.ObjectID) (*models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, history := range f.activities {
		for i := range history {
			if history[i].ID == id {
				copied := history[i]
				return &copied, nil
			}
		}
	}
	return nil, fmt.Errorf("activity %s not found", id.Hex())
}

func (f *fakeStore) GetGoalActivities(_ context.Context, goalID primitive.ObjectID) ([]models.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	history := f.activities[goalID]
	out := make([]models.Activity, len(history))
	copy(out, history)
	return out, nil
}

func (f *fakeStore) snapshot(id primitive.ObjectID) *models.ProgressSnapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.goals[id].Progress
}
