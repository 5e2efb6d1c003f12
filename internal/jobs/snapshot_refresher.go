package jobs

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/Yerlan2901/Progress_Engine/internal/services"
)

// refreshParallelism bounds how many goals recompute at once during a
// batch pass. The per-goal lock already guarantees exclusivity against
// live submissions; this only caps the fan-out.
const refreshParallelism = 8

// SnapshotRefresher re-derives snapshots for all active goals. The
// real-time path never depends on it: it exists to keep idle goals'
// derived fields (trend, current streak decay) from going stale.
type SnapshotRefresher struct {
	ProgressService *services.ProgressService
	Goals           services.GoalStore
}

// NewSnapshotRefresher creates a new instance of SnapshotRefresher.
func NewSnapshotRefresher(goals services.GoalStore, progressService *services.ProgressService) *SnapshotRefresher {
	return &SnapshotRefresher{
		ProgressService: progressService,
		Goals:           goals,
	}
}

// RunRefresh recomputes every active goal's snapshot.
func (r *SnapshotRefresher) RunRefresh(ctx context.Context) error {
	goals, err := r.Goals.GetActiveGoals(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch active goals: %v", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(refreshParallelism)

	for i := range goals {
		goal := goals[i]
		g.Go(func() error {
			if _, err := r.ProgressService.Recompute(ctx, goal.ID.Hex()); err != nil {
				// One broken goal must not abort the pass.
				logrus.WithField("goal_id", goal.ID.Hex()).WithError(err).Warn("Snapshot refresh failed for goal")
				return nil
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	logrus.WithField("count", len(goals)).Info("Snapshot refresh pass completed")
	return nil
}
