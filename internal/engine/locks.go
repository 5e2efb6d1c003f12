package engine

import "sync"

// goalLock is one goal's mutex plus the number of holders and waiters
// currently interested in it.
type goalLock struct {
	mu   sync.Mutex
	refs int
}

// GoalLocks serializes recomputes per goal: at most one concurrent
// recompute may run for a given goal ID, while different goals proceed
// in parallel. Both the progress calculator and the streak tracker
// fold over the complete ordered history, so two interleaved partial
// recomputes of one goal could persist an inconsistent snapshot.
// Entries are refcounted and evicted once the last holder releases,
// so the map does not grow with goal churn.
type GoalLocks struct {
	mu    sync.Mutex
	locks map[string]*goalLock
}

func NewGoalLocks() *GoalLocks {
	return &GoalLocks{locks: make(map[string]*goalLock)}
}

// Lock acquires the lock for one goal, creating it on first use.
// Callers must Unlock with the same ID.
func (g *GoalLocks) Lock(goalID string) {
	g.mu.Lock()
	l, ok := g.locks[goalID]
	if !ok {
		l = &goalLock{}
		g.locks[goalID] = l
	}
	l.refs++
	g.mu.Unlock()
	l.mu.Lock()
}

func (g *GoalLocks) Unlock(goalID string) {
	g.mu.Lock()
	l := g.locks[goalID]
	if l != nil {
		l.refs--
		if l.refs == 0 {
			delete(g.locks, goalID)
		}
	}
	g.mu.Unlock()
	if l != nil {
		l.mu.Unlock()
	}
}
