package usecase_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"coursehub-backend/internal/domain"
	"coursehub-backend/internal/repository"
	"coursehub-backend/internal/testutil"
	"coursehub-backend/internal/usecase"

	"gorm.io/gorm"
)

type env struct {
	db       *gorm.DB
	clock    *testutil.Clock
	activity *repository.MemoryActivityLog
	cache    *fakeCache
	deps     usecase.Deps
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.DB(t)
	e := &env{
		db:       db,
		clock:    testutil.NewClock(),
		activity: repository.NewMemoryActivityLog(0),
		cache:    newFakeCache(),
	}
	e.deps = usecase.Deps{
		Repos:    repository.NewRepositories(db),
		UoW:      repository.NewUnitOfWork(db),
		Activity: e.activity,
		Cache:    e.cache,
		Log:      testutil.Logger(t),
		Now:      e.clock.Now,
	}
	return e
}

func (e *env) activityTypes() []domain.ActivityType {
	var out []domain.ActivityType
	for _, ev := range e.activity.Events() {
		out = append(out, ev.Type)
	}
	return out
}

// fakeCache mirrors the redis cache's versioning: Invalidate bumps the
// version and Set drops snapshots taken under an older one.
type fakeCache struct {
	mu          sync.Mutex
	stats       map[uint]domain.CourseStats
	versions    map[uint]int64
	invalidated []uint
	failGet     bool
	// beforeSet runs once, just before the next Set compares versions.
	beforeSet func()
}

func newFakeCache() *fakeCache {
	return &fakeCache{stats: make(map[uint]domain.CourseStats), versions: make(map[uint]int64)}
}

func (c *fakeCache) Get(_ context.Context, courseID uint) (*domain.CourseStats, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failGet {
		return nil, errors.New("cache down")
	}
	s, ok := c.stats[courseID]
	if !ok {
		return nil, nil
	}
	return &s, nil
}

func (c *fakeCache) Version(_ context.Context, courseID uint) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[courseID], nil
}

func (c *fakeCache) Set(_ context.Context, stats *domain.CourseStats, version int64) error {
	c.mu.Lock()
	hook := c.beforeSet
	c.beforeSet = nil
	c.mu.Unlock()
	if hook != nil {
		hook()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[stats.CourseID] != version {
		return nil
	}
	c.stats[stats.CourseID] = *stats
	return nil
}

func (c *fakeCache) cached(courseID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.stats[courseID]
	return ok
}

func (c *fakeCache) Invalidate(_ context.Context, courseID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[courseID]++
	delete(c.stats, courseID)
	c.invalidated = append(c.invalidated, courseID)
	return nil
}

func (c *fakeCache) wasInvalidated(courseID uint) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.invalidated {
		if id == courseID {
			return true
		}
	}
	return false
}
