package repository_test

import (
	"context"
	"sync"
	"testing"

	"coursehub-backend/internal/domain"
	"coursehub-backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryActivityLog(t *testing.T) {
	ctx := context.Background()
	log := repository.NewMemoryActivityLog(3)

	for i := uint(1); i <= 4; i++ {
		require.NoError(t, log.Record(ctx, domain.ActivityEvent{Type: domain.ActivityEnrolled, CourseID: 1, EntityID: i}))
	}
	require.NoError(t, log.Record(ctx, domain.ActivityEvent{Type: domain.ActivityReviewAdded, CourseID: 2}))

	t.Run("Oldest events are trimmed", func(t *testing.T) {
		events := log.Events()
		require.Len(t, events, 3)
		assert.Equal(t, uint(3), events[0].EntityID)
	})

	t.Run("Newest first with limit", func(t *testing.T) {
		events, err := log.ListByCourse(ctx, 1, 1)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, uint(4), events[0].EntityID)
	})

	t.Run("Other courses are filtered out", func(t *testing.T) {
		events, err := log.ListByCourse(ctx, 2, 0)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, domain.ActivityReviewAdded, events[0].Type)
	})
}

func TestMemoryActivityLogConcurrentRecord(t *testing.T) {
	ctx := context.Background()
	log := repository.NewMemoryActivityLog(0)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = log.Record(ctx, domain.ActivityEvent{Type: domain.ActivityQuizAttempt, CourseID: 1})
		}()
	}
	wg.Wait()

	assert.Len(t, log.Events(), 50)
}

func TestParseRedisURL(t *testing.T) {
	_, err := repository.ParseRedisURL("")
	assert.Error(t, err)

	_, err = repository.ParseRedisURL("http://localhost:6379")
	assert.Error(t, err)

	opts, err := repository.ParseRedisURL("redis://:secret@localhost:6380/2")
	require.NoError(t, err)
	assert.Equal(t, "localhost:6380", opts.Addr)
	assert.Equal(t, 2, opts.DB)
	assert.Equal(t, "secret", opts.Password)
}
