package repository

import (
	"context"
	"sync"

	"coursehub-backend/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const activityCollection = "activity_events"

type activityLog struct {
	db *mongo.Database
}

func NewActivityLog(db *mongo.Database) domain.ActivityLog {
	return &activityLog{db}
}

func (r *activityLog) Record(ctx context.Context, event domain.ActivityEvent) error {
	_, err := r.db.Collection(activityCollection).InsertOne(ctx, event)
	return err
}

func (r *activityLog) ListByCourse(ctx context.Context, courseID uint, limit int64) ([]domain.ActivityEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "occurred_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.db.Collection(activityCollection).Find(ctx, bson.M{"course_id": courseID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var events []domain.ActivityEvent
	if err := cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// EnsureActivityIndexes creates the course/time index used by ListByCourse.
func EnsureActivityIndexes(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(activityCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "course_id", Value: 1}, {Key: "occurred_at", Value: -1}},
	})
	return err
}

// ========== IN-PROCESS LOGS ==========

// MemoryActivityLog keeps the most recent events in process; used when
// mongo is not configured and in tests. A capacity of 0 keeps everything.
type MemoryActivityLog struct {
	mu       sync.RWMutex
	events   []domain.ActivityEvent
	capacity int
}

func NewMemoryActivityLog(capacity int) *MemoryActivityLog {
	return &MemoryActivityLog{capacity: capacity}
}

func (m *MemoryActivityLog) Record(_ context.Context, event domain.ActivityEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event)
	if m.capacity > 0 && len(m.events) > m.capacity {
		m.events = append(m.events[:0:0], m.events[len(m.events)-m.capacity:]...)
	}
	return nil
}

func (m *MemoryActivityLog) ListByCourse(_ context.Context, courseID uint, limit int64) ([]domain.ActivityEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []domain.ActivityEvent
	for i := len(m.events) - 1; i >= 0; i-- {
		if m.events[i].CourseID != courseID {
			continue
		}
		out = append(out, m.events[i])
		if limit > 0 && int64(len(out)) >= limit {
			break
		}
	}
	return out, nil
}

// Events returns a copy of everything recorded.
func (m *MemoryActivityLog) Events() []domain.ActivityEvent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.ActivityEvent, len(m.events))
	copy(out, m.events)
	return out
}
