package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tokiwa-akira/gkentei/internal/models"
)

// ErrNotFound is returned for unknown or expired exam ids.
var ErrNotFound = errors.New("exam not cached")

// ExamCache keeps generated exams for a bounded time so clients can fetch
// the exam view again by id. Entries expire on their own; nothing is ever
// updated in place.
type ExamCache interface {
	Put(ctx context.Context, exam *models.StoredExam) error
	Get(ctx context.Context, examID string) (*models.StoredExam, error)
}

type redisExamCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisExamCache(client *redis.Client, ttl time.Duration) ExamCache {
	return &redisExamCache{client: client, ttl: ttl}
}

func examKey(examID string) string {
	return "exam:" + examID
}

func (r *redisExamCache) Put(ctx context.Context, exam *models.StoredExam) error {
	data, err := json.Marshal(exam)
	if err != nil {
		return fmt.Errorf("failed to marshal exam %s: %w", exam.ExamID, err)
	}
	if err := r.client.Set(ctx, examKey(exam.ExamID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache exam %s: %w", exam.ExamID, err)
	}
	return nil
}

func (r *redisExamCache) Get(ctx context.Context, examID string) (*models.StoredExam, error) {
	data, err := r.client.Get(ctx, examKey(examID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read exam %s: %w", examID, err)
	}

	var exam models.StoredExam
	if err := json.Unmarshal(data, &exam); err != nil {
		return nil, fmt.Errorf("failed to unmarshal exam %s: %w", examID, err)
	}
	return &exam, nil
}

// MemoryExamCache is a map-backed ExamCache for tests and redis-less runs.
// Safe for concurrent use.
type MemoryExamCache struct {
	mu    sync.RWMutex
	exams map[string]*models.StoredExam
}

func NewMemoryExamCache() *MemoryExamCache {
	return &MemoryExamCache{exams: make(map[string]*models.StoredExam)}
}

func (m *MemoryExamCache) Put(ctx context.Context, exam *models.StoredExam) error {
	dup := *exam
	dup.ProblemIDs = append([]uint(nil), exam.ProblemIDs...)
	m.mu.Lock()
	m.exams[exam.ExamID] = &dup
	m.mu.Unlock()
	return nil
}

func (m *MemoryExamCache) Get(ctx context.Context, examID string) (*models.StoredExam, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	exam, ok := m.exams[examID]
	if !ok {
		return nil, ErrNotFound
	}
	return exam, nil
}
