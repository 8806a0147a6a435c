package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
)

// ProblemMemory is an in-memory ProblemRepository. It hands out copies so
// callers can never mutate the stored problems, matching the identifier
// stability guarantee of the persistent store.
type ProblemMemory struct {
	mu       sync.RWMutex
	problems map[uint]*models.Problem
	nextID   uint
}

func NewProblemMemory() *ProblemMemory {
	return &ProblemMemory{
		problems: make(map[uint]*models.Problem),
		nextID:   1,
	}
}

func (m *ProblemMemory) GetByID(ctx context.Context, id uint) (*models.Problem, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	p, ok := m.problems[id]
	if !ok {
		return nil, repositories.ErrProblemNotFound
	}
	return copyProblem(p), nil
}

func (m *ProblemMemory) List(ctx context.Context, filters repositories.ProblemFilters) ([]*models.Problem, int64, error) {
	all := m.snapshot(func(p *models.Problem) bool {
		if filters.Difficulty != nil && p.Difficulty != *filters.Difficulty {
			return false
		}
		return p.HasAnyTag(filters.Tags)
	})

	total := int64(len(all))
	if filters.Offset > 0 {
		if filters.Offset >= len(all) {
			return nil, total, nil
		}
		all = all[filters.Offset:]
	}
	if filters.Limit > 0 && filters.Limit < len(all) {
		all = all[:filters.Limit]
	}
	return all, total, nil
}

func (m *ProblemMemory) ListAll(ctx context.Context) ([]*models.Problem, error) {
	return m.snapshot(nil), nil
}

func (m *ProblemMemory) GetByTags(ctx context.Context, tags []string) ([]*models.Problem, error) {
	return m.snapshot(func(p *models.Problem) bool { return p.HasAnyTag(tags) }), nil
}

func (m *ProblemMemory) GetByDifficulty(ctx context.Context, min, max int) ([]*models.Problem, error) {
	return m.snapshot(func(p *models.Problem) bool {
		return p.Difficulty >= min && p.Difficulty <= max
	}), nil
}

func (m *ProblemMemory) Count(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.problems)), nil
}

func (m *ProblemMemory) CreateBatch(ctx context.Context, problems []*models.Problem) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, p := range problems {
		stored := copyProblem(p)
		if stored.ID == 0 {
			stored.ID = m.nextID
		}
		if stored.ID >= m.nextID {
			m.nextID = stored.ID + 1
		}
		for i := range stored.Choices {
			if stored.Choices[i].ID == 0 {
				stored.Choices[i].ID = stored.ID*100 + uint(i) + 1
			}
			stored.Choices[i].ProblemID = stored.ID
		}
		m.problems[stored.ID] = stored
		p.ID = stored.ID
	}
	return nil
}

// Delete removes a problem. Tests use this to simulate a store that has
// drifted behind the index.
func (m *ProblemMemory) Delete(id uint) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.problems, id)
}

// snapshot returns copies of matching problems in ascending id order.
func (m *ProblemMemory) snapshot(match func(*models.Problem) bool) []*models.Problem {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]*models.Problem, 0, len(m.problems))
	for _, p := range m.problems {
		if match == nil || match(p) {
			result = append(result, copyProblem(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result
}

func copyProblem(p *models.Problem) *models.Problem {
	dup := *p
	dup.Choices = make([]models.Choice, len(p.Choices))
	copy(dup.Choices, p.Choices)
	if p.Source != nil {
		dup.Source = append(dup.Source[:0:0], p.Source...)
	}
	return &dup
}
