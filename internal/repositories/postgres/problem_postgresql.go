package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"gorm.io/gorm"
)

type ProblemPostgreSQL struct {
	db *gorm.DB
}

func NewProblemPostgreSQL(db *gorm.DB) repositories.ProblemRepository {
	return &ProblemPostgreSQL{db: db}
}

// GetByID retrieves a problem with its choices.
func (p *ProblemPostgreSQL) GetByID(ctx context.Context, id uint) (*models.Problem, error) {
	var problem models.Problem
	if err := p.db.WithContext(ctx).
		Preload("Choices").
		First(&problem, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repositories.ErrProblemNotFound
		}
		return nil, fmt.Errorf("failed to get problem %d: %w", id, err)
	}
	return &problem, nil
}

// List retrieves problems matching the filters plus the unfiltered total.
func (p *ProblemPostgreSQL) List(ctx context.Context, filters repositories.ProblemFilters) ([]*models.Problem, int64, error) {
	query := p.db.WithContext(ctx).Model(&models.Problem{})

	if filters.Difficulty != nil {
		query = query.Where("difficulty = ?", *filters.Difficulty)
	}
	if len(filters.Tags) > 0 {
		cond, args := tagCondition(filters.Tags)
		query = query.Where(cond, args...)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count problems: %w", err)
	}

	if filters.Limit > 0 {
		query = query.Limit(filters.Limit)
	}
	if filters.Offset > 0 {
		query = query.Offset(filters.Offset)
	}

	var problems []*models.Problem
	if err := query.Preload("Choices").Order("id ASC").Find(&problems).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, total, nil
}

// ListAll retrieves the whole store in ascending id order. The index builder
// depends on this ordering being deterministic.
func (p *ProblemPostgreSQL) ListAll(ctx context.Context) ([]*models.Problem, error) {
	var problems []*models.Problem
	if err := p.db.WithContext(ctx).
		Preload("Choices").
		Order("id ASC").
		Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("failed to list problems: %w", err)
	}
	return problems, nil
}

// GetByTags retrieves problems carrying at least one of the given tags.
func (p *ProblemPostgreSQL) GetByTags(ctx context.Context, tags []string) ([]*models.Problem, error) {
	if len(tags) == 0 {
		return p.ListAll(ctx)
	}
	cond, args := tagCondition(tags)
	var problems []*models.Problem
	if err := p.db.WithContext(ctx).
		Preload("Choices").
		Where(cond, args...).
		Order("id ASC").
		Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("failed to get problems by tags: %w", err)
	}
	return problems, nil
}

// GetByDifficulty retrieves problems within the inclusive difficulty range.
func (p *ProblemPostgreSQL) GetByDifficulty(ctx context.Context, min, max int) ([]*models.Problem, error) {
	var problems []*models.Problem
	if err := p.db.WithContext(ctx).
		Preload("Choices").
		Where("difficulty BETWEEN ? AND ?", min, max).
		Order("id ASC").
		Find(&problems).Error; err != nil {
		return nil, fmt.Errorf("failed to get problems by difficulty: %w", err)
	}
	return problems, nil
}

func (p *ProblemPostgreSQL) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Problem{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count problems: %w", err)
	}
	return count, nil
}

// CreateBatch inserts problems and their choices in one transaction.
func (p *ProblemPostgreSQL) CreateBatch(ctx context.Context, problems []*models.Problem) error {
	if len(problems) == 0 {
		return nil
	}
	if err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(problems).Error
	}); err != nil {
		return fmt.Errorf("failed to create problems: %w", err)
	}
	return nil
}

// tagCondition matches the comma-separated tags column against any of the
// given tags. Tags are stored trimmed, so a bounded set of LIKE patterns
// covers the start, middle and end positions.
func tagCondition(tags []string) (string, []interface{}) {
	conditions := make([]string, 0, len(tags))
	args := make([]interface{}, 0, len(tags)*4)
	for _, tag := range tags {
		escaped := strings.NewReplacer("%", `\%`, "_", `\_`).Replace(tag)
		conditions = append(conditions, "(tags = ? OR tags LIKE ? OR tags LIKE ? OR tags LIKE ?)")
		args = append(args, tag, escaped+",%", "%,"+escaped+",%", "%,"+escaped)
	}
	return strings.Join(conditions, " OR "), args
}
