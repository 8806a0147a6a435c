package services

import (
	"context"
	"errors"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/tokiwa-akira/gkentei/internal/cache"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

// ExamService composes timed mock exams under difficulty-ratio and tag
// constraints and serves cached exams back by id.
type ExamService interface {
	Generate(ctx context.Context, req *models.ExamGenerateRequest) (*models.ExamResponse, error)
	GetExam(ctx context.Context, examID string) (*models.ExamResponse, error)
}

type examService struct {
	repo      repositories.ProblemRepository
	cache     cache.ExamCache
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewExamService(
	repo repositories.ProblemRepository,
	examCache cache.ExamCache,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) ExamService {
	return &examService{
		repo:      repo,
		cache:     examCache,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

// Generate selects a constraint-satisfying subset of the store and
// assembles a timed exam. Sampling uses a source seeded per request, so
// concurrent generations share no random state, and two identical requests
// produce different exam ids and generally different question sets.
func (s *examService) Generate(ctx context.Context, req *models.ExamGenerateRequest) (*models.ExamResponse, error) {
	if err := s.validator.ValidateExamRequest(req); err != nil {
		return nil, err
	}

	pool, err := s.repo.GetByTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	byDifficulty := make(map[string][]*models.Problem)
	available := make(map[string]int)
	for _, p := range pool {
		label := strconv.Itoa(p.Difficulty)
		byDifficulty[label] = append(byDifficulty[label], p)
		available[label]++
	}

	targets := Apportion(req.NumQuestions, req.DifficultyRatio)
	take := RedistributeShortfall(targets, available)

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	selected := make([]*models.Problem, 0, req.NumQuestions)
	for label, count := range take {
		selected = append(selected, sample(rng, byDifficulty[label], count)...)
	}

	// Presentation order must not cluster by difficulty.
	rng.Shuffle(len(selected), func(i, j int) {
		selected[i], selected[j] = selected[j], selected[i]
	})

	examID := uuid.NewString()
	questions := make([]models.ExamQuestion, 0, len(selected))
	problemIDs := make([]uint, 0, len(selected))
	distribution := make(map[string]int)
	for _, p := range selected {
		questions = append(questions, models.ExamQuestionView(p))
		problemIDs = append(problemIDs, p.ID)
		distribution[strconv.Itoa(p.Difficulty)]++
	}

	if len(questions) < req.NumQuestions {
		s.logger.Warn("exam generated short of request",
			"exam_id", examID,
			"requested", req.NumQuestions,
			"produced", len(questions))
	}

	stored := &models.StoredExam{
		ExamID:       examID,
		ProblemIDs:   problemIDs,
		TimeLimitMin: req.TimeLimitMin,
		CreatedAt:    time.Now(),
	}
	if err := s.cache.Put(ctx, stored); err != nil {
		// The exam is still usable from the response; losing the cached
		// copy only breaks later re-fetches.
		s.logger.LogError(err, "failed to cache generated exam", "exam_id", examID)
	}

	s.publishGenerated(ctx, examID, req, targets, distribution, len(questions))

	return &models.ExamResponse{
		ExamID:                 examID,
		Questions:              questions,
		TimeLimitMin:           req.TimeLimitMin,
		TotalQuestions:         len(questions),
		DifficultyDistribution: distribution,
	}, nil
}

// GetExam rebuilds the exam view for a previously generated exam. Problems
// that have since left the store are skipped.
func (s *examService) GetExam(ctx context.Context, examID string) (*models.ExamResponse, error) {
	stored, err := s.cache.Get(ctx, examID)
	if err != nil {
		if errors.Is(err, cache.ErrNotFound) {
			return nil, ErrExamNotFound
		}
		return nil, err
	}

	questions := make([]models.ExamQuestion, 0, len(stored.ProblemIDs))
	distribution := make(map[string]int)
	for _, id := range stored.ProblemIDs {
		problem, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, repositories.ErrProblemNotFound) {
				s.logger.Warn("cached exam references a missing problem",
					"exam_id", examID,
					"problem_id", id,
					"error", ErrInconsistent)
				continue
			}
			return nil, err
		}
		questions = append(questions, models.ExamQuestionView(problem))
		distribution[strconv.Itoa(problem.Difficulty)]++
	}

	return &models.ExamResponse{
		ExamID:                 stored.ExamID,
		Questions:              questions,
		TimeLimitMin:           stored.TimeLimitMin,
		TotalQuestions:         len(questions),
		DifficultyDistribution: distribution,
	}, nil
}

// sample draws count problems without replacement.
func sample(rng *rand.Rand, pool []*models.Problem, count int) []*models.Problem {
	if count >= len(pool) {
		return pool
	}
	picked := make([]*models.Problem, 0, count)
	for _, i := range rng.Perm(len(pool))[:count] {
		picked = append(picked, pool[i])
	}
	return picked
}

func (s *examService) publishGenerated(
	ctx context.Context,
	examID string,
	req *models.ExamGenerateRequest,
	targets, distribution map[string]int,
	produced int,
) {
	shortfall := make(map[string]int)
	for label, want := range targets {
		if got := distribution[label]; got < want {
			shortfall[label] = want - got
		}
	}
	if len(shortfall) == 0 {
		shortfall = nil
	}

	event := &events.EngineEvent{
		ID:        uuid.NewString(),
		Type:      events.EventExamGenerated,
		Timestamp: time.Now(),
		Source:    "exam-composer",
		Data: events.ExamGeneratedEvent{
			ExamID:          examID,
			TotalQuestions:  produced,
			RequestedCount:  req.NumQuestions,
			TimeLimitMin:    req.TimeLimitMin,
			Distribution:    distribution,
			ShortfallByDiff: shortfall,
		},
	}
	if err := s.publisher.PublishEngineEvent(ctx, event); err != nil {
		s.logger.LogError(err, "failed to publish exam event", "exam_id", examID)
	}
}
