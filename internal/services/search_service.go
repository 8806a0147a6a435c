package services

import (
	"context"
	"errors"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/tokiwa-akira/gkentei/internal/index"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

// SearchService ranks the question bank against a free-text query.
type SearchService interface {
	Search(ctx context.Context, query string, k int) (*models.SearchResponse, error)
}

type searchService struct {
	repo      repositories.ProblemRepository
	snapshot  *index.Snapshot
	validator *validator.Validator
	logger    utils.Logger
	tokenizer *index.Tokenizer

	maxResults    int
	snippetLength int
}

type SearchConfig struct {
	MaxResults    int
	SnippetLength int
}

func NewSearchService(
	repo repositories.ProblemRepository,
	snapshot *index.Snapshot,
	v *validator.Validator,
	logger utils.Logger,
	cfg SearchConfig,
) SearchService {
	return &searchService{
		repo:          repo,
		snapshot:      snapshot,
		validator:     v,
		logger:        logger,
		tokenizer:     index.NewTokenizer(),
		maxResults:    cfg.MaxResults,
		snippetLength: cfg.SnippetLength,
	}
}

// Search validates the result cap, queries the active index snapshot and
// resolves hits back through the store. A hit whose id the store no longer
// holds is logged and skipped; one stale entry never fails the request.
func (s *searchService) Search(ctx context.Context, query string, k int) (*models.SearchResponse, error) {
	start := time.Now()

	if err := s.validator.ValidateSearch(k, s.maxResults); err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return &models.SearchResponse{
			Query:       query,
			Results:     []models.SearchResult{},
			TotalTimeMs: elapsedMs(start),
			K:           k,
		}, nil
	}

	idx, ok := s.snapshot.Get()
	if !ok {
		return nil, ErrIndexUnavailable
	}

	hits, err := idx.Query(trimmed, k)
	if err != nil {
		return nil, err
	}

	terms := s.tokenizer.Tokenize(trimmed)
	results := make([]models.SearchResult, 0, len(hits))
	for _, hit := range hits {
		problem, err := s.repo.GetByID(ctx, hit.ProblemID)
		if err != nil {
			if errors.Is(err, repositories.ErrProblemNotFound) {
				s.logger.Warn("skipping stale index entry",
					"problem_id", hit.ProblemID,
					"error", ErrInconsistent)
				continue
			}
			return nil, err
		}

		results = append(results, models.SearchResult{
			ID:         strconv.FormatUint(uint64(problem.ID), 10),
			Score:      roundScore(hit.Score),
			Snippet:    buildSnippet(problem.Question, trimmed, terms, s.snippetLength),
			Difficulty: problem.Difficulty,
			Tags:       problem.Tags,
		})
	}

	return &models.SearchResponse{
		Query:       query,
		Results:     results,
		TotalTimeMs: elapsedMs(start),
		K:           k,
	}, nil
}

// roundScore trims scores to four decimals for the wire, matching how the
// UI renders them.
func roundScore(score float64) float64 {
	return math.Round(score*10000) / 10000
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}
