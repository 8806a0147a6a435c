package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/index"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

// IndexService owns the lifecycle of the search index: it is the only
// writer of the shared snapshot. A rebuild constructs the new index off to
// the side from a full store read and swaps it in atomically; readers that
// hold the previous snapshot are never disturbed.
type IndexService interface {
	Rebuild(ctx context.Context, trigger string) (*RebuildResult, error)
}

// RebuildResult reports what a rebuild produced.
type RebuildResult struct {
	Documents int           `json:"documents"`
	Terms     int           `json:"terms"`
	BuildTime time.Duration `json:"build_time"`
}

type indexService struct {
	repo      repositories.ProblemRepository
	snapshot  *index.Snapshot
	publisher events.EventPublisher
	logger    utils.Logger
}

func NewIndexService(
	repo repositories.ProblemRepository,
	snapshot *index.Snapshot,
	publisher events.EventPublisher,
	logger utils.Logger,
) IndexService {
	return &indexService{
		repo:      repo,
		snapshot:  snapshot,
		publisher: publisher,
		logger:    logger,
	}
}

func (s *indexService) Rebuild(ctx context.Context, trigger string) (*RebuildResult, error) {
	start := time.Now()

	problems, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	docs := make([]index.Document, 0, len(problems))
	for _, p := range problems {
		docs = append(docs, index.Document{ID: p.ID, Text: p.Question})
	}

	idx := index.Build(docs)
	s.snapshot.Swap(idx)

	result := &RebuildResult{
		Documents: idx.DocumentCount(),
		Terms:     idx.TermCount(),
		BuildTime: time.Since(start),
	}

	s.logger.Info("index rebuilt",
		"documents", result.Documents,
		"terms", result.Terms,
		"build_time", result.BuildTime.String(),
		"trigger", trigger)

	event := &events.EngineEvent{
		ID:        uuid.NewString(),
		Type:      events.EventIndexRebuilt,
		Timestamp: time.Now(),
		Source:    "index-service",
		Data: events.IndexRebuiltEvent{
			Documents:   result.Documents,
			Terms:       result.Terms,
			BuildTime:   result.BuildTime,
			TriggeredBy: trigger,
		},
	}
	if err := s.publisher.PublishEngineEvent(ctx, event); err != nil {
		s.logger.LogError(err, "failed to publish index event")
	}

	return result, nil
}
