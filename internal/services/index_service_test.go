package services

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/index"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories/memory"
	"github.com/tokiwa-akira/gkentei/internal/utils"
)

func TestIndexService_Rebuild(t *testing.T) {
	repo := memory.NewProblemMemory()
	require.NoError(t, repo.CreateBatch(context.Background(), []*models.Problem{
		{Question: "機械学習とは", Answer: "A", Difficulty: 1,
			Choices: []models.Choice{{Label: "A", Body: "a", IsCorrect: true}, {Label: "B", Body: "b"}}},
		{Question: "深層学習とは", Answer: "A", Difficulty: 2,
			Choices: []models.Choice{{Label: "A", Body: "a", IsCorrect: true}, {Label: "B", Body: "b"}}},
	}))

	snapshot := index.NewSnapshot()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	svc := NewIndexService(repo, snapshot, publisher, utils.NewDevelopmentLogger())

	_, ready := snapshot.Get()
	assert.False(t, ready, "no snapshot before the first rebuild")

	result, err := svc.Rebuild(context.Background(), "test")
	require.NoError(t, err)

	assert.Equal(t, 2, result.Documents)
	assert.Positive(t, result.Terms)

	idx, ready := snapshot.Get()
	require.True(t, ready)
	assert.Equal(t, 2, idx.DocumentCount())

	published := publisher.PublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventIndexRebuilt, published[0].Type)
}

func TestIndexService_RebuildReplacesSnapshot(t *testing.T) {
	repo := memory.NewProblemMemory()
	snapshot := index.NewSnapshot()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	svc := NewIndexService(repo, snapshot, publisher, utils.NewDevelopmentLogger())

	_, err := svc.Rebuild(context.Background(), "test")
	require.NoError(t, err)

	before, ready := snapshot.Get()
	require.True(t, ready)
	assert.Equal(t, 0, before.DocumentCount())

	require.NoError(t, repo.CreateBatch(context.Background(), []*models.Problem{
		{Question: "新しい問題", Answer: "A", Difficulty: 1,
			Choices: []models.Choice{{Label: "A", Body: "a", IsCorrect: true}, {Label: "B", Body: "b"}}},
	}))

	_, err = svc.Rebuild(context.Background(), "test")
	require.NoError(t, err)

	after, ready := snapshot.Get()
	require.True(t, ready)
	assert.Equal(t, 1, after.DocumentCount())
	// The old snapshot is untouched; a reader holding it sees the old view.
	assert.Equal(t, 0, before.DocumentCount())
}
