package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokiwa-akira/gkentei/internal/cache"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories/memory"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

func newExamFixture(t *testing.T) (ExamService, *memory.ProblemMemory, *cache.MemoryExamCache, *events.MockEventPublisher) {
	t.Helper()

	repo := memory.NewProblemMemory()
	examCache := cache.NewMemoryExamCache()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	v := validator.New(0, 1)
	logger := utils.NewDevelopmentLogger()

	return NewExamService(repo, examCache, publisher, v, logger), repo, examCache, publisher
}

func seedProblems(t *testing.T, repo *memory.ProblemMemory, perDifficulty map[int]int) {
	t.Helper()

	var problems []*models.Problem
	for difficulty, count := range perDifficulty {
		for i := 0; i < count; i++ {
			problems = append(problems, &models.Problem{
				Question:   fmt.Sprintf("難易度%dの問題 %d", difficulty, i),
				Answer:     "A",
				Difficulty: difficulty,
				Tags:       "機械学習",
				Choices: []models.Choice{
					{Label: "A", Body: "正答", IsCorrect: true},
					{Label: "B", Body: "誤答"},
				},
			})
		}
	}
	require.NoError(t, repo.CreateBatch(context.Background(), problems))
}

func TestExamService_Generate(t *testing.T) {
	svc, repo, _, publisher := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 10, 2: 10, 3: 10})

	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    10,
		DifficultyRatio: map[string]float64{"1": 0.5, "2": 0.5},
		TimeLimitMin:    60,
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.ExamID)
	assert.Equal(t, 10, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 10)
	assert.Equal(t, 60, resp.TimeLimitMin)
	assert.Equal(t, 5, resp.DifficultyDistribution["1"])
	assert.Equal(t, 5, resp.DifficultyDistribution["2"])

	published := publisher.PublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventExamGenerated, published[0].Type)
}

func TestExamService_GenerateNeverLeaksAnswers(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{2: 5})

	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    5,
		DifficultyRatio: map[string]float64{"2": 1.0},
		TimeLimitMin:    30,
	})
	require.NoError(t, err)

	payload, err := json.Marshal(resp)
	require.NoError(t, err)

	// The serialized exam must carry neither correctness flags nor the
	// answer or explanation fields, under any name.
	assert.NotContains(t, string(payload), "is_correct")
	assert.NotContains(t, string(payload), "answer")
	assert.NotContains(t, string(payload), "explanation")
}

func TestExamService_GenerateDistinctExamIDs(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 20})

	req := &models.ExamGenerateRequest{
		NumQuestions:    5,
		DifficultyRatio: map[string]float64{"1": 1.0},
		TimeLimitMin:    30,
	}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		resp, err := svc.Generate(context.Background(), req)
		require.NoError(t, err)
		assert.False(t, seen[resp.ExamID], "exam id repeated")
		seen[resp.ExamID] = true
	}
}

func TestExamService_GenerateShortfallFallsBackToNeighbors(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 10, 2: 2, 3: 10})

	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    10,
		DifficultyRatio: map[string]float64{"2": 1.0},
		TimeLimitMin:    60,
	})
	require.NoError(t, err)

	// Only 2 problems exist at the requested difficulty; the rest come
	// from the neighbors and the exam still reaches full size.
	assert.Equal(t, 10, resp.TotalQuestions)
	assert.Equal(t, 2, resp.DifficultyDistribution["2"])
	assert.Equal(t, 8, resp.DifficultyDistribution["1"]+resp.DifficultyDistribution["3"])
}

func TestExamService_GenerateRatioSumAtToleranceEdge(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 150, 2: 150})

	// Sums to 1.005, which validation tolerates, and the floored shares
	// alone overshoot 200. The exam must still come out at exactly the
	// requested size.
	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    200,
		DifficultyRatio: map[string]float64{"1": 0.505, "2": 0.5},
		TimeLimitMin:    120,
	})
	require.NoError(t, err)

	assert.Equal(t, 200, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 200)

	sum := 0
	for _, n := range resp.DifficultyDistribution {
		sum += n
	}
	assert.Equal(t, 200, sum)
}

func TestExamService_GeneratePoolSmallerThanRequest(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 3})

	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    10,
		DifficultyRatio: map[string]float64{"1": 1.0},
		TimeLimitMin:    60,
	})
	require.NoError(t, err)

	assert.Equal(t, 3, resp.TotalQuestions)
	assert.Len(t, resp.Questions, 3)
}

func TestExamService_GenerateTagFilter(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)

	require.NoError(t, repo.CreateBatch(context.Background(), []*models.Problem{
		{Question: "CNNの問題", Answer: "A", Difficulty: 2, Tags: "CNN",
			Choices: []models.Choice{{Label: "A", Body: "a", IsCorrect: true}, {Label: "B", Body: "b"}}},
		{Question: "RNNの問題", Answer: "A", Difficulty: 2, Tags: "RNN",
			Choices: []models.Choice{{Label: "A", Body: "a", IsCorrect: true}, {Label: "B", Body: "b"}}},
	}))

	resp, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    2,
		DifficultyRatio: map[string]float64{"2": 1.0},
		Tags:            []string{"CNN"},
		TimeLimitMin:    30,
	})
	require.NoError(t, err)

	require.Len(t, resp.Questions, 1)
	assert.Equal(t, "CNNの問題", resp.Questions[0].Question)
}

func TestExamService_GenerateInvalidRatio(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 5})

	cases := []map[string]float64{
		{"1": 0.5, "2": 0.3},   // sums to 0.8
		{"0": 1.0},             // label out of range
		{"easy": 1.0},          // non-numeric label
		{"1": 1.5, "2": -0.5},  // negative ratio
	}
	for _, ratio := range cases {
		_, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
			NumQuestions:    5,
			DifficultyRatio: ratio,
			TimeLimitMin:    30,
		})
		assert.True(t, IsInvalidArgument(err), "ratio %v should be rejected", ratio)
	}
}

func TestExamService_ConcurrentGenerates(t *testing.T) {
	svc, repo, _, publisher := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 30, 2: 30})

	const workers = 8
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
				NumQuestions:    10,
				DifficultyRatio: map[string]float64{"1": 0.5, "2": 0.5},
				TimeLimitMin:    30,
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Len(t, publisher.PublishedEvents(), workers)
}

func TestExamService_GetExam(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 5})

	generated, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    5,
		DifficultyRatio: map[string]float64{"1": 1.0},
		TimeLimitMin:    45,
	})
	require.NoError(t, err)

	fetched, err := svc.GetExam(context.Background(), generated.ExamID)
	require.NoError(t, err)

	assert.Equal(t, generated.ExamID, fetched.ExamID)
	assert.Equal(t, generated.TimeLimitMin, fetched.TimeLimitMin)
	assert.Equal(t, len(generated.Questions), len(fetched.Questions))
}

func TestExamService_GetExamUnknownID(t *testing.T) {
	svc, _, _, _ := newExamFixture(t)

	_, err := svc.GetExam(context.Background(), "no-such-exam")
	assert.True(t, IsNotFound(err))
}

func TestExamService_GetExamSkipsDeletedProblems(t *testing.T) {
	svc, repo, _, _ := newExamFixture(t)
	seedProblems(t, repo, map[int]int{1: 5})

	generated, err := svc.Generate(context.Background(), &models.ExamGenerateRequest{
		NumQuestions:    5,
		DifficultyRatio: map[string]float64{"1": 1.0},
		TimeLimitMin:    45,
	})
	require.NoError(t, err)

	repo.Delete(generated.Questions[0].ID)

	fetched, err := svc.GetExam(context.Background(), generated.ExamID)
	require.NoError(t, err)
	assert.Len(t, fetched.Questions, 4)
}
