package services

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/repositories/memory"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
)

const importHeader = "question,answer,explanation,difficulty,tags,choice_a,choice_b,choice_c,choice_d,correct\n"

func newImportFixture() (ImportService, *memory.ProblemMemory, *events.MockEventPublisher) {
	repo := memory.NewProblemMemory()
	publisher := events.NewMockEventPublisher(slog.New(slog.NewTextHandler(os.Stdout, nil)))
	svc := NewImportService(repo, publisher, validator.New(0, 1), utils.NewDevelopmentLogger())
	return svc, repo, publisher
}

func TestImportService_CSV(t *testing.T) {
	svc, repo, publisher := newImportFixture()

	csv := importHeader +
		"過学習とは何か,A,訓練データへの過剰適合,2,機械学習,過剰適合,未学習,正則化,汎化,a\n" +
		"CNNの主用途は,B,画像認識に適する,3,\"CNN,深層学習\",音声合成,画像認識,構文解析,強化学習,b\n"

	summary, err := svc.ImportProblemsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 2, summary.TotalRows)
	assert.Equal(t, 2, summary.SuccessCount)
	assert.Equal(t, 0, summary.ErrorCount)
	assert.Len(t, summary.CreatedProblems, 2)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	stored, err := repo.GetByID(context.Background(), summary.CreatedProblems[0])
	require.NoError(t, err)
	assert.Equal(t, "過学習とは何か", stored.Question)
	require.NotNil(t, stored.CorrectChoice())
	assert.Equal(t, "A", stored.CorrectChoice().Label)

	published := publisher.PublishedEvents()
	require.Len(t, published, 1)
	assert.Equal(t, events.EventProblemsImported, published[0].Type)
}

func TestImportService_RowErrorsDoNotBlockValidRows(t *testing.T) {
	svc, repo, _ := newImportFixture()

	csv := importHeader +
		"正しい行,A,,2,タグ,a,b,c,d,a\n" +
		",A,,2,タグ,a,b,c,d,a\n" + // question missing
		"難易度が壊れた行,A,,9,タグ,a,b,c,d,a\n" +
		"正解が二つの行,A,,2,タグ,a,b,c,d,x\n" // no choice marked correct

	summary, err := svc.ImportProblemsFromCSV(context.Background(), strings.NewReader(csv))
	require.NoError(t, err)

	assert.Equal(t, 4, summary.TotalRows)
	assert.Equal(t, 1, summary.SuccessCount)
	assert.Equal(t, 3, summary.ErrorCount)
	require.NotEmpty(t, summary.Errors)

	// Row numbers are 1-based file rows, so the first bad data row is row 3.
	assert.Equal(t, 3, summary.Errors[0].Row)

	count, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestImportService_HeaderOnly(t *testing.T) {
	svc, _, _ := newImportFixture()

	_, err := svc.ImportProblemsFromCSV(context.Background(), strings.NewReader(importHeader))
	assert.True(t, IsInvalidArgument(err))
}

func TestImportService_UnsupportedExtension(t *testing.T) {
	svc, _, _ := newImportFixture()

	_, err := svc.ImportProblemsFromFile(context.Background(), strings.NewReader("x"), "problems.pdf")
	assert.True(t, IsInvalidArgument(err))
}

func TestImportService_FileDispatch(t *testing.T) {
	svc, _, _ := newImportFixture()

	csv := importHeader + "問題,A,,2,タグ,a,b,,,a\n"
	summary, err := svc.ImportProblemsFromFile(context.Background(), strings.NewReader(csv), "problems.CSV")
	require.NoError(t, err)
	assert.Equal(t, 1, summary.SuccessCount)
}
