package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/tokiwa-akira/gkentei/internal/events"
	"github.com/tokiwa-akira/gkentei/internal/models"
	"github.com/tokiwa-akira/gkentei/internal/repositories"
	"github.com/tokiwa-akira/gkentei/internal/utils"
	"github.com/tokiwa-akira/gkentei/internal/validator"
	"github.com/xuri/excelize/v2"
)

// ImportService ingests problems from Excel or CSV files. This is the
// external-collaborator side of the question store: the engine never
// mutates problems itself, it only gains new ones through imports.
type ImportService interface {
	ImportProblemsFromFile(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error)
	ImportProblemsFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
	ImportProblemsFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error)
}

type importService struct {
	repo      repositories.ProblemRepository
	publisher events.EventPublisher
	validator *validator.Validator
	logger    utils.Logger
}

func NewImportService(
	repo repositories.ProblemRepository,
	publisher events.EventPublisher,
	v *validator.Validator,
	logger utils.Logger,
) ImportService {
	return &importService{
		repo:      repo,
		publisher: publisher,
		validator: v,
		logger:    logger,
	}
}

// Expected columns. Header names are matched case-insensitively.
// question, answer, explanation, difficulty, tags, choice_a..choice_d, correct
var choiceColumns = []string{"choice_a", "choice_b", "choice_c", "choice_d"}

func (s *importService) ImportProblemsFromFile(ctx context.Context, reader io.Reader, filename string) (*models.ImportSummary, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return s.ImportProblemsFromCSV(ctx, reader)
	case ".xlsx":
		return s.ImportProblemsFromExcel(ctx, reader)
	default:
		return nil, NewValidationError("file", "unsupported file type, expected .csv or .xlsx", filename)
	}
}

func (s *importService) ImportProblemsFromCSV(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	records, err := csv.NewReader(reader).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV: %w", err)
	}
	if len(records) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(records))
	}
	return s.importRows(ctx, records[0], records[1:], "csv")
}

func (s *importService) ImportProblemsFromExcel(ctx context.Context, reader io.Reader) (*models.ImportSummary, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, NewValidationError("file", "Excel file has no sheets", nil)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read Excel rows: %w", err)
	}
	if len(rows) < 2 {
		return nil, NewValidationError("file", "file must have a header row and at least one data row", len(rows))
	}
	return s.importRows(ctx, rows[0], rows[1:], "excel")
}

func (s *importService) importRows(ctx context.Context, header []string, rows [][]string, format string) (*models.ImportSummary, error) {
	start := time.Now()

	headerMap := make(map[string]int, len(header))
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	summary := &models.ImportSummary{TotalRows: len(rows)}
	var problems []*models.Problem

	for i, row := range rows {
		problem, rowErrors := s.parseRow(row, headerMap, i+2)
		if len(rowErrors) > 0 {
			summary.Errors = append(summary.Errors, rowErrors...)
			summary.ErrorCount++
			continue
		}
		problems = append(problems, problem)
		summary.SuccessCount++
	}

	if len(problems) > 0 {
		if err := s.repo.CreateBatch(ctx, problems); err != nil {
			return nil, fmt.Errorf("failed to save problems: %w", err)
		}
		for _, p := range problems {
			summary.CreatedProblems = append(summary.CreatedProblems, p.ID)
		}
	}
	summary.ProcessingTime = time.Since(start)

	s.logger.Info("problem import completed",
		"format", format,
		"total_rows", summary.TotalRows,
		"success_count", summary.SuccessCount,
		"error_count", summary.ErrorCount)

	event := &events.EngineEvent{
		ID:        uuid.NewString(),
		Type:      events.EventProblemsImported,
		Timestamp: time.Now(),
		Source:    "import-service",
		Data: events.ProblemsImportedEvent{
			SuccessCount: summary.SuccessCount,
			ErrorCount:   summary.ErrorCount,
		},
	}
	if err := s.publisher.PublishEngineEvent(ctx, event); err != nil {
		s.logger.LogError(err, "failed to publish import event")
	}

	return summary, nil
}

func (s *importService) parseRow(row []string, headerMap map[string]int, rowNum int) (*models.Problem, []models.ImportValidationError) {
	var rowErrors []models.ImportValidationError

	cell := func(name string) string {
		i, ok := headerMap[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}
	addError := func(field, message string) {
		rowErrors = append(rowErrors, models.ImportValidationError{
			Row: rowNum, Field: field, Message: message,
		})
	}

	question := cell("question")
	if question == "" {
		addError("question", "question text is required")
	}
	answer := cell("answer")
	if answer == "" {
		addError("answer", "answer text is required")
	}

	difficulty, err := strconv.Atoi(cell("difficulty"))
	if err != nil || difficulty < models.DifficultyMin || difficulty > models.DifficultyMax {
		addError("difficulty", "difficulty must be an integer 1-5")
	}

	correct := strings.ToLower(cell("correct"))
	var choices []models.Choice
	for _, col := range choiceColumns {
		body := cell(col)
		if body == "" {
			continue
		}
		label := strings.ToUpper(strings.TrimPrefix(col, "choice_"))
		choices = append(choices, models.Choice{
			Label:     label,
			Body:      body,
			IsCorrect: strings.ToLower(label) == correct,
		})
	}
	if len(choices) < 2 {
		addError("choices", "at least two choices are required")
	} else {
		correctCount := 0
		for _, c := range choices {
			if c.IsCorrect {
				correctCount++
			}
		}
		if correctCount != 1 {
			addError("correct", "exactly one choice must be marked correct")
		}
	}

	if len(rowErrors) > 0 {
		return nil, rowErrors
	}

	problem := &models.Problem{
		Question:   question,
		Answer:     answer,
		Difficulty: difficulty,
		Tags:       cell("tags"),
		Choices:    choices,
	}
	if explanation := cell("explanation"); explanation != "" {
		problem.Explanation = &explanation
	}
	return problem, nil
}
