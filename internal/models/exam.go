package models

import "time"

// ExamGenerateRequest describes the exam to compose. Ratio keys are
// difficulty labels ("1".."5"); values must sum to 1.0 within tolerance.
// A non-empty tag list restricts the pool to problems carrying at least
// one of the listed tags.
type ExamGenerateRequest struct {
	NumQuestions    int                `json:"num_questions" validate:"required,min=1,max=200"`
	DifficultyRatio map[string]float64 `json:"difficulty_ratio" validate:"required,min=1"`
	Tags            []string           `json:"tags,omitempty"`
	TimeLimitMin    int                `json:"time_limit_min" validate:"required,min=1,max=300"`
}

// ExamChoice is the exam-facing view of a Choice. It deliberately has no
// correctness field: an exam payload must never reveal the answer.
type ExamChoice struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
	Body  string `json:"body"`
}

// ExamQuestion is the exam-facing view of a Problem, stripped of the
// answer and explanation.
type ExamQuestion struct {
	ID         uint         `json:"id"`
	Question   string       `json:"question"`
	Choices    []ExamChoice `json:"choices"`
	Difficulty int          `json:"difficulty"`
	Tags       string       `json:"tags,omitempty"`
}

// ExamResponse is a generated exam. TotalQuestions and the distribution
// report what was actually achieved, which can fall short of the request
// when the eligible pool is too small.
type ExamResponse struct {
	ExamID                 string         `json:"exam_id"`
	Questions              []ExamQuestion `json:"questions"`
	TimeLimitMin           int            `json:"time_limit_min"`
	TotalQuestions         int            `json:"total_questions"`
	DifficultyDistribution map[string]int `json:"difficulty_distribution"`
}

// StoredExam is the cached form of a generated exam, kept for a bounded
// time so clients can re-fetch the exam view by id.
type StoredExam struct {
	ExamID       string    `json:"exam_id"`
	ProblemIDs   []uint    `json:"problem_ids"`
	TimeLimitMin int       `json:"time_limit_min"`
	CreatedAt    time.Time `json:"created_at"`
}

// ExamQuestionView converts a Problem to its exam-facing view.
func ExamQuestionView(p *Problem) ExamQuestion {
	choices := make([]ExamChoice, 0, len(p.Choices))
	for _, c := range p.Choices {
		choices = append(choices, ExamChoice{ID: c.ID, Label: c.Label, Body: c.Body})
	}
	return ExamQuestion{
		ID:         p.ID,
		Question:   p.Question,
		Choices:    choices,
		Difficulty: p.Difficulty,
		Tags:       p.Tags,
	}
}
