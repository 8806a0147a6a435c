package events

import "time"

// EventType identifies an engine event.
type EventType string

const (
	// EventExamGenerated fires after an exam was composed and cached.
	EventExamGenerated EventType = "exam.generated"

	// EventIndexRebuilt fires after a new index snapshot was published.
	EventIndexRebuilt EventType = "index.rebuilt"

	// EventProblemsImported fires after a bulk import finished.
	EventProblemsImported EventType = "problems.imported"
)

// EngineEvent is the envelope for all engine events.
type EngineEvent struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Source    string      `json:"source"`
	Data      interface{} `json:"data"`
}

// Event payloads

type ExamGeneratedEvent struct {
	ExamID          string         `json:"exam_id"`
	TotalQuestions  int            `json:"total_questions"`
	RequestedCount  int            `json:"requested_count"`
	TimeLimitMin    int            `json:"time_limit_min"`
	Distribution    map[string]int `json:"distribution"`
	ShortfallByDiff map[string]int `json:"shortfall_by_difficulty,omitempty"`
}

type IndexRebuiltEvent struct {
	Documents   int           `json:"documents"`
	Terms       int           `json:"terms"`
	BuildTime   time.Duration `json:"build_time"`
	TriggeredBy string        `json:"triggered_by"`
}

type ProblemsImportedEvent struct {
	SuccessCount int `json:"success_count"`
	ErrorCount   int `json:"error_count"`
}
