package models

// ParaphraseRequest rewrites question text at a controllable creativity
// level. Creativity bounds are configured; the defaults are 0.0-1.0.
type ParaphraseRequest struct {
	Text       string  `json:"text" validate:"required"`
	Creativity float64 `json:"creativity"`
}

type ParaphraseResponse struct {
	Original         string `json:"original"`
	Paraphrased      string `json:"paraphrased"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}

// ExplainRequest asks for a generated explanation of a problem given its
// correct answer and optional extra context.
type ExplainRequest struct {
	Question string `json:"question" validate:"required"`
	Answer   string `json:"answer" validate:"required"`
	Context  string `json:"context,omitempty"`
}

type ExplainResponse struct {
	Question         string `json:"question"`
	Explanation      string `json:"explanation"`
	ProcessingTimeMs int64  `json:"processing_time_ms"`
}
