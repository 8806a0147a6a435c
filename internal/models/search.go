package models

// SearchResult is one ranked hit. Scores are non-negative and relative to
// the query; they are not bounded to [0,1]. The id is the problem id in
// string form, matching what the UI expects.
type SearchResult struct {
	ID         string  `json:"id"`
	Score      float64 `json:"score"`
	Snippet    string  `json:"snippet"`
	Difficulty int     `json:"difficulty,omitempty"`
	Tags       string  `json:"tags,omitempty"`
}

// SearchResponse echoes the query and result cap alongside the ranked hits.
// Results are ordered by descending score, ties broken by ascending id.
type SearchResponse struct {
	Query       string         `json:"query"`
	Results     []SearchResult `json:"results"`
	TotalTimeMs int64          `json:"total_time_ms"`
	K           int            `json:"k"`
}
