package models

import "time"

// ImportValidationError records why a single import row was rejected.
type ImportValidationError struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ImportSummary reports the outcome of a bulk problem import.
type ImportSummary struct {
	TotalRows       int                     `json:"total_rows"`
	SuccessCount    int                     `json:"success_count"`
	ErrorCount      int                     `json:"error_count"`
	CreatedProblems []uint                  `json:"created_problems"`
	Errors          []ImportValidationError `json:"errors"`
	ProcessingTime  time.Duration           `json:"processing_time"`
}
