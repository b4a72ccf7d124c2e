package models

import "time"

// HealthResponse represents the health check response
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Version   string            `json:"version"`
	Uptime    time.Duration     `json:"uptime"`
	Checks    map[string]string `json:"checks,omitempty"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error     string    `json:"error"`
	Message   string    `json:"message"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
}

// OptimizeCvResponse represents the response from an optimize request
type OptimizeCvResponse struct {
	Success        bool                     `json:"success"`
	State          string                   `json:"state"`
	Suggestions    *OptimizationSuggestions `json:"suggestions,omitempty"`
	Error          string                   `json:"error,omitempty"`
	ProcessingTime time.Duration            `json:"processing_time"`
	RequestID      string                   `json:"request_id"`
}

// ApplySuggestionResponse reports the outcome of an apply operation. Changed
// false with a message is the informational "no changes detected" outcome,
// not an error.
type ApplySuggestionResponse struct {
	Success bool   `json:"success"`
	Changed bool   `json:"changed"`
	Message string `json:"message"`
	Cv      *Cv    `json:"cv,omitempty"`
}

// HistoryResponse represents a page of optimization history entries
type HistoryResponse struct {
	Entries []OptimizationRun `json:"entries"`
	Count   int               `json:"count"`
	Limit   int               `json:"limit"`
	Offset  int               `json:"offset"`
}

// MutationResponse is the generic fire-and-report response for schedule
// event mutations
type MutationResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Event   *ScheduleEvent `json:"event,omitempty"`
}
