package models

// Envelope is the {success, message, data} wrapper every backend endpoint
// answers with.
type Envelope[T any] struct {
	Success bool   `json:"success"`
	Code    int    `json:"code,omitempty"`
	Message string `json:"message"`
	Data    T      `json:"data"`
	TraceID string `json:"traceId,omitempty"`
}
