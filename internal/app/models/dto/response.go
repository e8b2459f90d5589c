package dto

import "time"

// APIResponse is the envelope of every successful response
type APIResponse struct {
	Success   bool        `json:"success" example:"true"`
	Message   string      `json:"message,omitempty" example:"Operation completed successfully"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp" example:"2025-04-23T12:01:05.123Z"`
}

// NewSuccessResponse wraps data in a successful envelope
func NewSuccessResponse(data interface{}, message string) APIResponse {
	return APIResponse{
		Success:   true,
		Message:   message,
		Data:      data,
		Timestamp: time.Now(),
	}
}

// AssignmentResponse reports a batch assignment
type AssignmentResponse struct {
	AssignedCount int     `json:"assignedCount"`
	SkippedCount  int     `json:"skippedCount"`
	Assigned      []int64 `json:"assigned"`
	Skipped       []int64 `json:"skipped"`
}
