package api

import "github.com/janisto/campus-admin/internal/apperr"

// Envelope is the body shape of every API response.
// success: true for 2xx responses.
// message: human-readable outcome; always set on failures.
// data: the primary payload (absent for errors and bare acknowledgements).
// errors: field-level issues for rejected input.
type Envelope[T any] struct {
	Success   bool                `json:"success"`
	Message   string              `json:"message,omitempty"`
	Data      *T                  `json:"data,omitempty"`
	Errors    []apperr.FieldIssue `json:"errors,omitempty"`
	RequestID string              `json:"requestId,omitempty"`
}

// NewSuccessEnvelope constructs a success envelope holding a copy of data.
func NewSuccessEnvelope[T any](data T) Envelope[T] {
	d := data
	return Envelope[T]{
		Success: true,
		Data:    &d,
	}
}

// NewMessageEnvelope constructs a success envelope that carries only a message.
func NewMessageEnvelope(msg string) Envelope[struct{}] {
	return Envelope[struct{}]{
		Success: true,
		Message: msg,
	}
}

// NewErrorEnvelope constructs a failure envelope with no data.
func NewErrorEnvelope(requestID, msg string, issues []apperr.FieldIssue) Envelope[struct{}] {
	var cloned []apperr.FieldIssue
	if len(issues) > 0 {
		cloned = make([]apperr.FieldIssue, len(issues))
		copy(cloned, issues)
	}
	return Envelope[struct{}]{
		Success:   false,
		Message:   msg,
		Errors:    cloned,
		RequestID: requestID,
	}
}
