// Package apperr classifies failures of the admin client.
//
// Every error a component can see falls into one of three classes:
//   - NetworkError: the request never reached the server or no response arrived.
//   - ServerError: the server answered with a non-2xx status.
//   - ValidationError: required input was missing and the request was never sent.
//
// ServerError additionally unwraps to a kind sentinel (ErrNotFound, ErrConflict, ...)
// so callers can branch with errors.Is without inspecting status codes.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error classes.
var (
	ErrNetwork    = errors.New("network error")
	ErrServer     = errors.New("server error")
	ErrValidation = errors.New("validation failed")
)

// Kind sentinels shared by the HTTP client, the in-memory services and the
// stand-in API handlers.
var (
	ErrNotFound     = errors.New("resource not found")
	ErrConflict     = errors.New("resource conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalid      = errors.New("invalid request")
)

// KindError is a domain failure with a user-facing message, classified by a
// kind sentinel. In-memory services return these so handlers can render the
// message with the matching status.
type KindError struct {
	Kind error
	Msg  string
}

// New returns a KindError for kind with message msg.
func New(kind error, msg string) error {
	return &KindError{Kind: kind, Msg: msg}
}

func (e *KindError) Error() string {
	return e.Msg
}

func (e *KindError) Unwrap() error {
	return e.Kind
}

// NetworkError reports a transport failure for the named operation.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	if e == nil {
		return "network error"
	}
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

// Unwrap exposes both the class sentinel and the transport cause.
func (e *NetworkError) Unwrap() []error {
	if e == nil {
		return nil
	}
	return []error{ErrNetwork, e.Err}
}

// ServerError carries the status and the server-supplied message of a failed response.
type ServerError struct {
	Status    int
	Message   string
	RequestID string
	kind      error
}

// NewServerError builds a ServerError whose kind is derived from status.
func NewServerError(status int, message string) *ServerError {
	return &ServerError{
		Status:  status,
		Message: strings.TrimSpace(message),
		kind:    KindForStatus(status),
	}
}

func (e *ServerError) Error() string {
	if e == nil {
		return "server error"
	}
	if e.Message == "" {
		return fmt.Sprintf("server error (status=%d)", e.Status)
	}
	return fmt.Sprintf("server error (status=%d): %s", e.Status, e.Message)
}

// Unwrap enables errors.Is against ErrServer and the kind sentinel.
func (e *ServerError) Unwrap() []error {
	if e == nil {
		return nil
	}
	if e.kind == nil {
		return []error{ErrServer}
	}
	return []error{ErrServer, e.kind}
}

// KindForStatus maps an HTTP status onto a kind sentinel. Unknown statuses map to nil.
func KindForStatus(status int) error {
	switch status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized:
		return ErrUnauthorized
	case http.StatusForbidden:
		return ErrForbidden
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return ErrInvalid
	default:
		return nil
	}
}

// StatusForKind is the inverse of KindForStatus, used when rendering service
// errors as HTTP responses. Unclassified errors map to 500.
func StatusForKind(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrInvalid), errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// FieldIssue describes one failed field check.
type FieldIssue struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ValidationError lists the fields that blocked a submission.
type ValidationError struct {
	Fields []FieldIssue
}

func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+" "+f.Issue)
	}
	return ErrValidation.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Message returns the first issue formatted for a user notification.
func (e *ValidationError) Message() string {
	if e == nil || len(e.Fields) == 0 {
		return ""
	}
	return e.Fields[0].Field + " " + e.Fields[0].Issue
}

// Message picks the user-facing text for err: the server-supplied message when
// present, then a KindError message, then the first validation issue, else fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var se *ServerError
	if errors.As(err, &se) && se.Message != "" {
		return se.Message
	}
	var ke *KindError
	if errors.As(err, &ke) && ke.Msg != "" {
		return ke.Msg
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		if msg := ve.Message(); msg != "" {
			return msg
		}
	}
	return fallback
}

// IsAuthFailure reports whether err is a server rejection of the presented credentials.
func IsAuthFailure(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden)
}
