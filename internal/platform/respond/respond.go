// Package respond renders every response of the stand-in API in the shared envelope.
package respond

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/api"
	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/logging"
)

const (
	msgNotFound         = "Route not found"
	msgMethodNotAllowed = "Method not allowed"
	msgInternal         = "Server error"
)

var installOnce sync.Once

// Install makes huma render its own errors (validation, auth, 404 from
// handlers) in the failure envelope, logged at a level matching the status.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return statusError(context.Background(), status, messageOrDefault(status, msg), issuesFromErrors(errs), errs...)
		}
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			if hctx != nil {
				ctx = hctx.Context()
			}
			issues := issuesFromErrors(errs)
			if status == http.StatusUnprocessableEntity && len(issues) > 0 {
				msg = issueMessage(issues[0])
			}
			return statusError(ctx, status, messageOrDefault(status, msg), issues, errs...)
		}
	})
}

// Body is the output of every handler returning data.
type Body[T any] struct {
	Body api.Envelope[T]
}

// Success wraps data in a success envelope.
func Success[T any](data T) *Body[T] {
	return &Body[T]{Body: api.NewSuccessEnvelope(data)}
}

// Created is Success with a Location header, for 201 responses.
type Created[T any] struct {
	Location string `header:"Location"`
	Body     api.Envelope[T]
}

// NewCreated wraps data in a success envelope pointing at location.
func NewCreated[T any](location string, data T) *Created[T] {
	return &Created[T]{Location: location, Body: api.NewSuccessEnvelope(data)}
}

// Message is the output of acknowledgements without data, e.g. deletes.
type Message struct {
	Body api.Envelope[struct{}]
}

// Ack returns a success envelope carrying only msg.
func Ack(msg string) *Message {
	return &Message{Body: api.NewMessageEnvelope(msg)}
}

// Error returns a failure envelope with the given status and issues.
func Error(ctx context.Context, status int, msg string, issues []apperr.FieldIssue, errs ...error) huma.StatusError {
	return statusError(ctx, status, messageOrDefault(status, msg), issues, errs...)
}

// FromService maps a service error onto the failure envelope. The status
// follows the error kind and the message is the one the service supplied,
// else fallback.
func FromService(ctx context.Context, err error, fallback string) huma.StatusError {
	status := apperr.StatusForKind(err)
	var issues []apperr.FieldIssue
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		issues = ve.Fields
	}
	msg := apperr.Message(err, fallback)
	if status >= http.StatusInternalServerError {
		msg = fallback
	}
	return statusError(ctx, status, messageOrDefault(status, msg), issues, err)
}

// Write renders env as JSON outside of huma content negotiation.
func Write[T any](w http.ResponseWriter, status int, env api.Envelope[T]) error {
	body, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("encoding envelope: %w", err)
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, err = w.Write(append(body, '\n'))
	return err
}

// WriteError renders a failure envelope outside of huma, e.g. from router fallbacks.
func WriteError(w http.ResponseWriter, ctx context.Context, status int, msg string, errs ...error) error {
	se := Error(ctx, status, msg, nil, errs...)
	env, ok := se.(*statusEnvelopeError)
	if !ok {
		return se
	}
	return Write(w, se.GetStatus(), env.Envelope)
}

// NotFoundHandler emits an enveloped 404.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := WriteError(w, r.Context(), http.StatusNotFound, msgNotFound); err != nil {
			logging.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler emits an enveloped 405 with the Allow header.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if allow := allowedMethods(r); len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		if err := WriteError(w, r.Context(), http.StatusMethodNotAllowed, msgMethodNotAllowed); err != nil {
			logging.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

// Recoverer converts panics into enveloped 500 responses.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					err, ok := rec.(error)
					if !ok {
						err = fmt.Errorf("%v", rec)
					}
					err = fmt.Errorf("%w\n%s", err, debug.Stack())
					if writeErr := WriteError(w, r.Context(), http.StatusInternalServerError, msgInternal, err); writeErr != nil {
						logging.LogError(r.Context(), "failed to render internal error", writeErr)
					}
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var routeMethods = []string{
	http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut,
	http.MethodPatch, http.MethodDelete, http.MethodOptions,
}

// allowedMethods lists the methods the router serves on the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	target := cmp.Or(rctx.RoutePath, r.URL.Path, "/")
	out := make([]string, 0, len(routeMethods))
	for _, m := range routeMethods {
		if rctx.Routes.Match(chi.NewRouteContext(), m, target) {
			out = append(out, m)
		}
	}
	return out
}

type statusEnvelopeError struct {
	api.Envelope[struct{}]
	status int
}

func (e *statusEnvelopeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.status)
}

func (e *statusEnvelopeError) GetStatus() int {
	return e.status
}

// ContentType keeps failures on the negotiated media type instead of problem+json.
func (e *statusEnvelopeError) ContentType(ct string) string {
	if ct == "application/problem+json" {
		return "application/json"
	}
	return ct
}

func statusError(ctx context.Context, status int, msg string, issues []apperr.FieldIssue, errs ...error) huma.StatusError {
	if ctx == nil {
		ctx = context.Background()
	}
	logFailure(ctx, status, msg, issues, errors.Join(errs...))
	return &statusEnvelopeError{
		Envelope: api.NewErrorEnvelope(logging.RequestIDFromContext(ctx), msg, issues),
		status:   status,
	}
}

func issuesFromErrors(errs []error) []apperr.FieldIssue {
	var issues []apperr.FieldIssue
	for _, err := range errs {
		if err == nil {
			continue
		}
		issue := apperr.FieldIssue{Issue: err.Error()}
		if detailer, ok := err.(huma.ErrorDetailer); ok {
			if detail := detailer.ErrorDetail(); detail != nil {
				issue.Issue = detail.Message
				issue.Field = strings.TrimPrefix(detail.Location, "body.")
			}
		}
		issues = append(issues, issue)
	}
	return issues
}

// issueMessage turns huma's first validation issue into the envelope message,
// matching what the services report for their own checks.
func issueMessage(issue apperr.FieldIssue) string {
	if issue.Field == "" || issue.Field == "body" {
		return issue.Issue
	}
	return issue.Field + " " + issue.Issue
}

func messageOrDefault(status int, msg string) string {
	if m := strings.TrimSpace(msg); m != "" {
		return msg
	}
	return cmp.Or(http.StatusText(status), "HTTP "+strconv.Itoa(status))
}

// logFailure records a rendered failure: server errors at error level with
// the cause, client errors at warn.
func logFailure(ctx context.Context, status int, msg string, issues []apperr.FieldIssue, cause error) {
	fields := []zap.Field{zap.Int("status", status), zap.String("message", msg)}
	if len(issues) > 0 {
		fields = append(fields, zap.Any("details", issues))
	}
	if status >= http.StatusInternalServerError {
		logging.LogError(ctx, "request failed", cause, fields...)
		return
	}
	if cause != nil {
		fields = append(fields, zap.Error(cause))
	}
	logging.LogWarn(ctx, "request rejected", fields...)
}
