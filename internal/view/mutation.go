package view

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/logging"
)

// Coordinator errors
var (
	ErrBusy     = errors.New("a submission is already in progress")
	ErrCanceled = errors.New("canceled by user")
)

const (
	defaultFailure       = "Operation failed"
	defaultDeleteFailure = "Delete failed"
)

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(prompt string) bool

func (f ConfirmFunc) Confirm(prompt string) bool { return f(prompt) }

// Action is one create, update or delete.
type Action struct {
	// Do performs the call. Client-side validation errors returned here are
	// reported like server errors.
	Do func(ctx context.Context) error
	// Success is shown after Do succeeds; empty shows nothing.
	Success string
	// Failure is shown when the server sent no message.
	Failure string
	// Refetch reloads the affected list after success. Its failures are
	// reported by the list itself.
	Refetch func(ctx context.Context) error
}

// Coordinator runs mutations for one form or screen. At most one runs at a
// time and Submitting reports whether one is in flight.
type Coordinator struct {
	notifier Notifier

	mu         sync.Mutex
	submitting bool
}

// NewCoordinator creates a Coordinator reporting to notifier.
func NewCoordinator(notifier Notifier) *Coordinator {
	return &Coordinator{notifier: notifier}
}

// Submitting reports whether a mutation is in flight.
func (c *Coordinator) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Run performs a. It returns ErrBusy without calling Do while another action
// is in flight. Exactly one notification is shown per completed action.
func (c *Coordinator) Run(ctx context.Context, a Action) error {
	return c.run(ctx, a, defaultFailure)
}

// Delete asks confirm first and returns ErrCanceled without any call when the
// user declines.
func (c *Coordinator) Delete(ctx context.Context, confirm Confirmer, prompt string, a Action) error {
	if confirm != nil && !confirm.Confirm(prompt) {
		return ErrCanceled
	}
	return c.run(ctx, a, defaultDeleteFailure)
}

func (c *Coordinator) run(ctx context.Context, a Action, fallback string) error {
	if !c.acquire() {
		return ErrBusy
	}
	defer c.release()

	if err := a.Do(ctx); err != nil {
		msg := a.Failure
		if msg == "" {
			msg = fallback
		}
		logging.LogInfo(ctx, "mutation failed", zap.Error(err))
		c.notifier.Error(apperr.Message(err, msg))
		return err
	}
	if a.Success != "" {
		c.notifier.Success(a.Success)
	}
	if a.Refetch != nil {
		if err := a.Refetch(ctx); err != nil {
			logging.LogDebug(ctx, "refetch after mutation failed", zap.Error(err))
		}
	}
	return nil
}

func (c *Coordinator) acquire() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.submitting {
		return false
	}
	c.submitting = true
	return true
}

func (c *Coordinator) release() {
	c.mu.Lock()
	c.submitting = false
	c.mu.Unlock()
}
