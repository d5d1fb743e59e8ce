// Package view holds the headless state of the admin screens: list
// controllers, the mutation coordinator and user notifications.
package view

import (
	"fmt"
	"io"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/platform/logging"
)

// Level of a notification.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient message shown to the user.
type Notification struct {
	Level   Level
	Message string
}

// Notifier shows transient success and error messages.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

// Recorder keeps notifications in memory. Tests use it to count messages.
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *Recorder) Success(msg string) { r.add(LevelSuccess, msg) }
func (r *Recorder) Error(msg string)   { r.add(LevelError, msg) }

func (r *Recorder) add(l Level, msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, Notification{Level: l, Message: msg})
}

// All returns a copy of every notification in order.
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.items))
	copy(out, r.items)
	return out
}

// Messages returns the messages of level l in order.
func (r *Recorder) Messages(l Level) []string {
	var out []string
	for _, n := range r.All() {
		if n.Level == l {
			out = append(out, n.Message)
		}
	}
	return out
}

// Reset forgets all notifications.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.items = nil
	r.mu.Unlock()
}

// WriterNotifier prints notifications as single lines, the terminal stand-in
// for toasts. Errors are also logged.
type WriterNotifier struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterNotifier prints to w.
func NewWriterNotifier(w io.Writer) *WriterNotifier {
	return &WriterNotifier{w: w}
}

func (n *WriterNotifier) Success(msg string) {
	n.print("ok", msg)
}

func (n *WriterNotifier) Error(msg string) {
	logging.Logger().Debug("notified error", zap.String("message", msg))
	n.print("error", msg)
}

func (n *WriterNotifier) print(prefix, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	_, _ = fmt.Fprintf(n.w, "%s: %s\n", prefix, msg)
}

var (
	_ Notifier = (*Recorder)(nil)
	_ Notifier = (*WriterNotifier)(nil)
)
