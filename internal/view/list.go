package view

import (
	"context"
	"errors"
	"slices"
	"sync"

	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/pagination"
)

// ErrStale is returned by a fetch whose result was discarded because a newer
// fetch had been issued.
var ErrStale = errors.New("superseded by a newer request")

// PageResult is one fetched page.
type PageResult[T any] struct {
	Items []T
	Meta  pagination.Meta
}

// FetchFunc loads the page described by q.
type FetchFunc[T any] func(ctx context.Context, q pagination.Params) (*PageResult[T], error)

// ListState is a snapshot of a list screen.
type ListState[T any] struct {
	Items      []T
	Loading    bool
	Pagination pagination.Meta
	Query      pagination.Params
	Err        error
}

// ListOption configures a ListController.
type ListOption[T any] func(*ListController[T])

// WithErrorMessage overrides the notification shown when a fetch fails
// without a server message.
func WithErrorMessage[T any](msg string) ListOption[T] {
	return func(c *ListController[T]) {
		c.errMsg = msg
	}
}

// WithLimit sets the page size.
func WithLimit[T any](limit int) ListOption[T] {
	return func(c *ListController[T]) {
		c.state.Query.Limit = limit
	}
}

// WithQuery sets the initial page, limit and search.
func WithQuery[T any](q pagination.Params) ListOption[T] {
	return func(c *ListController[T]) {
		c.state.Query = q
	}
}

// WithFilter filters fetched items locally by the search text, for endpoints
// without server-side search. Search changes then refilter without fetching.
func WithFilter[T any](match func(item T, search string) bool) ListOption[T] {
	return func(c *ListController[T]) {
		c.filter = match
	}
}

// ListController drives a paginated, searchable list. Every fetch takes a
// generation number and only the newest generation may apply its result, so
// responses arriving out of order never overwrite newer state. In-flight
// fetches are not cancelled.
type ListController[T any] struct {
	fetch    FetchFunc[T]
	notifier Notifier
	resource string
	errMsg   string
	filter   func(T, string) bool

	mu    sync.Mutex
	gen   uint64
	state ListState[T]
}

// NewListController creates a controller for resource (e.g. "students").
// Nothing is fetched until Load.
func NewListController[T any](resource string, fetch FetchFunc[T], notifier Notifier, opts ...ListOption[T]) *ListController[T] {
	c := &ListController[T]{
		fetch:    fetch,
		notifier: notifier,
		resource: resource,
		errMsg:   "Failed to load " + resource,
	}
	c.state.Query = pagination.Params{Page: 1, Limit: pagination.DefaultLimit}
	for _, opt := range opts {
		opt(c)
	}
	c.state.Query = c.state.Query.Normalize()
	return c
}

// Snapshot returns the current state. Items are copied and, with a filter,
// narrowed to the search text.
func (c *ListController[T]) Snapshot() ListState[T] {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	if c.filter != nil && s.Query.Search != "" {
		s.Items = nil
		for _, it := range c.state.Items {
			if c.filter(it, s.Query.Search) {
				s.Items = append(s.Items, it)
			}
		}
	} else {
		s.Items = slices.Clone(c.state.Items)
	}
	return s
}

// Load fetches the current query, as on first display.
func (c *ListController[T]) Load(ctx context.Context) error {
	return c.load(ctx)
}

// Refresh refetches the current query, e.g. after a mutation.
func (c *ListController[T]) Refresh(ctx context.Context) error {
	return c.load(ctx)
}

// SetSearch changes the search text and goes back to page 1. An unchanged
// search does nothing.
func (c *ListController[T]) SetSearch(ctx context.Context, search string) error {
	c.mu.Lock()
	if search == c.state.Query.Search {
		c.mu.Unlock()
		return nil
	}
	c.state.Query = c.state.Query.WithSearch(search)
	local := c.filter != nil
	c.mu.Unlock()
	if local {
		return nil
	}
	return c.load(ctx)
}

// SetPage moves to page, keeping the search. The current page does nothing.
func (c *ListController[T]) SetPage(ctx context.Context, page int) error {
	c.mu.Lock()
	if page == c.state.Query.Page {
		c.mu.Unlock()
		return nil
	}
	c.state.Query = c.state.Query.WithPage(page)
	c.mu.Unlock()
	return c.load(ctx)
}

func (c *ListController[T]) load(ctx context.Context) error {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	q := c.state.Query
	c.state.Loading = true
	c.mu.Unlock()

	res, err := c.fetch(ctx, q)

	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		logging.LogDebug(ctx, "discarding stale list response",
			zap.String("resource", c.resource),
			zap.Uint64("generation", gen),
			zap.Int("page", q.Page),
			zap.String("search", q.Search))
		return ErrStale
	}
	c.state.Loading = false
	if err != nil {
		c.state.Err = err
		c.mu.Unlock()
		logging.LogWarn(ctx, "list fetch failed", zap.String("resource", c.resource), zap.Error(err))
		c.notifier.Error(apperr.Message(err, c.errMsg))
		return err
	}
	c.state.Err = nil
	if res != nil {
		c.state.Items = res.Items
		c.state.Pagination = res.Meta
	} else {
		c.state.Items = nil
		c.state.Pagination = pagination.Meta{}
	}
	c.mu.Unlock()
	return nil
}
