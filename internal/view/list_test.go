package view

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/pagination"
)

// gatedFetch records queries and blocks each call until released, so tests
// can control the order responses arrive in.
type gatedFetch struct {
	mu      sync.Mutex
	queries []pagination.Params
	gates   map[string]chan struct{}
	results map[string]*PageResult[string]
	errs    map[string]error
}

func newGatedFetch() *gatedFetch {
	return &gatedFetch{
		gates:   make(map[string]chan struct{}),
		results: make(map[string]*PageResult[string]),
		errs:    make(map[string]error),
	}
}

func (g *gatedFetch) gate(search string) chan struct{} {
	g.mu.Lock()
	defer g.mu.Unlock()
	ch, ok := g.gates[search]
	if !ok {
		ch = make(chan struct{})
		g.gates[search] = ch
	}
	return ch
}

func (g *gatedFetch) fetch(ctx context.Context, q pagination.Params) (*PageResult[string], error) {
	g.mu.Lock()
	g.queries = append(g.queries, q)
	res, err := g.results[q.Search], g.errs[q.Search]
	g.mu.Unlock()
	<-g.gate(q.Search)
	return res, err
}

func (g *gatedFetch) calls() []pagination.Params {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]pagination.Params(nil), g.queries...)
}

func page(items ...string) *PageResult[string] {
	return &PageResult[string]{Items: items, Meta: pagination.Meta{Page: 1, Limit: 10, Total: len(items), Pages: 1}}
}

// immediate returns a fetch that answers at once from a fixed page.
func immediate(res *PageResult[string], err error, seen *[]pagination.Params) FetchFunc[string] {
	return func(_ context.Context, q pagination.Params) (*PageResult[string], error) {
		*seen = append(*seen, q)
		return res, err
	}
}

func TestLoadPopulatesState(t *testing.T) {
	var seen []pagination.Params
	rec := &Recorder{}
	c := NewListController("students", immediate(page("a", "b"), nil, &seen), rec)

	if err := c.Load(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := c.Snapshot()
	if s.Loading || s.Err != nil || len(s.Items) != 2 || s.Pagination.Total != 2 {
		t.Fatalf("unexpected state: %+v", s)
	}
	if seen[0].Page != 1 || seen[0].Limit != pagination.DefaultLimit {
		t.Fatalf("unexpected first query: %+v", seen[0])
	}
	if len(rec.All()) != 0 {
		t.Fatalf("expected no notifications, got %v", rec.All())
	}
}

func TestSearchChangeResetsPage(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("students", immediate(page("a"), nil, &seen), &Recorder{})
	ctx := context.Background()

	_ = c.Load(ctx)
	if err := c.SetPage(ctx, 3); err != nil {
		t.Fatalf("set page: %v", err)
	}
	if err := c.SetSearch(ctx, "ana"); err != nil {
		t.Fatalf("set search: %v", err)
	}
	if err := c.SetPage(ctx, 2); err != nil {
		t.Fatalf("set page: %v", err)
	}

	want := []pagination.Params{
		{Page: 1, Limit: 10},
		{Page: 3, Limit: 10},
		{Page: 1, Limit: 10, Search: "ana"},
		{Page: 2, Limit: 10, Search: "ana"},
	}
	if len(seen) != len(want) {
		t.Fatalf("expected %d fetches, got %d: %+v", len(want), len(seen), seen)
	}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("fetch %d: expected %+v, got %+v", i, want[i], seen[i])
		}
	}
}

func TestUnchangedQueryDoesNotFetch(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("students", immediate(page(), nil, &seen), &Recorder{})
	ctx := context.Background()
	_ = c.Load(ctx)
	_ = c.SetSearch(ctx, "")
	_ = c.SetPage(ctx, 1)
	if len(seen) != 1 {
		t.Fatalf("expected a single fetch, got %d", len(seen))
	}
}

func TestStaleResponseIsDiscarded(t *testing.T) {
	g := newGatedFetch()
	g.results["a"] = page("stale")
	g.results["ab"] = page("fresh")
	rec := &Recorder{}
	c := NewListController("students", g.fetch, rec)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- c.SetSearch(ctx, "a") }()
	waitForCalls(t, g, 1)

	errAB := make(chan error, 1)
	go func() { errAB <- c.SetSearch(ctx, "ab") }()
	waitForCalls(t, g, 2)

	close(g.gate("ab"))
	if err := <-errAB; err != nil {
		t.Fatalf("newest fetch failed: %v", err)
	}
	close(g.gate("a"))
	if err := <-errA; !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale for superseded fetch, got %v", err)
	}

	s := c.Snapshot()
	if len(s.Items) != 1 || s.Items[0] != "fresh" {
		t.Fatalf("expected fresh items to survive, got %v", s.Items)
	}
	if s.Query.Search != "ab" || s.Loading {
		t.Fatalf("unexpected state: %+v", s)
	}
}

func TestStaleFailureIsSilent(t *testing.T) {
	g := newGatedFetch()
	g.errs["a"] = &apperr.NetworkError{Op: "GET /students", Err: errors.New("reset")}
	g.results["ab"] = page("fresh")
	rec := &Recorder{}
	c := NewListController("students", g.fetch, rec)
	ctx := context.Background()

	errA := make(chan error, 1)
	go func() { errA <- c.SetSearch(ctx, "a") }()
	waitForCalls(t, g, 1)
	errAB := make(chan error, 1)
	go func() { errAB <- c.SetSearch(ctx, "ab") }()
	waitForCalls(t, g, 2)

	close(g.gate("ab"))
	<-errAB
	close(g.gate("a"))
	<-errA

	if n := len(rec.Messages(LevelError)); n != 0 {
		t.Fatalf("stale failure must not notify, got %d", n)
	}
	if c.Snapshot().Err != nil {
		t.Fatal("stale failure must not set Err")
	}
}

func TestFailureKeepsItemsAndNotifiesOnce(t *testing.T) {
	var seen []pagination.Params
	rec := &Recorder{}
	ok := true
	fetch := func(ctx context.Context, q pagination.Params) (*PageResult[string], error) {
		seen = append(seen, q)
		if ok {
			return page("a", "b"), nil
		}
		return nil, apperr.NewServerError(http.StatusInternalServerError, "")
	}
	c := NewListController("students", fetch, rec)
	ctx := context.Background()
	_ = c.Load(ctx)

	ok = false
	if err := c.SetPage(ctx, 2); err == nil {
		t.Fatal("expected error")
	}
	s := c.Snapshot()
	if s.Loading || s.Err == nil || len(s.Items) != 2 {
		t.Fatalf("expected previous items retained, got %+v", s)
	}
	errs := rec.Messages(LevelError)
	if len(errs) != 1 || errs[0] != "Failed to load students" {
		t.Fatalf("expected one default error notification, got %v", errs)
	}
}

func TestFailureUsesServerMessage(t *testing.T) {
	var seen []pagination.Params
	rec := &Recorder{}
	c := NewListController("courses",
		immediate(nil, apperr.NewServerError(http.StatusForbidden, "Not authorized for this action"), &seen),
		rec, WithErrorMessage[string]("Could not fetch courses"))

	_ = c.Load(context.Background())
	if got := rec.Messages(LevelError); len(got) != 1 || got[0] != "Not authorized for this action" {
		t.Fatalf("expected server message, got %v", got)
	}
}

func TestWithFilterSearchesLocally(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("courses", immediate(page("Physics", "Chemistry", "Astrophysics"), nil, &seen), &Recorder{},
		WithFilter(func(item, search string) bool {
			return strings.Contains(strings.ToLower(item), strings.ToLower(search))
		}))
	ctx := context.Background()
	_ = c.Load(ctx)

	if err := c.SetSearch(ctx, "PHYS"); err != nil {
		t.Fatalf("set search: %v", err)
	}
	if len(seen) != 1 {
		t.Fatalf("local search must not refetch, got %d fetches", len(seen))
	}
	if got := c.Snapshot().Items; len(got) != 2 || got[0] != "Physics" || got[1] != "Astrophysics" {
		t.Fatalf("unexpected filtered items: %v", got)
	}
	_ = c.SetSearch(ctx, "")
	if got := c.Snapshot().Items; len(got) != 3 {
		t.Fatalf("expected all items after clearing search, got %v", got)
	}
}

func TestWithLimit(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("students", immediate(page(), nil, &seen), &Recorder{}, WithLimit[string](25))
	_ = c.Load(context.Background())
	if seen[0].Limit != 25 {
		t.Fatalf("expected limit 25, got %d", seen[0].Limit)
	}
}

func waitForCalls(t *testing.T, g *gatedFetch, n int) {
	t.Helper()
	for range 1000 {
		if len(g.calls()) >= n {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d fetches", n)
}

func TestWithQuery(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("students", immediate(page(), nil, &seen), &Recorder{},
		WithQuery[string](pagination.Params{Page: 4, Limit: 0, Search: " ana "}))
	_ = c.Load(context.Background())
	if want := (pagination.Params{Page: 4, Limit: 10, Search: "ana"}); seen[0] != want {
		t.Fatalf("expected %+v, got %+v", want, seen[0])
	}
}

func TestRefreshRefetchesSameQuery(t *testing.T) {
	var seen []pagination.Params
	c := NewListController("students", immediate(page("a"), nil, &seen), &Recorder{})
	ctx := context.Background()
	_ = c.SetSearch(ctx, "ana")
	_ = c.Refresh(ctx)
	if len(seen) != 2 {
		t.Fatalf("expected 2 fetches, got %d", len(seen))
	}
	if seen[0] != seen[1] {
		t.Fatalf("expected refresh to repeat %+v, got %+v", seen[0], seen[1])
	}
}
