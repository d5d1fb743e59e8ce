package attendance

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/ref"
	"github.com/janisto/campus-admin/internal/platform/validate"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
)

// StudentLookup resolves student IDs. students.Service satisfies it.
type StudentLookup interface {
	Get(ctx context.Context, id string) (*students.Student, error)
}

// MockService implements Service in memory. Marks are upserted per
// student, course and date.
type MockService struct {
	mu      sync.RWMutex
	records map[string]*Record
	lookup  StudentLookup
}

// NewMockService creates an empty in-memory service. lookup may be nil.
func NewMockService(lookup StudentLookup) *MockService {
	return &MockService{
		records: make(map[string]*Record),
		lookup:  lookup,
	}
}

func recordKey(student, course, date string) string {
	return student + "|" + course + "|" + date
}

// List returns matching records ordered by date, course and student.
func (m *MockService) List(ctx context.Context, f Filter) ([]Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Record, 0)
	for _, r := range m.records {
		if f.Match(*r) {
			out = append(out, *r)
		}
	}
	slices.SortFunc(out, func(a, b Record) int {
		if c := strings.Compare(string(a.Date), string(b.Date)); c != 0 {
			return c
		}
		if c := strings.Compare(a.Course.ID(), b.Course.ID()); c != 0 {
			return c
		}
		return strings.Compare(a.Student.ID(), b.Student.ID())
	})
	return out, nil
}

func (m *MockService) Mark(ctx context.Context, entries []Entry) ([]Record, error) {
	if len(entries) == 0 {
		return nil, ErrEmptyRoster
	}
	if err := validate.Struct(MarkInput{Records: entries}); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Record, 0, len(entries))
	for _, e := range entries {
		key := recordKey(e.Student, e.Course, string(e.Date))
		r, ok := m.records[key]
		if !ok {
			r = &Record{
				ID:      uuid.NewString(),
				Student: ref.ID[students.Student](e.Student),
				Course:  ref.ID[courses.Course](e.Course),
				Date:    e.Date,
			}
			m.records[key] = r
		}
		r.Status = e.Status
		out = append(out, *r)
	}
	return out, nil
}

func (m *MockService) Report(ctx context.Context, studentID string) (*Report, error) {
	if m.lookup != nil {
		if _, err := m.lookup.Get(ctx, studentID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
	}
	records, err := m.List(ctx, Filter{Student: studentID})
	if err != nil {
		return nil, err
	}
	rep := NewReport(studentID, records)
	return &rep, nil
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
