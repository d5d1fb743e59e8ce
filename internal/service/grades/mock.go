package grades

import (
	"context"
	"errors"
	"slices"
	"strings"
	"sync"
	"time"

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

// CourseLookup resolves course IDs. courses.Service satisfies it.
type CourseLookup interface {
	Get(ctx context.Context, id string) (*courses.Course, error)
}

// MockService implements Service in memory and assigns grade letters the way
// the API does. With lookups it rejects unknown students and courses and
// expands the opposite side of each listing.
type MockService struct {
	mu       sync.RWMutex
	grades   map[string]*Grade
	students StudentLookup
	courses  CourseLookup
	now      func() time.Time
}

// NewMockService creates an empty in-memory service. Either lookup may be nil.
func NewMockService(studentLookup StudentLookup, courseLookup CourseLookup) *MockService {
	return &MockService{
		grades:   make(map[string]*Grade),
		students: studentLookup,
		courses:  courseLookup,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (m *MockService) Add(ctx context.Context, in Input) (*Grade, error) {
	if err := m.check(ctx, in); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g := &Grade{ID: uuid.NewString(), CreatedAt: m.now()}
	apply(g, in)
	m.grades[g.ID] = g
	out := *g
	return &out, nil
}

func (m *MockService) Update(ctx context.Context, id string, in Input) (*Grade, error) {
	if err := m.check(ctx, in); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.grades[id]
	if !ok {
		return nil, ErrNotFound
	}
	apply(g, in)
	out := *g
	return &out, nil
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.grades[id]; !ok {
		return ErrNotFound
	}
	delete(m.grades, id)
	return nil
}

// ForStudent returns the student's grades with courses expanded.
func (m *MockService) ForStudent(ctx context.Context, studentID string) ([]Grade, error) {
	out := m.collect(func(g *Grade) bool { return g.Student.ID() == studentID })
	if m.courses != nil {
		for i := range out {
			if c, err := m.courses.Get(ctx, out[i].Course.ID()); err == nil {
				out[i].Course = ref.Expanded(*c)
			}
		}
	}
	return out, nil
}

// ForCourse returns the course's grades with students expanded.
func (m *MockService) ForCourse(ctx context.Context, courseID string) ([]Grade, error) {
	out := m.collect(func(g *Grade) bool { return g.Course.ID() == courseID })
	if m.students != nil {
		for i := range out {
			if s, err := m.students.Get(ctx, out[i].Student.ID()); err == nil {
				out[i].Student = ref.Expanded(*s)
			}
		}
	}
	return out, nil
}

func (m *MockService) ReportCard(ctx context.Context, studentID string) (*ReportCard, error) {
	student := ref.ID[students.Student](studentID)
	if m.students != nil {
		s, err := m.students.Get(ctx, studentID)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
		student = ref.Expanded(*s)
	}
	list, err := m.ForStudent(ctx, studentID)
	if err != nil {
		return nil, err
	}
	rc := NewReportCard(student, list)
	return &rc, nil
}

func (m *MockService) collect(keep func(*Grade) bool) []Grade {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Grade, 0)
	for _, g := range m.grades {
		if keep(g) {
			out = append(out, *g)
		}
	}
	slices.SortFunc(out, func(a, b Grade) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out
}

func (m *MockService) check(ctx context.Context, in Input) error {
	if err := validate.Struct(in); err != nil {
		return err
	}
	if m.students != nil {
		if _, err := m.students.Get(ctx, in.Student); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return ErrStudentNotFound
			}
			return err
		}
	}
	if m.courses != nil {
		if _, err := m.courses.Get(ctx, in.Course); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return ErrCourseNotFound
			}
			return err
		}
	}
	return nil
}

func apply(g *Grade, in Input) {
	g.Student = ref.ID[students.Student](in.Student)
	g.Course = ref.ID[courses.Course](in.Course)
	g.ExamType = in.ExamType
	g.Marks = in.Marks
	g.TotalMarks = in.TotalMarks
	g.Remarks = strings.TrimSpace(in.Remarks)
	g.Grade = Letter(percentage(in.Marks, in.TotalMarks))
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
