package courses

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
	"github.com/janisto/campus-admin/internal/service/students"
)

// StudentLookup resolves enrolled student IDs. students.Service satisfies it.
type StudentLookup interface {
	Get(ctx context.Context, id string) (*students.Student, error)
}

type record struct {
	course   Course
	enrolled []string
}

// MockService implements Service in memory. With a StudentLookup it checks
// enrollments against existing students and returns enrolled students expanded,
// the way the API populates them.
type MockService struct {
	mu      sync.RWMutex
	courses map[string]*record
	lookup  StudentLookup
	now     func() time.Time
}

// NewMockService creates an empty in-memory service. lookup may be nil.
func NewMockService(lookup StudentLookup) *MockService {
	return &MockService{
		courses: make(map[string]*record),
		lookup:  lookup,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// List returns every course, oldest first.
func (m *MockService) List(ctx context.Context) ([]Course, error) {
	m.mu.RLock()
	recs := make([]record, 0, len(m.courses))
	for _, r := range m.courses {
		recs = append(recs, r.snapshot())
	}
	m.mu.RUnlock()

	slices.SortFunc(recs, func(a, b record) int {
		if c := a.course.CreatedAt.Compare(b.course.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.course.Code, b.course.Code)
	})

	out := make([]Course, 0, len(recs))
	for _, r := range recs {
		out = append(out, m.populate(ctx, r))
	}
	return out, nil
}

func (m *MockService) Get(ctx context.Context, id string) (*Course, error) {
	m.mu.RLock()
	r, ok := m.courses[id]
	if !ok {
		m.mu.RUnlock()
		return nil, ErrNotFound
	}
	snap := r.snapshot()
	m.mu.RUnlock()

	c := m.populate(ctx, snap)
	return &c, nil
}

func (m *MockService) Create(ctx context.Context, in Input) (*Course, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in = normalize(in)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.codeTakenLocked("", in.Code) {
		return nil, ErrDuplicateCode
	}
	r := &record{course: Course{ID: uuid.NewString(), CreatedAt: m.now(), IsActive: true}}
	apply(&r.course, in)
	m.courses[r.course.ID] = r

	c := r.snapshot().bare()
	return &c, nil
}

func (m *MockService) Update(ctx context.Context, id string, in Input) (*Course, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in = normalize(in)

	m.mu.Lock()
	defer m.mu.Unlock()

	r, ok := m.courses[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.codeTakenLocked(id, in.Code) {
		return nil, ErrDuplicateCode
	}
	apply(&r.course, in)

	c := r.snapshot().bare()
	return &c, nil
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.courses[id]; !ok {
		return ErrNotFound
	}
	delete(m.courses, id)
	return nil
}

func (m *MockService) Enroll(ctx context.Context, courseID, studentID string) (*Course, error) {
	if m.lookup != nil {
		if _, err := m.lookup.Get(ctx, studentID); err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, ErrStudentNotFound
			}
			return nil, err
		}
	}

	m.mu.Lock()
	r, ok := m.courses[courseID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	if slices.Contains(r.enrolled, studentID) {
		m.mu.Unlock()
		return nil, ErrAlreadyEnrolled
	}
	r.enrolled = append(r.enrolled, studentID)
	snap := r.snapshot()
	m.mu.Unlock()

	c := m.populate(ctx, snap)
	return &c, nil
}

func (m *MockService) Unenroll(ctx context.Context, courseID, studentID string) (*Course, error) {
	m.mu.Lock()
	r, ok := m.courses[courseID]
	if !ok {
		m.mu.Unlock()
		return nil, ErrNotFound
	}
	idx := slices.Index(r.enrolled, studentID)
	if idx < 0 {
		m.mu.Unlock()
		return nil, ErrNotEnrolled
	}
	r.enrolled = slices.Delete(r.enrolled, idx, idx+1)
	snap := r.snapshot()
	m.mu.Unlock()

	c := m.populate(ctx, snap)
	return &c, nil
}

// Clear removes all courses (useful for test cleanup).
func (m *MockService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses = make(map[string]*record)
}

// populate expands enrolled students. Students that no longer resolve stay as bare IDs.
func (m *MockService) populate(ctx context.Context, r record) Course {
	c := r.course
	c.Students = make([]StudentRef, 0, len(r.enrolled))
	for _, id := range r.enrolled {
		if m.lookup != nil {
			if s, err := m.lookup.Get(ctx, id); err == nil {
				c.Students = append(c.Students, ref.Expanded(*s))
				continue
			}
		}
		c.Students = append(c.Students, ref.ID[students.Student](id))
	}
	return c
}

func (m *MockService) codeTakenLocked(skipID, code string) bool {
	for id, r := range m.courses {
		if id != skipID && r.course.Code == code {
			return true
		}
	}
	return false
}

func (r *record) snapshot() record {
	return record{course: r.course, enrolled: slices.Clone(r.enrolled)}
}

func (r record) bare() Course {
	c := r.course
	c.Students = make([]StudentRef, 0, len(r.enrolled))
	for _, id := range r.enrolled {
		c.Students = append(c.Students, ref.ID[students.Student](id))
	}
	return c
}

func normalize(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Code = strings.ToUpper(strings.TrimSpace(in.Code))
	return in
}

func apply(c *Course, in Input) {
	c.Name = in.Name
	c.Code = in.Code
	c.Description = in.Description
	c.Credits = in.Credits
	if in.Teacher != "" {
		c.Teacher = ref.ID[Teacher](in.Teacher)
	}
	if in.IsActive != nil {
		c.IsActive = *in.IsActive
	}
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
