package students

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/validate"
)

// MockService implements Service in memory. It backs the stand-in API and unit tests.
type MockService struct {
	mu       sync.RWMutex
	students map[string]*Student
	now      func() time.Time
}

// NewMockService creates an empty in-memory service.
func NewMockService() *MockService {
	return &MockService{
		students: make(map[string]*Student),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// List returns students newest first, filtered by params.Search.
func (m *MockService) List(ctx context.Context, params pagination.Params) (*ListResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]Student, 0, len(m.students))
	for _, s := range m.students {
		if s.Matches(params.Search) {
			matched = append(matched, *s)
		}
	}
	slices.SortFunc(matched, func(a, b Student) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return strings.Compare(a.RollNumber, b.RollNumber)
	})

	page := pagination.Paginate(matched, params)
	return &ListResult{Students: page.Items, Pagination: page.Meta}, nil
}

func (m *MockService) Get(ctx context.Context, id string) (*Student, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := *s
	return &out, nil
}

func (m *MockService) Create(ctx context.Context, in Input) (*Student, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in = normalize(in)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.duplicateLocked("", in) {
		return nil, ErrDuplicate
	}

	s := &Student{ID: uuid.NewString(), CreatedAt: m.now(), IsActive: true}
	apply(s, in)
	m.students[s.ID] = s
	out := *s
	return &out, nil
}

func (m *MockService) Update(ctx context.Context, id string, in Input) (*Student, error) {
	if err := validate.Struct(in); err != nil {
		return nil, err
	}
	in = normalize(in)

	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.students[id]
	if !ok {
		return nil, ErrNotFound
	}
	if m.duplicateLocked(id, in) {
		return nil, ErrDuplicate
	}
	apply(s, in)
	out := *s
	return &out, nil
}

func (m *MockService) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.students[id]; !ok {
		return ErrNotFound
	}
	delete(m.students, id)
	return nil
}

// Clear removes all students (useful for test cleanup).
func (m *MockService) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.students = make(map[string]*Student)
}

func (m *MockService) duplicateLocked(skipID string, in Input) bool {
	for id, s := range m.students {
		if id == skipID {
			continue
		}
		if s.Email == in.Email || s.RollNumber == in.RollNumber {
			return true
		}
	}
	return false
}

func normalize(in Input) Input {
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.RollNumber = strings.TrimSpace(in.RollNumber)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	return in
}

func apply(s *Student, in Input) {
	s.FirstName = in.FirstName
	s.LastName = in.LastName
	s.Email = in.Email
	s.RollNumber = in.RollNumber
	s.DateOfBirth = in.DateOfBirth
	s.Gender = in.Gender
	s.Phone = in.Phone
	s.Address = in.Address
	s.Class = in.Class
	s.Section = in.Section
	s.GuardianName = in.GuardianName
	s.GuardianPhone = in.GuardianPhone
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
}

// Compile-time interface check
var _ Service = (*MockService)(nil)
