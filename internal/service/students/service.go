package students

import (
	"context"
	"strings"
	"time"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
)

// Service errors
var (
	ErrNotFound  = apperr.New(apperr.ErrNotFound, "Student not found")
	ErrDuplicate = apperr.New(apperr.ErrConflict, "Student with this email or roll number already exists")
)

// Gender of a student.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

// Student is a student record as returned by the API.
type Student struct {
	ID            string        `json:"_id"`
	FirstName     string        `json:"firstName"`
	LastName      string        `json:"lastName"`
	Email         string        `json:"email"`
	RollNumber    string        `json:"rollNumber"`
	DateOfBirth   timeutil.Date `json:"dateOfBirth,omitempty"`
	Gender        Gender        `json:"gender,omitempty"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Class         string        `json:"class"`
	Section       string        `json:"section,omitempty"`
	GuardianName  string        `json:"guardianName,omitempty"`
	GuardianPhone string        `json:"guardianPhone,omitempty"`
	IsActive      bool          `json:"isActive"`
	CreatedAt     time.Time     `json:"createdAt"`
}

// Identity returns the student ID so students can be referenced by courses and grades.
func (s Student) Identity() string { return s.ID }

// FullName joins first and last name.
func (s Student) FullName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// Matches reports whether search occurs, case-insensitively, in the student's
// name, email or roll number. An empty search matches everything.
func (s Student) Matches(search string) bool {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return true
	}
	for _, field := range []string{s.FirstName, s.LastName, s.FullName(), s.Email, s.RollNumber} {
		if strings.Contains(strings.ToLower(field), q) {
			return true
		}
	}
	return false
}

// Input is the create/update form. Updates replace every field.
type Input struct {
	FirstName     string        `json:"firstName"               validate:"required"`
	LastName      string        `json:"lastName"                validate:"required"`
	Email         string        `json:"email"                   validate:"required,email"`
	RollNumber    string        `json:"rollNumber"              validate:"required"`
	DateOfBirth   timeutil.Date `json:"dateOfBirth,omitempty"   validate:"isodate"`
	Gender        Gender        `json:"gender,omitempty"        validate:"omitempty,oneof=male female other"`
	Phone         string        `json:"phone,omitempty"`
	Address       string        `json:"address,omitempty"`
	Class         string        `json:"class"                   validate:"required"`
	Section       string        `json:"section,omitempty"`
	GuardianName  string        `json:"guardianName,omitempty"`
	GuardianPhone string        `json:"guardianPhone,omitempty"`
	IsActive      *bool         `json:"isActive,omitempty"`
}

// InputFrom returns the form pre-filled from an existing student, for edits.
func InputFrom(s Student) Input {
	active := s.IsActive
	return Input{
		FirstName:     s.FirstName,
		LastName:      s.LastName,
		Email:         s.Email,
		RollNumber:    s.RollNumber,
		DateOfBirth:   s.DateOfBirth,
		Gender:        s.Gender,
		Phone:         s.Phone,
		Address:       s.Address,
		Class:         s.Class,
		Section:       s.Section,
		GuardianName:  s.GuardianName,
		GuardianPhone: s.GuardianPhone,
		IsActive:      &active,
	}
}

// ListResult is one page of students.
type ListResult struct {
	Students   []Student       `json:"students"`
	Pagination pagination.Meta `json:"pagination"`
}

// Service defines student operations.
//
// Implementations must normalize input data:
//   - Email: lowercase and trim whitespace
//   - RollNumber: trim whitespace
type Service interface {
	List(ctx context.Context, params pagination.Params) (*ListResult, error)
	Get(ctx context.Context, id string) (*Student, error)
	Create(ctx context.Context, in Input) (*Student, error)
	Update(ctx context.Context, id string, in Input) (*Student, error)
	Delete(ctx context.Context, id string) error
}
