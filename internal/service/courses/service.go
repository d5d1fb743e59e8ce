package courses

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/ref"
	"github.com/janisto/campus-admin/internal/service/students"
)

// Service errors
var (
	ErrNotFound        = apperr.New(apperr.ErrNotFound, "Course not found")
	ErrStudentNotFound = apperr.New(apperr.ErrNotFound, "Student not found")
	ErrDuplicateCode   = apperr.New(apperr.ErrConflict, "Course with this code already exists")
	ErrAlreadyEnrolled = apperr.New(apperr.ErrConflict, "Student already enrolled in this course")
	ErrNotEnrolled     = apperr.New(apperr.ErrInvalid, "Student is not enrolled in this course")
)

// Teacher is the user responsible for a course.
type Teacher struct {
	ID    string `json:"_id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

func (t Teacher) Identity() string { return t.ID }

// StudentRef is an enrolled student, sent either as an ID or as the full record.
type StudentRef = ref.Ref[students.Student]

// Course as returned by the API.
type Course struct {
	ID          string           `json:"_id"`
	Name        string           `json:"name"`
	Code        string           `json:"code"`
	Description string           `json:"description,omitempty"`
	Credits     int              `json:"credits"`
	Teacher     ref.Ref[Teacher] `json:"teacher,omitzero"`
	Students    []StudentRef     `json:"students"`
	IsActive    bool             `json:"isActive"`
	CreatedAt   time.Time        `json:"createdAt"`
}

func (c Course) Identity() string { return c.ID }

// StudentIDs returns the enrolled student IDs in enrollment order.
func (c Course) StudentIDs() []string {
	return ref.IDs(c.Students)
}

// IsEnrolled reports whether studentID is enrolled in the course.
func (c Course) IsEnrolled(studentID string) bool {
	return slices.Contains(c.StudentIDs(), studentID)
}

// Input is the create/update form.
type Input struct {
	Name        string `json:"name"                  validate:"required"`
	Code        string `json:"code"                  validate:"required"`
	Description string `json:"description,omitempty"`
	Credits     int    `json:"credits"               validate:"gte=0"`
	Teacher     string `json:"teacher,omitempty"`
	IsActive    *bool  `json:"isActive,omitempty"`
}

// InputFrom returns the form pre-filled from an existing course.
func InputFrom(c Course) Input {
	active := c.IsActive
	return Input{
		Name:        c.Name,
		Code:        c.Code,
		Description: c.Description,
		Credits:     c.Credits,
		Teacher:     c.Teacher.ID(),
		IsActive:    &active,
	}
}

// EnrollmentInput is the body of enroll and unenroll requests.
type EnrollmentInput struct {
	StudentID string `json:"studentId" validate:"required"`
}

// Service defines course and enrollment operations.
type Service interface {
	List(ctx context.Context) ([]Course, error)
	Get(ctx context.Context, id string) (*Course, error)
	Create(ctx context.Context, in Input) (*Course, error)
	Update(ctx context.Context, id string, in Input) (*Course, error)
	Delete(ctx context.Context, id string) error
	Enroll(ctx context.Context, courseID, studentID string) (*Course, error)
	Unenroll(ctx context.Context, courseID, studentID string) (*Course, error)
}

// Filter keeps the courses whose name or code contains search, ignoring case.
// The courses endpoint has no server-side search, so list views filter locally.
func Filter(courses []Course, search string) []Course {
	q := strings.ToLower(strings.TrimSpace(search))
	if q == "" {
		return courses
	}
	out := make([]Course, 0, len(courses))
	for _, c := range courses {
		if strings.Contains(strings.ToLower(c.Name), q) || strings.Contains(strings.ToLower(c.Code), q) {
			out = append(out, c)
		}
	}
	return out
}
