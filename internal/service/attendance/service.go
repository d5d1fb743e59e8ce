package attendance

import (
	"context"
	"math"
	"net/url"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/ref"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
)

// Service errors
var (
	ErrEmptyRoster     = apperr.New(apperr.ErrInvalid, "No students to mark attendance for")
	ErrStudentNotFound = apperr.New(apperr.ErrNotFound, "Student not found")
)

// Status of a student on a given day.
type Status string

const (
	StatusPresent Status = "present"
	StatusAbsent  Status = "absent"
	StatusLate    Status = "late"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusPresent, StatusAbsent, StatusLate:
		return true
	}
	return false
}

// Entry is one attendance mark as submitted.
type Entry struct {
	Student string        `json:"student" validate:"required"`
	Course  string        `json:"course"  validate:"required"`
	Status  Status        `json:"status"  validate:"required,oneof=present absent late"`
	Date    timeutil.Date `json:"date"    validate:"required,isodate"`
}

// MarkInput is the body of POST /attendance.
type MarkInput struct {
	Records []Entry `json:"records" validate:"required,min=1,dive"`
}

// Record is a stored attendance mark. Student and course may arrive expanded.
type Record struct {
	ID      string                    `json:"_id,omitempty"`
	Student ref.Ref[students.Student] `json:"student"`
	Course  ref.Ref[courses.Course]   `json:"course"`
	Status  Status                    `json:"status"`
	Date    timeutil.Date             `json:"date"`
}

// Filter narrows GET /attendance. Empty fields are not sent.
type Filter struct {
	Course  string
	Date    timeutil.Date
	Student string
}

// Values encodes f as query parameters.
func (f Filter) Values() url.Values {
	v := url.Values{}
	if f.Course != "" {
		v.Set("course", f.Course)
	}
	if f.Date != "" {
		v.Set("date", string(f.Date))
	}
	if f.Student != "" {
		v.Set("student", f.Student)
	}
	return v
}

// Match reports whether r passes f.
func (f Filter) Match(r Record) bool {
	if f.Course != "" && r.Course.ID() != f.Course {
		return false
	}
	if f.Date != "" && r.Date != f.Date {
		return false
	}
	if f.Student != "" && r.Student.ID() != f.Student {
		return false
	}
	return true
}

// Counts tallies records by status.
type Counts struct {
	Present int `json:"present"`
	Absent  int `json:"absent"`
	Late    int `json:"late"`
}

// Total is the number of tallied records.
func (c Counts) Total() int {
	return c.Present + c.Absent + c.Late
}

// Add tallies one status.
func (c *Counts) Add(s Status) {
	switch s {
	case StatusPresent:
		c.Present++
	case StatusAbsent:
		c.Absent++
	case StatusLate:
		c.Late++
	}
}

// Report is a student's attendance summary.
type Report struct {
	Student    string   `json:"student"`
	Total      int      `json:"total"`
	Present    int      `json:"present"`
	Absent     int      `json:"absent"`
	Late       int      `json:"late"`
	Percentage float64  `json:"percentage"`
	Records    []Record `json:"records"`
}

// NewReport summarizes records for studentID. Late counts as attended and the
// percentage is rounded to two decimals.
func NewReport(studentID string, records []Record) Report {
	var c Counts
	for _, r := range records {
		c.Add(r.Status)
	}
	rep := Report{
		Student: studentID,
		Total:   c.Total(),
		Present: c.Present,
		Absent:  c.Absent,
		Late:    c.Late,
		Records: records,
	}
	if rep.Total > 0 {
		pct := float64(c.Present+c.Late) / float64(rep.Total) * 100
		rep.Percentage = math.Round(pct*100) / 100
	}
	return rep
}

// Service defines attendance operations.
type Service interface {
	List(ctx context.Context, f Filter) ([]Record, error)
	Mark(ctx context.Context, entries []Entry) ([]Record, error)
	Report(ctx context.Context, studentID string) (*Report, error)
}
