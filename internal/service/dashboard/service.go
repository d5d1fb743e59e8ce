package dashboard

import (
	"context"

	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/students"
)

// Totals counts all and active records of one kind.
type Totals struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

// GradeBucket is one bar of the grade distribution.
type GradeBucket struct {
	Grade string `json:"_id"`
	Count int    `json:"count"`
	Color string `json:"color,omitempty"`
}

// Stats is the dashboard overview.
type Stats struct {
	Students          Totals             `json:"students"`
	Courses           Totals             `json:"courses"`
	TodayAttendance   attendance.Counts  `json:"todayAttendance"`
	GradeDistribution []GradeBucket      `json:"gradeDistribution"`
	RecentStudents    []students.Student `json:"recentStudents"`
}

// TotalGrades sums the grade distribution.
func (s Stats) TotalGrades() int {
	var n int
	for _, b := range s.GradeDistribution {
		n += b.Count
	}
	return n
}

// MaxGradeCount returns the largest bucket, or 1 when there are none, so bars
// can be scaled against it.
func (s Stats) MaxGradeCount() int {
	m := 0
	for _, b := range s.GradeDistribution {
		m = max(m, b.Count)
	}
	if m == 0 {
		return 1
	}
	return m
}

// Service provides dashboard statistics.
type Service interface {
	Stats(ctx context.Context) (*Stats, error)
}
