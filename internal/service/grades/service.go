package grades

import (
	"context"
	"math"
	"time"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/ref"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
)

// Service errors
var (
	ErrNotFound        = apperr.New(apperr.ErrNotFound, "Grade not found")
	ErrStudentNotFound = apperr.New(apperr.ErrNotFound, "Student not found")
	ErrCourseNotFound  = apperr.New(apperr.ErrNotFound, "Course not found")
)

// ExamType classifies an assessment.
type ExamType string

const (
	ExamMidterm    ExamType = "midterm"
	ExamFinal      ExamType = "final"
	ExamAssignment ExamType = "assignment"
	ExamQuiz       ExamType = "quiz"
)

// ExamTypes lists the exam types in display order.
var ExamTypes = []ExamType{ExamMidterm, ExamFinal, ExamAssignment, ExamQuiz}

// Grade is one assessment result. The letter is assigned by the server.
type Grade struct {
	ID         string                    `json:"_id"`
	Student    ref.Ref[students.Student] `json:"student"`
	Course     ref.Ref[courses.Course]   `json:"course"`
	ExamType   ExamType                  `json:"examType"`
	Marks      float64                   `json:"marks"`
	TotalMarks float64                   `json:"totalMarks"`
	Grade      string                    `json:"grade,omitempty"`
	Remarks    string                    `json:"remarks,omitempty"`
	CreatedAt  time.Time                 `json:"createdAt"`
}

// Percentage returns marks as a percentage of total marks.
func (g Grade) Percentage() float64 {
	return percentage(g.Marks, g.TotalMarks)
}

// Input is the add/update form.
type Input struct {
	Student    string   `json:"student"           validate:"required"`
	Course     string   `json:"course"            validate:"required"`
	ExamType   ExamType `json:"examType"          validate:"required,oneof=midterm final assignment quiz"`
	Marks      float64  `json:"marks"             validate:"gte=0,ltefield=TotalMarks"`
	TotalMarks float64  `json:"totalMarks"        validate:"gt=0"`
	Remarks    string   `json:"remarks,omitempty"`
}

// InputFrom returns the form pre-filled from an existing grade.
func InputFrom(g Grade) Input {
	return Input{
		Student:    g.Student.ID(),
		Course:     g.Course.ID(),
		ExamType:   g.ExamType,
		Marks:      g.Marks,
		TotalMarks: g.TotalMarks,
		Remarks:    g.Remarks,
	}
}

// ReportCard aggregates a student's grades across courses and exam types.
type ReportCard struct {
	Student           ref.Ref[students.Student] `json:"student"`
	Grades            []Grade                   `json:"grades"`
	AveragePercentage float64                   `json:"averagePercentage"`
}

// NewReportCard averages the percentages of grades, rounded to two decimals.
func NewReportCard(student ref.Ref[students.Student], grades []Grade) ReportCard {
	rc := ReportCard{Student: student, Grades: grades}
	if len(grades) == 0 {
		return rc
	}
	var sum float64
	for _, g := range grades {
		sum += g.Percentage()
	}
	rc.AveragePercentage = round2(sum / float64(len(grades)))
	return rc
}

// Service defines grade operations.
type Service interface {
	Add(ctx context.Context, in Input) (*Grade, error)
	Update(ctx context.Context, id string, in Input) (*Grade, error)
	Delete(ctx context.Context, id string) error
	ForStudent(ctx context.Context, studentID string) ([]Grade, error)
	ForCourse(ctx context.Context, courseID string) ([]Grade, error)
	ReportCard(ctx context.Context, studentID string) (*ReportCard, error)
}

func percentage(marks, total float64) float64 {
	if total <= 0 {
		return 0
	}
	return marks / total * 100
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
