package grades

import (
	"context"
	"errors"
	"testing"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
)

type fixture struct {
	svc       *MockService
	studentID string
	courseID  string
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	studentSvc := students.NewMockService()
	courseSvc := courses.NewMockService(studentSvc)

	s, err := studentSvc.Create(ctx, students.Input{
		FirstName: "Ana", LastName: "Lee", Email: "ana@example.com", RollNumber: "R-1", Class: "10",
	})
	if err != nil {
		t.Fatalf("seed student: %v", err)
	}
	c, err := courseSvc.Create(ctx, courses.Input{Name: "Physics", Code: "PHY101"})
	if err != nil {
		t.Fatalf("seed course: %v", err)
	}
	return fixture{svc: NewMockService(studentSvc, courseSvc), studentID: s.ID, courseID: c.ID}
}

func TestMockAddAssignsLetter(t *testing.T) {
	f := newFixture(t)
	g, err := f.svc.Add(context.Background(), Input{
		Student: f.studentID, Course: f.courseID, ExamType: ExamMidterm, Marks: 43, TotalMarks: 50,
	})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if g.Grade != "A" {
		t.Fatalf("expected A for 86%%, got %s", g.Grade)
	}
}

func TestMockAddRejects(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   Input
		want error
	}{
		{"marks-over-total", Input{Student: f.studentID, Course: f.courseID, ExamType: ExamQuiz, Marks: 11, TotalMarks: 10}, apperr.ErrValidation},
		{"bad-exam-type", Input{Student: f.studentID, Course: f.courseID, ExamType: "oral", Marks: 1, TotalMarks: 10}, apperr.ErrValidation},
		{"unknown-student", Input{Student: "nope", Course: f.courseID, ExamType: ExamQuiz, Marks: 1, TotalMarks: 10}, ErrStudentNotFound},
		{"unknown-course", Input{Student: f.studentID, Course: "nope", ExamType: ExamQuiz, Marks: 1, TotalMarks: 10}, ErrCourseNotFound},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := f.svc.Add(ctx, tc.in); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestMockListingsExpandOtherSide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.Add(ctx, Input{Student: f.studentID, Course: f.courseID, ExamType: ExamFinal, Marks: 70, TotalMarks: 100}); err != nil {
		t.Fatalf("add: %v", err)
	}

	byStudent, err := f.svc.ForStudent(ctx, f.studentID)
	if err != nil || len(byStudent) != 1 {
		t.Fatalf("expected 1 grade for student, got %d (%v)", len(byStudent), err)
	}
	if c, ok := byStudent[0].Course.Value(); !ok || c.Code != "PHY101" {
		t.Fatalf("expected expanded course, got %+v", byStudent[0].Course)
	}

	byCourse, err := f.svc.ForCourse(ctx, f.courseID)
	if err != nil || len(byCourse) != 1 {
		t.Fatalf("expected 1 grade for course, got %d (%v)", len(byCourse), err)
	}
	if s, ok := byCourse[0].Student.Value(); !ok || s.FirstName != "Ana" {
		t.Fatalf("expected expanded student, got %+v", byCourse[0].Student)
	}
}

func TestMockReportCard(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, in := range []Input{
		{Student: f.studentID, Course: f.courseID, ExamType: ExamMidterm, Marks: 45, TotalMarks: 50},
		{Student: f.studentID, Course: f.courseID, ExamType: ExamQuiz, Marks: 7, TotalMarks: 10},
	} {
		if _, err := f.svc.Add(ctx, in); err != nil {
			t.Fatalf("add: %v", err)
		}
	}

	rc, err := f.svc.ReportCard(ctx, f.studentID)
	if err != nil {
		t.Fatalf("report card: %v", err)
	}
	if len(rc.Grades) != 2 {
		t.Fatalf("expected 2 grades, got %d", len(rc.Grades))
	}
	if rc.AveragePercentage != 80 {
		t.Fatalf("expected average 80, got %v", rc.AveragePercentage)
	}
	if !rc.Student.IsExpanded() {
		t.Fatal("expected expanded student on report card")
	}
	if _, err := f.svc.ReportCard(ctx, "nope"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMockUpdateRecomputesLetter(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g, err := f.svc.Add(ctx, Input{Student: f.studentID, Course: f.courseID, ExamType: ExamMidterm, Marks: 30, TotalMarks: 100})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if g.Grade != "F" {
		t.Fatalf("expected F, got %s", g.Grade)
	}
	in := InputFrom(*g)
	in.Marks = 91
	updated, err := f.svc.Update(ctx, g.ID, in)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Grade != "A+" {
		t.Fatalf("expected A+, got %s", updated.Grade)
	}
	if err := f.svc.Delete(ctx, g.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := f.svc.Update(ctx, g.ID, in); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
