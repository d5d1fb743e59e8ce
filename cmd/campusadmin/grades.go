package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"
	"golang.org/x/sync/errgroup"

	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/grades"
	"github.com/janisto/campus-admin/internal/service/students"
	"github.com/janisto/campus-admin/internal/view"
)

func cmdGradesList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("grades list")
	student := fs.String("student", "", "student ID")
	course := fs.String("course", "", "course ID")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	var (
		list []grades.Grade
		err  error
	)
	switch {
	case *student != "" && *course == "":
		list, err = a.grades.ForStudent(ctx, *student)
	case *course != "" && *student == "":
		list, err = a.grades.ForCourse(ctx, *course)
	default:
		return usageErr("grades list needs exactly one of --student or --course")
	}
	if err != nil {
		return err
	}
	printGrades(a, list, nil)
	return nil
}

// printGrades renders grades; codes labels courses that arrive unexpanded.
func printGrades(a *app, list []grades.Grade, codes map[string]string) {
	if len(list) == 0 {
		_, _ = fmt.Fprintln(a.out, "No grades found")
		return
	}
	t := newTable(a.out, "ID", "STUDENT", "COURSE", "EXAM", "MARKS", "PERCENT", "GRADE", "CLASS")
	for _, g := range list {
		course := label(g.Course, func(c courses.Course) string { return c.Code })
		if code, ok := codes[course]; ok {
			course = code
		}
		t.row(g.ID,
			label(g.Student, students.Student.FullName),
			course,
			string(g.ExamType),
			number(g.Marks)+"/"+number(g.TotalMarks),
			percent(g.Percentage()),
			g.Grade,
			grades.ColorClass(g.Grade))
	}
	t.flush()
}

type gradeForm struct {
	fs *pflag.FlagSet

	student, course, exam, remarks string
	marks, total                   float64
}

func newGradeForm(fs *pflag.FlagSet) *gradeForm {
	f := &gradeForm{fs: fs}
	fs.StringVar(&f.student, "student", "", "student ID")
	fs.StringVar(&f.course, "course", "", "course ID")
	fs.StringVar(&f.exam, "exam", "", "midterm, final, assignment or quiz")
	fs.Float64Var(&f.marks, "marks", 0, "marks obtained")
	fs.Float64Var(&f.total, "total", 100, "total marks")
	fs.StringVar(&f.remarks, "remarks", "", "remarks")
	return f
}

// apply copies set flags onto in. Total marks always apply on a new grade
// so its default takes effect.
func (f *gradeForm) apply(in *grades.Input, fresh bool) {
	if f.fs.Changed("student") {
		in.Student = f.student
	}
	if f.fs.Changed("course") {
		in.Course = f.course
	}
	if f.fs.Changed("exam") {
		in.ExamType = grades.ExamType(f.exam)
	}
	if f.fs.Changed("marks") {
		in.Marks = f.marks
	}
	if fresh || f.fs.Changed("total") {
		in.TotalMarks = f.total
	}
	if f.fs.Changed("remarks") {
		in.Remarks = f.remarks
	}
}

func cmdGradesAdd(ctx context.Context, a *app, args []string) error {
	fs := a.flags("grades add")
	form := newGradeForm(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	var in grades.Input
	form.apply(&in, true)
	var added *grades.Grade
	err := a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			added, err = a.grades.Add(ctx, in)
			return err
		},
		Success: "Grade added successfully",
		Failure: "Failed to save grade",
	})
	if err != nil {
		return err
	}
	printGrades(a, []grades.Grade{*added}, nil)
	return nil
}

// cmdGradesUpdate edits a grade found among the student's grades, since
// grades are only listed per student or course.
func cmdGradesUpdate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("grades update")
	form := newGradeForm(fs)
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if !fs.Changed("student") {
		return usageErr("grades update needs --student to locate the grade")
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	list, err := a.grades.ForStudent(ctx, form.student)
	if err != nil {
		return err
	}
	var current *grades.Grade
	for i := range list {
		if list[i].ID == rest[0] {
			current = &list[i]
			break
		}
	}
	if current == nil {
		return grades.ErrNotFound
	}
	in := grades.InputFrom(*current)
	form.apply(&in, false)

	var updated *grades.Grade
	err = a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			updated, err = a.grades.Update(ctx, current.ID, in)
			return err
		},
		Success: "Grade updated successfully",
		Failure: "Failed to save grade",
	})
	if err != nil {
		return err
	}
	printGrades(a, []grades.Grade{*updated}, nil)
	return nil
}

func cmdGradesDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flags("grades delete")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if err := a.session.RequireAdmin(); err != nil {
		return err
	}

	id := rest[0]
	return a.remove(ctx, *yes, fmt.Sprintf("Delete grade %s?", id), view.Action{
		Do:      func(ctx context.Context) error { return a.grades.Delete(ctx, id) },
		Success: "Grade deleted successfully",
	})
}

func cmdGradesReportCard(ctx context.Context, a *app, args []string) error {
	rest, err := parse(a.flags("grades report-card"), args, "student-id")
	if err != nil {
		return err
	}

	var (
		card  *grades.ReportCard
		codes = map[string]string{}
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		card, err = a.grades.ReportCard(gctx, rest[0])
		return err
	})
	g.Go(func() error {
		all, err := a.courses.List(gctx)
		if err != nil {
			return fmt.Errorf("loading courses: %w", err)
		}
		for _, c := range all {
			codes[c.ID] = c.Code
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	name := label(card.Student, students.Student.FullName)
	_, _ = fmt.Fprintf(a.out, "Report card: %s\n", name)
	printGrades(a, card.Grades, codes)
	if len(card.Grades) > 0 {
		avg := card.AveragePercentage
		_, _ = fmt.Fprintf(a.out, "Average: %s (%s)\n", percent(avg), grades.Letter(avg))
	}
	return nil
}
