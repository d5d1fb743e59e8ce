package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/pflag"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
	"github.com/janisto/campus-admin/internal/view"
)

func cmdCoursesList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("courses list")
	search := fs.String("search", "", "match course name or code")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	list := view.NewListController("courses", a.fetchCourses, a.notifier,
		view.WithFilter(matchCourse),
		view.WithQuery[courses.Course](pagination.Params{Search: *search}))
	if err := list.Load(ctx); err != nil {
		return shown(err)
	}

	s := list.Snapshot()
	t := newTable(a.out, "ID", "CODE", "NAME", "CREDITS", "TEACHER", "STUDENTS", "ACTIVE")
	for _, c := range s.Items {
		t.row(c.ID, c.Code, c.Name, strconv.Itoa(c.Credits), teacherName(c),
			strconv.Itoa(len(c.Students)), yesNo(c.IsActive))
	}
	t.flush()
	_, _ = fmt.Fprintf(a.out, "%d courses\n", len(s.Items))
	return nil
}

// fetchCourses loads every course; the endpoint is not paginated.
func (a *app) fetchCourses(ctx context.Context, _ pagination.Params) (*view.PageResult[courses.Course], error) {
	all, err := a.courses.List(ctx)
	if err != nil {
		return nil, err
	}
	n := len(all)
	return &view.PageResult[courses.Course]{
		Items: all,
		Meta:  pagination.Meta{Page: 1, Limit: max(n, 1), Total: n, Pages: pagination.Pages(n, max(n, 1))},
	}, nil
}

func matchCourse(c courses.Course, search string) bool {
	return len(courses.Filter([]courses.Course{c}, search)) == 1
}

func teacherName(c courses.Course) string {
	return label(c.Teacher, func(t courses.Teacher) string { return t.Name })
}

func cmdCoursesShow(ctx context.Context, a *app, args []string) error {
	rest, err := parse(a.flags("courses show"), args, "id")
	if err != nil {
		return err
	}
	c, err := a.courses.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	printCourse(a, c)
	return nil
}

func printCourse(a *app, c *courses.Course) {
	_, _ = fmt.Fprintf(a.out, "%s  %s (%d credits)\n", c.Code, c.Name, c.Credits)
	if c.Description != "" {
		_, _ = fmt.Fprintln(a.out, c.Description)
	}
	_, _ = fmt.Fprintf(a.out, "Teacher: %s  Active: %s\n", teacherName(*c), yesNo(c.IsActive))
	if len(c.Students) == 0 {
		_, _ = fmt.Fprintln(a.out, "No students enrolled")
		return
	}
	t := newTable(a.out, "ID", "ROLL", "NAME")
	for _, r := range c.Students {
		st, _ := r.Value()
		t.row(r.ID(), st.RollNumber, st.FullName())
	}
	t.flush()
}

type courseForm struct {
	fs *pflag.FlagSet

	name, code, description, teacher string
	credits                          int
	active                           bool
}

func newCourseForm(fs *pflag.FlagSet) *courseForm {
	f := &courseForm{fs: fs}
	fs.StringVar(&f.name, "name", "", "course name")
	fs.StringVar(&f.code, "code", "", "course code")
	fs.StringVar(&f.description, "description", "", "description")
	fs.StringVar(&f.teacher, "teacher", "", "teacher user ID")
	fs.IntVar(&f.credits, "credits", 0, "credit points")
	fs.BoolVar(&f.active, "active", true, "whether the course is active")
	return f
}

func (f *courseForm) apply(in *courses.Input) {
	if f.fs.Changed("name") {
		in.Name = f.name
	}
	if f.fs.Changed("code") {
		in.Code = f.code
	}
	if f.fs.Changed("description") {
		in.Description = f.description
	}
	if f.fs.Changed("teacher") {
		in.Teacher = f.teacher
	}
	if f.fs.Changed("credits") {
		in.Credits = f.credits
	}
	if f.fs.Changed("active") {
		active := f.active
		in.IsActive = &active
	}
}

func cmdCoursesCreate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("courses create")
	form := newCourseForm(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	var in courses.Input
	form.apply(&in)
	var created *courses.Course
	err := a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			created, err = a.courses.Create(ctx, in)
			return err
		},
		Success: "Course created successfully",
		Failure: "Failed to save course",
	})
	if err != nil {
		return err
	}
	printCourse(a, created)
	return nil
}

func cmdCoursesUpdate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("courses update")
	form := newCourseForm(fs)
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	current, err := a.courses.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	in := courses.InputFrom(*current)
	form.apply(&in)

	var updated *courses.Course
	err = a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			updated, err = a.courses.Update(ctx, current.ID, in)
			return err
		},
		Success: "Course updated successfully",
		Failure: "Failed to save course",
	})
	if err != nil {
		return err
	}
	printCourse(a, updated)
	return nil
}

func cmdCoursesDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flags("courses delete")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if err := a.session.RequireAdmin(); err != nil {
		return err
	}

	id := rest[0]
	return a.remove(ctx, *yes, fmt.Sprintf("Delete course %s?", id), view.Action{
		Do:      func(ctx context.Context) error { return a.courses.Delete(ctx, id) },
		Success: "Course deleted successfully",
	})
}

func cmdCoursesEnroll(ctx context.Context, a *app, args []string) error {
	rest, err := parse(a.flags("courses enroll"), args, "course-id", "student-id")
	if err != nil {
		return err
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	var course *courses.Course
	err = a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			course, err = a.courses.Enroll(ctx, rest[0], rest[1])
			return err
		},
		Success: "Student enrolled successfully",
		Failure: "Failed to enroll student",
	})
	if err != nil {
		return err
	}
	printCourse(a, course)
	return nil
}

func cmdCoursesUnenroll(ctx context.Context, a *app, args []string) error {
	fs := a.flags("courses unenroll")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	rest, err := parse(fs, args, "course-id", "student-id")
	if err != nil {
		return err
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	courseID, studentID := rest[0], rest[1]
	return a.remove(ctx, *yes, fmt.Sprintf("Remove student %s from course %s?", studentID, courseID), view.Action{
		Do: func(ctx context.Context) error {
			_, err := a.courses.Unenroll(ctx, courseID, studentID)
			return err
		},
		Success: "Student removed from course",
		Failure: "Failed to remove student",
	})
}

// studentNames indexes students by ID for labeling references that arrive
// unexpanded.
func studentNames(list []students.Student) map[string]students.Student {
	out := make(map[string]students.Student, len(list))
	for _, s := range list {
		out[s.ID] = s
	}
	return out
}
