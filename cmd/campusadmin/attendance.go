package main

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/students"
	"github.com/janisto/campus-admin/internal/view"
)

func cmdAttendanceList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("attendance list")
	course := fs.String("course", "", "course ID")
	date := fs.String("date", "", "day, YYYY-MM-DD")
	student := fs.String("student", "", "student ID")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	f := attendance.Filter{Course: *course, Student: *student}
	if *date != "" {
		d, err := timeutil.ParseDate(*date)
		if err != nil {
			return usageErr("--date: %v", err)
		}
		f.Date = d
	}
	records, err := a.attendance.List(ctx, f)
	if err != nil {
		return err
	}
	printRecords(a, records)
	return nil
}

func printRecords(a *app, records []attendance.Record) {
	if len(records) == 0 {
		_, _ = fmt.Fprintln(a.out, "No attendance records")
		return
	}
	t := newTable(a.out, "DATE", "COURSE", "STUDENT", "STATUS")
	for _, r := range records {
		t.row(r.Date.String(),
			label(r.Course, func(c courses.Course) string { return c.Code }),
			label(r.Student, students.Student.FullName),
			string(r.Status))
	}
	t.flush()
}

func cmdAttendanceMark(ctx context.Context, a *app, args []string) error {
	fs := a.flags("attendance mark")
	courseID := fs.String("course", "", "course ID (required)")
	date := fs.String("date", "", "day to mark, YYYY-MM-DD (default today)")
	absent := fs.StringSlice("absent", nil, "student IDs to mark absent")
	late := fs.StringSlice("late", nil, "student IDs to mark late")
	dryRun := fs.Bool("dry-run", false, "show the roster without submitting")
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if *courseID == "" {
		return usageErr("--course is required")
	}
	day := timeutil.Today()
	if *date != "" {
		d, err := timeutil.ParseDate(*date)
		if err != nil {
			return usageErr("--date: %v", err)
		}
		day = d
	}
	if err := a.session.RequireManager(); err != nil {
		return err
	}

	var (
		course *courses.Course
		names  map[string]students.Student
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		course, err = a.courses.Get(gctx, *courseID)
		return err
	})
	g.Go(func() error {
		res, err := a.students.List(gctx, pagination.Params{Page: 1, Limit: pagination.MaxLimit})
		if err != nil {
			return err
		}
		names = studentNames(res.Students)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	roster := attendance.NewRoster(*course, day)
	if roster.Len() == 0 {
		a.notifier.Error(attendance.ErrEmptyRoster.Error())
		return shown(attendance.ErrEmptyRoster)
	}
	for status, ids := range map[attendance.Status][]string{
		attendance.StatusAbsent: *absent,
		attendance.StatusLate:   *late,
	} {
		for _, id := range ids {
			if err := roster.SetStatus(strings.TrimSpace(id), status); err != nil {
				return usageErr("%v", err)
			}
		}
	}

	_, _ = fmt.Fprintf(a.out, "%s  %s  %s\n", course.Code, course.Name, day)
	t := newTable(a.out, "STUDENT", "ROLL", "NAME", "STATUS")
	for _, e := range roster.Entries() {
		st := names[e.Student]
		t.row(e.Student, st.RollNumber, st.FullName(), string(e.Status))
	}
	t.flush()
	c := roster.Counts()
	_, _ = fmt.Fprintf(a.out, "Present: %d  Absent: %d  Late: %d\n", c.Present, c.Absent, c.Late)
	if *dryRun {
		return nil
	}

	return a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) error {
			_, err := roster.Submit(ctx, a.attendance)
			return err
		},
		Success: "Attendance marked successfully",
		Failure: "Failed to mark attendance",
	})
}

func cmdAttendanceReport(ctx context.Context, a *app, args []string) error {
	rest, err := parse(a.flags("attendance report"), args, "student-id")
	if err != nil {
		return err
	}
	rep, err := a.attendance.Report(ctx, rest[0])
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(a.out, "Total: %d  Present: %d  Absent: %d  Late: %d  Attendance: %s\n",
		rep.Total, rep.Present, rep.Absent, rep.Late, percent(rep.Percentage))
	printRecords(a, rep.Records)
	return nil
}
