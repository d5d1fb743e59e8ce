package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/janisto/campus-admin/internal/service/grades"
)

func cmdDashboard(ctx context.Context, a *app, args []string) error {
	if _, err := parse(a.flags("dashboard"), args); err != nil {
		return err
	}
	stats, err := a.dashboard.Stats(ctx)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintf(a.out, "Students: %d (%d active)\n", stats.Students.Total, stats.Students.Active)
	_, _ = fmt.Fprintf(a.out, "Courses:  %d (%d active)\n", stats.Courses.Total, stats.Courses.Active)
	ta := stats.TodayAttendance
	_, _ = fmt.Fprintf(a.out, "Today:    %d present, %d absent, %d late\n", ta.Present, ta.Absent, ta.Late)

	_, _ = fmt.Fprintf(a.out, "\nGrade distribution (%d grades)\n", stats.TotalGrades())
	if len(stats.GradeDistribution) == 0 {
		_, _ = fmt.Fprintln(a.out, "No grades recorded")
	} else {
		peak := stats.MaxGradeCount()
		t := newTable(a.out, "GRADE", "COUNT", "", "COLOR")
		for _, b := range stats.GradeDistribution {
			color := b.Color
			if color == "" {
				color = grades.LetterColor(b.Grade)
			}
			t.row(b.Grade, strconv.Itoa(b.Count), bar(b.Count, peak), color)
		}
		t.flush()
	}

	_, _ = fmt.Fprintln(a.out, "\nRecent students")
	if len(stats.RecentStudents) == 0 {
		_, _ = fmt.Fprintln(a.out, "No students yet")
		return nil
	}
	t := newTable(a.out, "ROLL", "NAME", "CLASS", "ADDED")
	for _, s := range stats.RecentStudents {
		t.row(s.RollNumber, s.FullName(), s.Class, s.CreatedAt.Format("2006-01-02"))
	}
	t.flush()
	return nil
}
