package dashboard

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/grades"
	"github.com/janisto/campus-admin/internal/service/students"
)

const (
	recentStudents = 5
	courseFetchers = 4
)

// Aggregator computes Stats from the resource services. The stand-in API
// serves it on GET /dashboard/stats.
type Aggregator struct {
	students   students.Service
	courses    courses.Service
	attendance attendance.Service
	grades     grades.Service
	today      func() timeutil.Date
}

// NewAggregator creates an Aggregator over the given services.
func NewAggregator(st students.Service, co courses.Service, at attendance.Service, gr grades.Service) *Aggregator {
	return &Aggregator{
		students:   st,
		courses:    co,
		attendance: at,
		grades:     gr,
		today:      timeutil.Today,
	}
}

// Stats gathers the students, courses, attendance and grade figures concurrently.
func (a *Aggregator) Stats(ctx context.Context) (*Stats, error) {
	var out Stats
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		totals, recent, err := a.studentFigures(ctx)
		if err != nil {
			return fmt.Errorf("student totals: %w", err)
		}
		out.Students = totals
		out.RecentStudents = recent
		return nil
	})

	g.Go(func() error {
		list, err := a.courses.List(ctx)
		if err != nil {
			return fmt.Errorf("course totals: %w", err)
		}
		out.Courses = Totals{Total: len(list)}
		for _, c := range list {
			if c.IsActive {
				out.Courses.Active++
			}
		}
		dist, err := a.gradeDistribution(ctx, list)
		if err != nil {
			return fmt.Errorf("grade distribution: %w", err)
		}
		out.GradeDistribution = dist
		return nil
	})

	g.Go(func() error {
		records, err := a.attendance.List(ctx, attendance.Filter{Date: a.today()})
		if err != nil {
			return fmt.Errorf("today's attendance: %w", err)
		}
		for _, r := range records {
			out.TodayAttendance.Add(r.Status)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}

// studentFigures walks every page of students. The first page is newest first
// and supplies the recent list.
func (a *Aggregator) studentFigures(ctx context.Context) (Totals, []students.Student, error) {
	var (
		totals Totals
		recent []students.Student
	)
	params := pagination.Params{Page: 1, Limit: pagination.MaxLimit}
	for {
		res, err := a.students.List(ctx, params)
		if err != nil {
			return Totals{}, nil, err
		}
		if params.Page == 1 {
			totals.Total = res.Pagination.Total
			recent = slices.Clone(res.Students[:min(recentStudents, len(res.Students))])
		}
		for _, s := range res.Students {
			if s.IsActive {
				totals.Active++
			}
		}
		if params.Page >= res.Pagination.Pages {
			break
		}
		params = params.WithPage(params.Page + 1)
	}
	if recent == nil {
		recent = []students.Student{}
	}
	return totals, recent, nil
}

func (a *Aggregator) gradeDistribution(ctx context.Context, list []courses.Course) ([]GradeBucket, error) {
	var (
		mu     sync.Mutex
		counts = map[string]int{}
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(courseFetchers)
	for _, c := range list {
		g.Go(func() error {
			gs, err := a.grades.ForCourse(ctx, c.ID)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			for _, gr := range gs {
				if gr.Grade != "" {
					counts[gr.Grade]++
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]GradeBucket, 0, len(counts))
	for _, letter := range grades.Letters() {
		if n := counts[letter]; n > 0 {
			out = append(out, GradeBucket{Grade: letter, Count: n, Color: grades.LetterColor(letter)})
			delete(counts, letter)
		}
	}
	rest := make([]string, 0, len(counts))
	for letter := range counts {
		rest = append(rest, letter)
	}
	slices.Sort(rest)
	for _, letter := range rest {
		out = append(out, GradeBucket{Grade: letter, Count: counts[letter], Color: grades.LetterColor(letter)})
	}
	return out, nil
}

// Compile-time interface check
var _ Service = (*Aggregator)(nil)
