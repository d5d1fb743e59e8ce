package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/account"
	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/dashboard"
	"github.com/janisto/campus-admin/internal/service/grades"
	"github.com/janisto/campus-admin/internal/service/students"
)

type harness struct {
	srv     *httptest.Server
	backend *Backend
}

func newHarness(t *testing.T) harness {
	t.Helper()
	b := NewBackend()
	srv := httptest.NewServer(NewRouter(b, Options{Version: "test"}))
	t.Cleanup(srv.Close)
	return harness{srv: srv, backend: b}
}

// signIn registers a user of role and returns a transport carrying its token.
func (h harness) signIn(t *testing.T, role account.Role, format apiclient.Format) *apiclient.Client {
	t.Helper()
	store := auth.NewMemoryStore("")
	api := apiclient.NewClient(h.srv.Client(),
		apiclient.WithBaseURL(h.srv.URL+"/api"),
		apiclient.WithTokenSource(store),
		apiclient.WithFormat(format),
	)
	sess := auth.NewSession(store, account.NewClient(api))
	_, err := sess.Register(context.Background(), account.Registration{
		Name:     string(role),
		Email:    fmt.Sprintf("%s-%s@example.com", role, format),
		Password: "secret1",
		Role:     role,
	})
	if err != nil {
		t.Fatalf("register %s: %v", role, err)
	}
	return api
}

func studentInput(n int) students.Input {
	return students.Input{
		FirstName:  "Student",
		LastName:   fmt.Sprint(n),
		Email:      fmt.Sprintf("s%d@example.com", n),
		RollNumber: fmt.Sprintf("R-%03d", n),
		Class:      "10",
	}
}

func TestHealth(t *testing.T) {
	h := newHarness(t)
	resp, err := h.srv.Client().Get(h.srv.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	h := newHarness(t)
	resp, err := h.srv.Client().Get(h.srv.URL + "/nope")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()
	var env struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound || env.Success || env.Message == "" {
		t.Fatalf("unexpected response: %d %+v", resp.StatusCode, env)
	}
}

func TestUnauthenticatedRequestIsRejected(t *testing.T) {
	h := newHarness(t)
	api := apiclient.NewClient(h.srv.Client(), apiclient.WithBaseURL(h.srv.URL+"/api"))
	_, err := students.NewClient(api).List(context.Background(), pagination.Params{})
	if !errors.Is(err, apperr.ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if got := apperr.Message(err, "x"); got != "Not authorized, no token" {
		t.Fatalf("unexpected message: %q", got)
	}
}

func TestStudentsPaginateAndSearch(t *testing.T) {
	h := newHarness(t)
	api := h.signIn(t, account.RoleAdmin, apiclient.FormatJSON)
	svc := students.NewClient(api)
	ctx := context.Background()

	for i := range 23 {
		if _, err := svc.Create(ctx, studentInput(i)); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	res, err := svc.List(ctx, pagination.Params{Page: 3, Limit: 10})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if res.Pagination.Total != 23 || res.Pagination.Pages != 3 || len(res.Students) != 3 {
		t.Fatalf("unexpected page: %+v (%d items)", res.Pagination, len(res.Students))
	}

	res, err = svc.List(ctx, pagination.Params{Page: 1, Limit: 10, Search: "r-007"})
	if err != nil {
		t.Fatalf("search failed: %v", err)
	}
	if res.Pagination.Total != 1 || res.Students[0].RollNumber != "R-007" {
		t.Fatalf("unexpected search result: %+v", res.Students)
	}

	_, err = svc.Create(ctx, studentInput(7))
	if !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("expected conflict for duplicate, got %v", err)
	}
}

func TestTeacherCannotDeleteStudents(t *testing.T) {
	h := newHarness(t)
	admin := students.NewClient(h.signIn(t, account.RoleAdmin, apiclient.FormatJSON))
	teacher := students.NewClient(h.signIn(t, account.RoleTeacher, apiclient.FormatJSON))
	ctx := context.Background()

	s, err := admin.Create(ctx, studentInput(1))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if err := teacher.Delete(ctx, s.ID); !errors.Is(err, apperr.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
	if _, err := teacher.Get(ctx, s.ID); err != nil {
		t.Fatalf("teacher should read students, got %v", err)
	}
	if err := admin.Delete(ctx, s.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}
	if _, err := admin.Get(ctx, s.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected not found after delete, got %v", err)
	}
}

func TestCourseAttendanceGradesFlow(t *testing.T) {
	for _, format := range []apiclient.Format{apiclient.FormatJSON, apiclient.FormatCBOR} {
		t.Run(string(format), func(t *testing.T) {
			h := newHarness(t)
			api := h.signIn(t, account.RoleAdmin, format)
			ctx := context.Background()

			st := students.NewClient(api)
			co := courses.NewClient(api)
			at := attendance.NewClient(api)
			gr := grades.NewClient(api)

			var ids []string
			for i := range 3 {
				s, err := st.Create(ctx, studentInput(i))
				if err != nil {
					t.Fatalf("create student: %v", err)
				}
				ids = append(ids, s.ID)
			}

			c, err := co.Create(ctx, courses.Input{Name: "Physics", Code: "phy101", Credits: 4})
			if err != nil {
				t.Fatalf("create course: %v", err)
			}
			if c.Code != "PHY101" {
				t.Fatalf("expected upper-cased code, got %q", c.Code)
			}
			for _, id := range ids {
				if _, err := co.Enroll(ctx, c.ID, id); err != nil {
					t.Fatalf("enroll: %v", err)
				}
			}
			if _, err := co.Enroll(ctx, c.ID, ids[0]); !errors.Is(err, apperr.ErrConflict) {
				t.Fatalf("expected conflict on double enroll, got %v", err)
			}

			got, err := co.Get(ctx, c.ID)
			if err != nil {
				t.Fatalf("get course: %v", err)
			}
			if len(got.Students) != 3 || !got.Students[0].IsExpanded() {
				t.Fatalf("expected expanded students, got %+v", got.Students)
			}

			day := timeutil.Date("2024-03-04")
			roster := attendance.NewRoster(*got, day)
			if err := roster.SetStatus(ids[1], attendance.StatusLate); err != nil {
				t.Fatalf("set status: %v", err)
			}
			if _, err := roster.Submit(ctx, at); err != nil {
				t.Fatalf("submit roster: %v", err)
			}
			records, err := at.List(ctx, attendance.Filter{Course: c.ID, Date: day})
			if err != nil {
				t.Fatalf("list attendance: %v", err)
			}
			if len(records) != 3 {
				t.Fatalf("expected 3 records, got %d", len(records))
			}
			rep, err := at.Report(ctx, ids[1])
			if err != nil {
				t.Fatalf("report: %v", err)
			}
			if rep.Late != 1 || rep.Percentage != 100 {
				t.Fatalf("unexpected report: %+v", rep)
			}

			g, err := gr.Add(ctx, grades.Input{Student: ids[0], Course: c.ID, ExamType: grades.ExamFinal, Marks: 45, TotalMarks: 50})
			if err != nil {
				t.Fatalf("add grade: %v", err)
			}
			if g.Grade != "A+" {
				t.Fatalf("expected A+ for 90%%, got %q", g.Grade)
			}
			_, err = gr.Add(ctx, grades.Input{Student: ids[0], Course: c.ID, ExamType: grades.ExamQuiz, Marks: 60, TotalMarks: 50})
			var ve *apperr.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected client-side validation error, got %v", err)
			}

			card, err := gr.ReportCard(ctx, ids[0])
			if err != nil {
				t.Fatalf("report card: %v", err)
			}
			if card.AveragePercentage != 90 || len(card.Grades) != 1 {
				t.Fatalf("unexpected report card: %+v", card)
			}

			stats, err := dashboard.NewClient(api).Stats(ctx)
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.Students.Total != 3 || stats.Courses.Total != 1 || stats.TotalGrades() != 1 {
				t.Fatalf("unexpected stats: %+v", stats)
			}
		})
	}
}

func TestSeedAdmin(t *testing.T) {
	b := NewBackend()
	ctx := context.Background()
	if err := b.SeedAdmin(ctx, "Admin", "", ""); err != nil {
		t.Fatalf("empty seed should be skipped, got %v", err)
	}
	if err := b.SeedAdmin(ctx, "Admin", "admin@example.com", "secret1"); err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	res, err := b.Accounts.Login(ctx, account.Credentials{Email: "admin@example.com", Password: "secret1"})
	if err != nil || !res.User.IsAdmin() {
		t.Fatalf("expected seeded admin login, got %+v, %v", res, err)
	}
}
