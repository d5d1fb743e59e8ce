package grades

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/respond"
	"github.com/janisto/campus-admin/internal/service/account"
	gradesvc "github.com/janisto/campus-admin/internal/service/grades"
)

// Register registers grade endpoints. Teachers may record grades; only admins delete them.
func Register(api huma.API, svc gradesvc.Service) {
	managers := auth.Roles(account.RoleAdmin, account.RoleTeacher)

	huma.Register(api, huma.Operation{
		OperationID:   "add-grade",
		Method:        http.MethodPost,
		Path:          "/grades",
		Summary:       "Add a grade",
		Description:   "Records marks for an exam. The letter grade is derived from the percentage.",
		Tags:          []string{"Grades"},
		DefaultStatus: http.StatusCreated,
		Security:      auth.Bearer,
		Metadata:      managers,
	}, func(ctx context.Context, input *AddInput) (*respond.Created[gradesvc.Grade], error) {
		g, err := svc.Add(ctx, input.Body)
		if err != nil {
			audit(ctx, "create", "", "failure")
			return nil, respond.FromService(ctx, err, "Failed to add grade")
		}
		audit(ctx, "create", g.ID, "success")
		return respond.NewCreated("/grades/"+g.ID, *g), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-grade",
		Method:      http.MethodPut,
		Path:        "/grades/{id}",
		Summary:     "Update a grade",
		Tags:        []string{"Grades"},
		Security:    auth.Bearer,
		Metadata:    managers,
	}, func(ctx context.Context, input *UpdateInput) (*respond.Body[gradesvc.Grade], error) {
		g, err := svc.Update(ctx, input.ID, input.Body)
		if err != nil {
			audit(ctx, "update", input.ID, "failure")
			return nil, respond.FromService(ctx, err, "Failed to update grade")
		}
		audit(ctx, "update", g.ID, "success")
		return respond.Success(*g), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-grade",
		Method:      http.MethodDelete,
		Path:        "/grades/{id}",
		Summary:     "Delete a grade",
		Tags:        []string{"Grades"},
		Security:    auth.Bearer,
		Metadata:    auth.Roles(account.RoleAdmin),
	}, func(ctx context.Context, input *IDInput) (*respond.Message, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			audit(ctx, "delete", input.ID, "failure")
			return nil, respond.FromService(ctx, err, "Failed to delete grade")
		}
		audit(ctx, "delete", input.ID, "success")
		return respond.Ack("Grade removed"), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "student-grades",
		Method:      http.MethodGet,
		Path:        "/grades/student/{studentId}",
		Summary:     "Grades of a student",
		Tags:        []string{"Grades"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *StudentInput) (*respond.Body[[]gradesvc.Grade], error) {
		list, err := svc.ForStudent(ctx, input.StudentID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load grades")
		}
		return respond.Success(list), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "course-grades",
		Method:      http.MethodGet,
		Path:        "/grades/course/{courseId}",
		Summary:     "Grades in a course",
		Tags:        []string{"Grades"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *CourseInput) (*respond.Body[[]gradesvc.Grade], error) {
		list, err := svc.ForCourse(ctx, input.CourseID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load grades")
		}
		return respond.Success(list), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "report-card",
		Method:      http.MethodGet,
		Path:        "/grades/report-card/{studentId}",
		Summary:     "Report card of a student",
		Tags:        []string{"Grades"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *StudentInput) (*respond.Body[gradesvc.ReportCard], error) {
		rc, err := svc.ReportCard(ctx, input.StudentID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load report card")
		}
		return respond.Success(*rc), nil
	})
}

func audit(ctx context.Context, action, id, result string) {
	logging.LogAuditEvent(ctx, logging.AuditEvent{
		Action:     action,
		Actor:      auth.ActorID(ctx),
		Resource:   "grade",
		ResourceID: id,
		Result:     result,
	})
}
