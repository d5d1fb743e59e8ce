package courses

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/respond"
	"github.com/janisto/campus-admin/internal/service/account"
	coursesvc "github.com/janisto/campus-admin/internal/service/courses"
)

var managers = auth.Roles(account.RoleAdmin, account.RoleTeacher)

// Register registers course and enrollment endpoints.
func Register(api huma.API, svc coursesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-courses",
		Method:      http.MethodGet,
		Path:        "/courses",
		Summary:     "List courses",
		Description: "Returns every course with enrolled students expanded.",
		Tags:        []string{"Courses"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, _ *struct{}) (*respond.Body[[]coursesvc.Course], error) {
		list, err := svc.List(ctx)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load courses")
		}
		return respond.Success(list), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-course",
		Method:      http.MethodGet,
		Path:        "/courses/{id}",
		Summary:     "Get a course",
		Tags:        []string{"Courses"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *IDInput) (*respond.Body[coursesvc.Course], error) {
		c, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load course")
		}
		return respond.Success(*c), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-course",
		Method:        http.MethodPost,
		Path:          "/courses",
		Summary:       "Create a course",
		Tags:          []string{"Courses"},
		DefaultStatus: http.StatusCreated,
		Security:      auth.Bearer,
		Metadata:      managers,
	}, func(ctx context.Context, input *CreateInput) (*respond.Created[coursesvc.Course], error) {
		c, err := svc.Create(ctx, input.Body)
		if err != nil {
			audit(ctx, "create", "", "failure", nil)
			return nil, respond.FromService(ctx, err, "Failed to create course")
		}
		audit(ctx, "create", c.ID, "success", nil)
		return respond.NewCreated("/courses/"+c.ID, *c), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-course",
		Method:      http.MethodPut,
		Path:        "/courses/{id}",
		Summary:     "Update a course",
		Tags:        []string{"Courses"},
		Security:    auth.Bearer,
		Metadata:    managers,
	}, func(ctx context.Context, input *UpdateInput) (*respond.Body[coursesvc.Course], error) {
		c, err := svc.Update(ctx, input.ID, input.Body)
		if err != nil {
			audit(ctx, "update", input.ID, "failure", nil)
			return nil, respond.FromService(ctx, err, "Failed to update course")
		}
		audit(ctx, "update", c.ID, "success", nil)
		return respond.Success(*c), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-course",
		Method:      http.MethodDelete,
		Path:        "/courses/{id}",
		Summary:     "Delete a course",
		Tags:        []string{"Courses"},
		Security:    auth.Bearer,
		Metadata:    auth.Roles(account.RoleAdmin),
	}, func(ctx context.Context, input *IDInput) (*respond.Message, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			audit(ctx, "delete", input.ID, "failure", nil)
			return nil, respond.FromService(ctx, err, "Failed to delete course")
		}
		audit(ctx, "delete", input.ID, "success", nil)
		return respond.Ack("Course removed"), nil
	})

	registerEnrollment(api, "enroll", "Enroll a student", svc.Enroll)
	registerEnrollment(api, "unenroll", "Unenroll a student", svc.Unenroll)
}

func registerEnrollment(api huma.API, action, summary string, apply func(context.Context, string, string) (*coursesvc.Course, error)) {
	huma.Register(api, huma.Operation{
		OperationID: action + "-student",
		Method:      http.MethodPost,
		Path:        "/courses/{id}/" + action,
		Summary:     summary,
		Tags:        []string{"Courses"},
		Security:    auth.Bearer,
		Metadata:    managers,
	}, func(ctx context.Context, input *EnrollmentInput) (*respond.Body[coursesvc.Course], error) {
		details := map[string]any{"student": input.Body.StudentID}
		c, err := apply(ctx, input.ID, input.Body.StudentID)
		if err != nil {
			audit(ctx, action, input.ID, "failure", details)
			return nil, respond.FromService(ctx, err, "Enrollment failed")
		}
		audit(ctx, action, c.ID, "success", details)
		return respond.Success(*c), nil
	})
}

func audit(ctx context.Context, action, id, result string, details map[string]any) {
	logging.LogAuditEvent(ctx, logging.AuditEvent{
		Action:     action,
		Actor:      auth.ActorID(ctx),
		Resource:   "course",
		ResourceID: id,
		Result:     result,
		Details:    details,
	})
}
