package students

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/respond"
	"github.com/janisto/campus-admin/internal/service/account"
	studentsvc "github.com/janisto/campus-admin/internal/service/students"
)

// Register registers student endpoints. Reads are open to any signed-in
// user; writes are admin only.
func Register(api huma.API, svc studentsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-students",
		Method:      http.MethodGet,
		Path:        "/students",
		Summary:     "List students",
		Description: "Returns one page of students, newest first, optionally filtered by name, email or roll number.",
		Tags:        []string{"Students"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *ListInput) (*respond.Body[studentsvc.ListResult], error) {
		res, err := svc.List(ctx, input.Params)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load students")
		}
		return respond.Success(*res), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-student",
		Method:      http.MethodGet,
		Path:        "/students/{id}",
		Summary:     "Get a student",
		Tags:        []string{"Students"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *IDInput) (*respond.Body[studentsvc.Student], error) {
		s, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load student")
		}
		return respond.Success(*s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "create-student",
		Method:        http.MethodPost,
		Path:          "/students",
		Summary:       "Create a student",
		Tags:          []string{"Students"},
		DefaultStatus: http.StatusCreated,
		Security:      auth.Bearer,
		Metadata:      auth.Roles(account.RoleAdmin),
	}, func(ctx context.Context, input *CreateInput) (*respond.Created[studentsvc.Student], error) {
		s, err := svc.Create(ctx, input.Body)
		if err != nil {
			audit(ctx, "create", "", "failure")
			return nil, respond.FromService(ctx, err, "Failed to create student")
		}
		audit(ctx, "create", s.ID, "success")
		return respond.NewCreated("/students/"+s.ID, *s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-student",
		Method:      http.MethodPut,
		Path:        "/students/{id}",
		Summary:     "Update a student",
		Tags:        []string{"Students"},
		Security:    auth.Bearer,
		Metadata:    auth.Roles(account.RoleAdmin),
	}, func(ctx context.Context, input *UpdateInput) (*respond.Body[studentsvc.Student], error) {
		s, err := svc.Update(ctx, input.ID, input.Body)
		if err != nil {
			audit(ctx, "update", input.ID, "failure")
			return nil, respond.FromService(ctx, err, "Failed to update student")
		}
		audit(ctx, "update", s.ID, "success")
		return respond.Success(*s), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-student",
		Method:      http.MethodDelete,
		Path:        "/students/{id}",
		Summary:     "Delete a student",
		Tags:        []string{"Students"},
		Security:    auth.Bearer,
		Metadata:    auth.Roles(account.RoleAdmin),
	}, func(ctx context.Context, input *IDInput) (*respond.Message, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			audit(ctx, "delete", input.ID, "failure")
			return nil, respond.FromService(ctx, err, "Failed to delete student")
		}
		audit(ctx, "delete", input.ID, "success")
		return respond.Ack("Student removed"), nil
	})
}

func audit(ctx context.Context, action, id, result string) {
	logging.LogAuditEvent(ctx, logging.AuditEvent{
		Action:     action,
		Actor:      auth.ActorID(ctx),
		Resource:   "student",
		ResourceID: id,
		Result:     result,
	})
}
