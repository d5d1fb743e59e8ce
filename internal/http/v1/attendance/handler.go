package attendance

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/respond"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/account"
	attendancesvc "github.com/janisto/campus-admin/internal/service/attendance"
)

// Register registers attendance endpoints.
func Register(api huma.API, svc attendancesvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "list-attendance",
		Method:      http.MethodGet,
		Path:        "/attendance",
		Summary:     "List attendance records",
		Tags:        []string{"Attendance"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *ListInput) (*respond.Body[[]attendancesvc.Record], error) {
		f := attendancesvc.Filter{Course: input.Course, Student: input.Student}
		if input.Date != "" {
			d, err := timeutil.ParseDate(input.Date)
			if err != nil {
				return nil, huma.Error400BadRequest("date must be a date in YYYY-MM-DD form")
			}
			f.Date = d
		}
		records, err := svc.List(ctx, f)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load attendance")
		}
		return respond.Success(records), nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "mark-attendance",
		Method:        http.MethodPost,
		Path:          "/attendance",
		Summary:       "Mark attendance",
		Description:   "Stores one mark per record. A student marked twice on the same day and course keeps the latest status.",
		Tags:          []string{"Attendance"},
		DefaultStatus: http.StatusCreated,
		Security:      auth.Bearer,
		Metadata:      auth.Roles(account.RoleAdmin, account.RoleTeacher),
	}, func(ctx context.Context, input *MarkInput) (*respond.Body[[]attendancesvc.Record], error) {
		records, err := svc.Mark(ctx, input.Body.Records)
		ev := logging.AuditEvent{
			Action:   "mark",
			Actor:    auth.ActorID(ctx),
			Resource: "attendance",
			Result:   "success",
			Details:  map[string]any{"count": len(input.Body.Records)},
		}
		if err != nil {
			ev.Result = "failure"
			logging.LogAuditEvent(ctx, ev)
			return nil, respond.FromService(ctx, err, "Failed to save attendance")
		}
		logging.LogAuditEvent(ctx, ev)
		return respond.Success(records), nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "attendance-report",
		Method:      http.MethodGet,
		Path:        "/attendance/report/{studentId}",
		Summary:     "Attendance report for a student",
		Tags:        []string{"Attendance"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, input *ReportInput) (*respond.Body[attendancesvc.Report], error) {
		rep, err := svc.Report(ctx, input.StudentID)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load attendance report")
		}
		return respond.Success(*rep), nil
	})
}
