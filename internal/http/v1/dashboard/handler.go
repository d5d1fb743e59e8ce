package dashboard

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/respond"
	dashboardsvc "github.com/janisto/campus-admin/internal/service/dashboard"
)

// Register registers the dashboard endpoint.
func Register(api huma.API, svc dashboardsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "dashboard-stats",
		Method:      http.MethodGet,
		Path:        "/dashboard/stats",
		Summary:     "Dashboard statistics",
		Description: "Totals, today's attendance, recent students and the grade distribution.",
		Tags:        []string{"Dashboard"},
		Security:    auth.Bearer,
	}, func(ctx context.Context, _ *struct{}) (*respond.Body[dashboardsvc.Stats], error) {
		stats, err := svc.Stats(ctx)
		if err != nil {
			return nil, respond.FromService(ctx, err, "Failed to load dashboard")
		}
		return respond.Success(*stats), nil
	})
}
