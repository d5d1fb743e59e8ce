package health

import (
	"net/http"

	"github.com/janisto/campus-admin/internal/api"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/platform/respond"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// Handler reports liveness outside of huma so probes skip auth and docs.
func Handler(version string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := api.NewSuccessEnvelope(Response{Status: "healthy", Version: version})
		if err := respond.Write(w, http.StatusOK, env); err != nil {
			logging.LogError(r.Context(), "failed to render health", err)
		}
	}
}
