// Package middleware holds the HTTP middleware of the stand-in API.
package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS lets a browser admin panel served from another origin call the API.
// With no origins every origin is allowed; credentials travel as bearer
// tokens, never cookies.
func CORS(origins ...string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			"X-Request-Id",
		},
		ExposedHeaders: []string{"Location", "X-Request-Id"},
		MaxAge:         300,
	})
}
