// Package routes assembles the stand-in API: in-memory services, middleware
// and every versioned endpoint.
package routes

import (
	"context"
	"net/http"
	"path"
	"reflect"
	"strings"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	_ "github.com/danielgtaylor/huma/v2/formats/cbor"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/janisto/campus-admin/internal/http/health"
	accounthandler "github.com/janisto/campus-admin/internal/http/v1/account"
	attendancehandler "github.com/janisto/campus-admin/internal/http/v1/attendance"
	courseshandler "github.com/janisto/campus-admin/internal/http/v1/courses"
	dashboardhandler "github.com/janisto/campus-admin/internal/http/v1/dashboard"
	gradeshandler "github.com/janisto/campus-admin/internal/http/v1/grades"
	studentshandler "github.com/janisto/campus-admin/internal/http/v1/students"
	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/logging"
	appmiddleware "github.com/janisto/campus-admin/internal/platform/middleware"
	"github.com/janisto/campus-admin/internal/platform/respond"
	"github.com/janisto/campus-admin/internal/service/account"
	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/dashboard"
	"github.com/janisto/campus-admin/internal/service/grades"
	"github.com/janisto/campus-admin/internal/service/students"
)

// Backend holds the in-memory services behind the API.
type Backend struct {
	Accounts   *account.MockStore
	Students   *students.MockService
	Courses    *courses.MockService
	Attendance *attendance.MockService
	Grades     *grades.MockService
	Dashboard  *dashboard.Aggregator
}

// NewBackend wires empty in-memory services so that courses, attendance and
// grades resolve students and courses the way the real API populates them.
func NewBackend() *Backend {
	st := students.NewMockService()
	co := courses.NewMockService(st)
	at := attendance.NewMockService(st)
	gr := grades.NewMockService(st, co)
	return &Backend{
		Accounts:   account.NewMockStore(),
		Students:   st,
		Courses:    co,
		Attendance: at,
		Grades:     gr,
		Dashboard:  dashboard.NewAggregator(st, co, at, gr),
	}
}

// SeedAdmin registers an admin account unless email is empty.
func (b *Backend) SeedAdmin(ctx context.Context, name, email, password string) error {
	if email == "" {
		return nil
	}
	_, err := b.Accounts.Register(ctx, account.Registration{
		Name:     name,
		Email:    email,
		Password: password,
		Role:     account.RoleAdmin,
	})
	return err
}

// Options configure NewRouter.
type Options struct {
	Version string
	// Prefix mounts the API, "/api" by default.
	Prefix string
	// AuthPath is the auth route group inside the prefix, "/auth" by default.
	AuthPath string
	// Origins restricts CORS; empty allows all.
	Origins []string
}

// Register wires every endpoint into api.
func Register(api huma.API, b *Backend, authPath string) {
	api.UseMiddleware(auth.NewAuthMiddleware(api, b.Accounts))

	accounthandler.Register(api, b.Accounts, authPath)
	studentshandler.Register(api, b.Students)
	courseshandler.Register(api, b.Courses)
	attendancehandler.Register(api, b.Attendance)
	gradeshandler.Register(api, b.Grades)
	dashboardhandler.Register(api, b.Dashboard)
}

// NewRouter builds the complete HTTP handler: base middleware, /health and
// the huma API under the prefix.
func NewRouter(b *Backend, opts Options) http.Handler {
	if opts.Prefix == "" {
		opts.Prefix = "/api"
	}
	if opts.AuthPath == "" {
		opts.AuthPath = account.DefaultAuthPath
	}
	respond.Install()

	router := chi.NewRouter()
	router.NotFound(respond.NotFoundHandler())
	router.MethodNotAllowed(respond.MethodNotAllowedHandler())
	router.Use(
		appmiddleware.Security(opts.Prefix+"/docs", opts.Prefix+"/openapi"),
		appmiddleware.Vary(),
		appmiddleware.CORS(opts.Origins...),
		appmiddleware.RequestID(),
		chimiddleware.RequestSize(1<<20),
		logging.RequestLogger(),
		logging.AccessLogger(),
		respond.Recoverer(),
	)
	router.Get("/health", health.Handler(opts.Version))

	router.Route(opts.Prefix, func(r chi.Router) {
		cfg := huma.DefaultConfig("Campus Admin API", opts.Version)
		cfg.Servers = []*huma.Server{{URL: opts.Prefix}}
		cfg.Components.Schemas = huma.NewMapRegistry("#/components/schemas/", uniqueSchemaNames())
		cfg.Components.SecuritySchemes = map[string]*huma.SecurityScheme{
			"bearer": {Type: "http", Scheme: "bearer"},
		}
		api := humachi.New(r, cfg)
		Register(api, b, opts.AuthPath)
	})
	return router
}

// uniqueSchemaNames names schemas like huma does but prefixes the package
// name when a type name is already taken, e.g. the Input of students,
// courses and grades.
func uniqueSchemaNames() func(reflect.Type, string) string {
	var mu sync.Mutex
	byType := make(map[reflect.Type]string)
	taken := make(map[string]bool)
	return func(t reflect.Type, hint string) string {
		mu.Lock()
		defer mu.Unlock()
		if name, ok := byType[t]; ok {
			return name
		}
		name := huma.DefaultSchemaNamer(t, hint)
		if taken[name] {
			base := t
			for base.Kind() == reflect.Pointer || base.Kind() == reflect.Slice {
				base = base.Elem()
			}
			if pkg := path.Base(base.PkgPath()); pkg != "." && pkg != "" {
				name = strings.ToUpper(pkg[:1]) + pkg[1:] + name
			}
		}
		taken[name] = true
		byType[t] = name
		return name
	}
}
