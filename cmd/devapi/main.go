// Command devapi serves the student management REST API from memory so the
// admin client can be exercised end to end.
package main

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/http/v1/routes"
	"github.com/janisto/campus-admin/internal/platform/config"
	"github.com/janisto/campus-admin/internal/platform/logging"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

func main() {
	defer func() {
		if err := logging.Sync(); err != nil {
			logging.LogError(context.Background(), "logger sync error", err)
		}
	}()

	cfg, err := config.LoadServer(".env")
	if err != nil {
		logging.LogFatal(context.Background(), "config error", err)
	}
	if err := logging.Configure("stdout", cfg.LogLevel); err != nil {
		logging.LogFatal(context.Background(), "logger config error", err)
	}
	if err := logging.Err(); err != nil {
		logging.LogError(context.Background(), "logger init error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, nil); err != nil {
		logging.LogError(context.Background(), "server failed", err)
		os.Exit(1)
	}
	logging.LogInfo(context.Background(), "server exited")
}

// newServer seeds the backend and builds the HTTP server.
func newServer(ctx context.Context, cfg *config.Server) (*http.Server, error) {
	backend := routes.NewBackend()
	if err := backend.SeedAdmin(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return nil, err
	}
	if cfg.AdminEmail != "" {
		logging.LogInfo(ctx, "seeded admin account", zap.String("email", cfg.AdminEmail))
	}

	handler := routes.NewRouter(backend, routes.Options{
		Version:  Version,
		AuthPath: cfg.AuthPath,
		Origins:  cfg.Origins,
	})
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handler,
		ReadTimeout:       5 * time.Second,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    64 << 10,
	}, nil
}

// run serves until ctx is done, then shuts down gracefully. A nil listener
// listens on the configured port.
func run(ctx context.Context, cfg *config.Server, ln net.Listener) error {
	srv, err := newServer(ctx, cfg)
	if err != nil {
		return err
	}
	if ln == nil {
		if ln, err = net.Listen("tcp", srv.Addr); err != nil {
			return err
		}
	}

	listenErr := make(chan error, 1)
	go func() {
		logging.LogInfo(ctx, "server listening", zap.String("addr", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			listenErr <- err
		}
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
		logging.LogInfo(context.Background(), "shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
