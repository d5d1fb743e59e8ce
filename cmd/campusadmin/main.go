// Command campusadmin is the terminal admin panel for the student management
// API: students, courses, attendance, grades and the dashboard overview.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/config"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/view"
)

// Version can be overridden at build time: -ldflags "-X main.Version=1.2.3"
var Version = "dev"

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	_ = logging.Sync()
	os.Exit(code)
}

// run parses global flags, loads configuration and dispatches the command
// named by the remaining arguments.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := pflag.NewFlagSet("campusadmin", pflag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.SetInterspersed(false)
	config.RegisterFlags(fs)
	envFile := fs.String("env-file", ".env", "optional dotenv file to load")
	showVersion := fs.Bool("version", false, "print the version and exit")
	fs.Usage = func() { usage(stderr, fs) }

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if *showVersion {
		_, _ = fmt.Fprintln(stdout, "campusadmin", Version)
		return exitOK
	}

	cfg, err := config.Load(fs, *envFile)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitUsage
	}
	if err := logging.Configure("stderr", cfg.LogLevel); err != nil {
		_, _ = fmt.Fprintf(stderr, "config error: %v\n", err)
		return exitUsage
	}

	a := newApp(cfg, &http.Client{Timeout: cfg.Timeout}, stdin, stdout, stderr)
	err = a.dispatch(ctx, fs.Args())
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errUsage):
		if msg := err.Error(); msg != errUsage.Error() {
			_, _ = fmt.Fprintln(stderr, msg)
		}
		usage(stderr, fs)
		return exitUsage
	case errors.Is(err, view.ErrCanceled):
		_, _ = fmt.Fprintln(stderr, "canceled")
		return exitError
	}

	// Controllers and the coordinator already notified the user.
	var n notified
	if !errors.As(err, &n) {
		_, _ = fmt.Fprintf(stderr, "error: %s\n", apperr.Message(err, err.Error()))
	}
	logging.LogDebug(ctx, "command failed", zap.Error(err))
	return exitError
}

func usage(w io.Writer, fs *pflag.FlagSet) {
	_, _ = fmt.Fprintln(w, "Usage: campusadmin [flags] <command> [args]")
	_, _ = fmt.Fprintln(w, "\nCommands:")
	for _, c := range commands() {
		if len(c.sub) == 0 {
			_, _ = fmt.Fprintf(w, "  %-28s %s\n", c.name, c.summary)
			continue
		}
		for _, s := range c.sub {
			_, _ = fmt.Fprintf(w, "  %-28s %s\n", c.name+" "+s.name, s.summary)
		}
	}
	_, _ = fmt.Fprintln(w, "\nFlags:")
	_, _ = fmt.Fprint(w, fs.FlagUsages())
}
