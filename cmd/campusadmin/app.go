package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/apiclient"
	"github.com/janisto/campus-admin/internal/platform/auth"
	"github.com/janisto/campus-admin/internal/platform/config"
	"github.com/janisto/campus-admin/internal/platform/logging"
	"github.com/janisto/campus-admin/internal/service/account"
	"github.com/janisto/campus-admin/internal/service/attendance"
	"github.com/janisto/campus-admin/internal/service/courses"
	"github.com/janisto/campus-admin/internal/service/dashboard"
	"github.com/janisto/campus-admin/internal/service/grades"
	"github.com/janisto/campus-admin/internal/service/students"
	"github.com/janisto/campus-admin/internal/view"
)

var errUsage = errors.New("invalid usage")

// notified marks an error the user has already been shown.
type notified struct{ err error }

func (n notified) Error() string { return n.err.Error() }
func (n notified) Unwrap() error { return n.err }

func shown(err error) error {
	if err == nil {
		return nil
	}
	return notified{err: err}
}

func usageErr(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), errUsage)
}

// app holds the per-invocation wiring shared by every command.
type app struct {
	cfg    *config.Config
	in     *bufio.Reader
	out    io.Writer
	errOut io.Writer

	notifier view.Notifier
	coord    *view.Coordinator
	store    *auth.FileStore
	session  *auth.Session

	students   students.Service
	courses    courses.Service
	attendance attendance.Service
	grades     grades.Service
	dashboard  dashboard.Service
}

func newApp(cfg *config.Config, httpClient *http.Client, stdin io.Reader, stdout, stderr io.Writer) *app {
	store := auth.NewFileStore(cfg.TokenFile)
	api := apiclient.NewClient(httpClient,
		apiclient.WithBaseURL(cfg.APIURL),
		apiclient.WithTokenSource(store),
		apiclient.WithFormat(cfg.Format),
		apiclient.WithUserAgent("campusadmin/"+Version),
	)
	notifier := view.NewWriterNotifier(stderr)
	return &app{
		cfg:        cfg,
		in:         bufio.NewReader(stdin),
		out:        stdout,
		errOut:     stderr,
		notifier:   notifier,
		coord:      view.NewCoordinator(notifier),
		store:      store,
		session:    auth.NewSession(store, account.NewClient(api, account.WithAuthPath(cfg.AuthPath))),
		students:   students.NewClient(api),
		courses:    courses.NewClient(api),
		attendance: attendance.NewClient(api),
		grades:     grades.NewClient(api),
		dashboard:  dashboard.NewClient(api),
	}
}

type command struct {
	name    string
	summary string
	// signedIn restores the stored session before run and refuses to run
	// without one.
	signedIn bool
	run      func(ctx context.Context, a *app, args []string) error
	sub      []command
}

func commands() []command {
	return []command{
		{name: "login", summary: "sign in and store the session token", run: cmdLogin},
		{name: "register", summary: "create an account and sign in", run: cmdRegister},
		{name: "logout", summary: "forget the stored session token", run: cmdLogout},
		{name: "whoami", summary: "show the signed-in user", signedIn: true, run: cmdWhoami},
		{name: "dashboard", summary: "show totals, attendance and grades", signedIn: true, run: cmdDashboard},
		{name: "students", sub: []command{
			{name: "list", summary: "list students page by page", signedIn: true, run: cmdStudentsList},
			{name: "show", summary: "show one student", signedIn: true, run: cmdStudentsShow},
			{name: "create", summary: "add a student (admin)", signedIn: true, run: cmdStudentsCreate},
			{name: "update", summary: "edit a student (admin)", signedIn: true, run: cmdStudentsUpdate},
			{name: "delete", summary: "remove a student (admin)", signedIn: true, run: cmdStudentsDelete},
		}},
		{name: "courses", sub: []command{
			{name: "list", summary: "list courses", signedIn: true, run: cmdCoursesList},
			{name: "show", summary: "show a course and its roster", signedIn: true, run: cmdCoursesShow},
			{name: "create", summary: "add a course (admin, teacher)", signedIn: true, run: cmdCoursesCreate},
			{name: "update", summary: "edit a course (admin, teacher)", signedIn: true, run: cmdCoursesUpdate},
			{name: "delete", summary: "remove a course (admin)", signedIn: true, run: cmdCoursesDelete},
			{name: "enroll", summary: "enroll a student in a course", signedIn: true, run: cmdCoursesEnroll},
			{name: "unenroll", summary: "remove a student from a course", signedIn: true, run: cmdCoursesUnenroll},
		}},
		{name: "attendance", sub: []command{
			{name: "list", summary: "list attendance marks", signedIn: true, run: cmdAttendanceList},
			{name: "mark", summary: "mark attendance for a course day", signedIn: true, run: cmdAttendanceMark},
			{name: "report", summary: "show a student's attendance report", signedIn: true, run: cmdAttendanceReport},
		}},
		{name: "grades", sub: []command{
			{name: "list", summary: "list grades of a student or course", signedIn: true, run: cmdGradesList},
			{name: "add", summary: "record a grade (admin, teacher)", signedIn: true, run: cmdGradesAdd},
			{name: "update", summary: "edit a grade (admin, teacher)", signedIn: true, run: cmdGradesUpdate},
			{name: "delete", summary: "remove a grade (admin)", signedIn: true, run: cmdGradesDelete},
			{name: "report-card", summary: "show a student's report card", signedIn: true, run: cmdGradesReportCard},
		}},
	}
}

func (a *app) dispatch(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, ok := find(commands(), args[0])
	if !ok {
		return usageErr("unknown command %q", args[0])
	}
	args = args[1:]
	var name string
	if len(cmd.sub) > 0 {
		name = cmd.name
		if len(args) == 0 {
			return usageErr("%s needs a subcommand", cmd.name)
		}
		sub, ok := find(cmd.sub, args[0])
		if !ok {
			return usageErr("unknown %s subcommand %q", cmd.name, args[0])
		}
		cmd, args = sub, args[1:]
	}
	ctx = logging.WithFields(ctx, zap.String("command", strings.TrimSpace(name+" "+cmd.name)))
	if cmd.signedIn {
		if err := a.restore(ctx); err != nil {
			return err
		}
	}
	return cmd.run(ctx, a, args)
}

func find(cmds []command, name string) (command, bool) {
	for _, c := range cmds {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

// restore revalidates the stored token. A rejected token has already been
// cleared by the session.
func (a *app) restore(ctx context.Context) error {
	if err := a.session.Init(ctx); err != nil {
		return err
	}
	if !a.session.IsAuthenticated() {
		return apperr.New(apperr.ErrUnauthorized, "Not signed in. Run 'campusadmin login' first")
	}
	return nil
}

// flags returns a flag set for a subcommand that reports errors on stderr.
func (a *app) flags(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(a.errOut)
	return fs
}

func parse(fs *pflag.FlagSet, args []string, positional ...string) ([]string, error) {
	if err := fs.Parse(args); err != nil {
		return nil, usageErr("%s: %v", fs.Name(), err)
	}
	rest := fs.Args()
	if len(rest) != len(positional) {
		if len(positional) == 0 {
			return nil, usageErr("%s takes no arguments", fs.Name())
		}
		return nil, usageErr("%s expects <%s>", fs.Name(), strings.Join(positional, "> <"))
	}
	return rest, nil
}

// prompt reads one line from stdin after printing label.
func (a *app) prompt(label string) (string, error) {
	_, _ = fmt.Fprint(a.errOut, label)
	line, err := a.in.ReadString('\n')
	if err != nil && (line == "" || !errors.Is(err, io.EOF)) {
		return "", fmt.Errorf("reading %s: %w", strings.TrimSuffix(strings.TrimSpace(label), ":"), err)
	}
	return strings.TrimSpace(line), nil
}

// confirmer asks on stdin unless yes is set.
func (a *app) confirmer(yes bool) view.Confirmer {
	if yes {
		return nil
	}
	return view.ConfirmFunc(func(prompt string) bool {
		answer, err := a.prompt(prompt + " [y/N]: ")
		if err != nil {
			return false
		}
		switch strings.ToLower(answer) {
		case "y", "yes":
			return true
		}
		return false
	})
}

// mutate runs action through the coordinator; failures are already notified.
func (a *app) mutate(ctx context.Context, action view.Action) error {
	return shown(a.coord.Run(ctx, action))
}

func (a *app) remove(ctx context.Context, yes bool, prompt string, action view.Action) error {
	err := a.coord.Delete(ctx, a.confirmer(yes), prompt, action)
	if errors.Is(err, view.ErrCanceled) {
		return err
	}
	return shown(err)
}
