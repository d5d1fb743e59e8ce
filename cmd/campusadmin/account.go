package main

import (
	"context"
	"fmt"

	"github.com/janisto/campus-admin/internal/service/account"
	"github.com/janisto/campus-admin/internal/view"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := a.flags("login")
	email := fs.String("email", "", "account email (prompted when empty)")
	password := fs.String("password", "", "account password (prompted when empty)")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	creds := account.Credentials{Email: *email, Password: *password}
	if err := a.ask(&creds.Email, "Email: "); err != nil {
		return err
	}
	if err := a.ask(&creds.Password, "Password: "); err != nil {
		return err
	}

	var user *account.User
	err := a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			user, err = a.session.Login(ctx, creds)
			return err
		},
		Success: "Login successful",
		Failure: "Login failed",
	})
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := a.flags("register")
	name := fs.String("name", "", "display name (prompted when empty)")
	email := fs.String("email", "", "account email (prompted when empty)")
	password := fs.String("password", "", "at least 6 characters (prompted when empty)")
	role := fs.String("role", string(account.RoleAdmin), "admin or teacher")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	reg := account.Registration{Name: *name, Email: *email, Password: *password, Role: account.Role(*role)}
	for _, f := range []struct {
		dst   *string
		label string
	}{
		{&reg.Name, "Name: "},
		{&reg.Email, "Email: "},
		{&reg.Password, "Password: "},
	} {
		if err := a.ask(f.dst, f.label); err != nil {
			return err
		}
	}

	var user *account.User
	err := a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			user, err = a.session.Register(ctx, reg)
			return err
		},
		Success: "Registration successful",
		Failure: "Registration failed",
	})
	if err != nil {
		return err
	}
	printUser(a, user)
	return nil
}

func cmdLogout(_ context.Context, a *app, args []string) error {
	if _, err := parse(a.flags("logout"), args); err != nil {
		return err
	}
	if err := a.session.Logout(); err != nil {
		return err
	}
	a.notifier.Success("Logged out")
	return nil
}

func cmdWhoami(_ context.Context, a *app, args []string) error {
	if _, err := parse(a.flags("whoami"), args); err != nil {
		return err
	}
	printUser(a, a.session.User())
	return nil
}

// ask prompts for *dst when it is empty.
func (a *app) ask(dst *string, label string) error {
	if *dst != "" {
		return nil
	}
	v, err := a.prompt(label)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}

func printUser(a *app, u *account.User) {
	if u == nil {
		return
	}
	_, _ = fmt.Fprintf(a.out, "%s <%s> (%s)\n", u.Name, u.Email, u.Role)
}
