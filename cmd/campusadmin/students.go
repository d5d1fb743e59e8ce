package main

import (
	"context"
	"fmt"

	"github.com/spf13/pflag"

	"github.com/janisto/campus-admin/internal/platform/pagination"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
	"github.com/janisto/campus-admin/internal/service/students"
	"github.com/janisto/campus-admin/internal/view"
)

func cmdStudentsList(ctx context.Context, a *app, args []string) error {
	fs := a.flags("students list")
	page := fs.Int("page", 1, "page to show")
	limit := fs.Int("limit", a.cfg.PageSize, "students per page")
	search := fs.String("search", "", "match name, email or roll number")
	if _, err := parse(fs, args); err != nil {
		return err
	}

	list := view.NewListController("students", a.fetchStudents, a.notifier,
		view.WithQuery[students.Student](pagination.Params{Page: *page, Limit: *limit, Search: *search}))
	if err := list.Load(ctx); err != nil {
		return shown(err)
	}

	s := list.Snapshot()
	t := newTable(a.out, "ID", "ROLL", "NAME", "EMAIL", "CLASS", "ACTIVE")
	for _, st := range s.Items {
		class := st.Class
		if st.Section != "" {
			class += "-" + st.Section
		}
		t.row(st.ID, st.RollNumber, st.FullName(), st.Email, class, yesNo(st.IsActive))
	}
	t.flush()
	_, _ = fmt.Fprintln(a.out, pager(s.Pagination, "students"))
	return nil
}

func (a *app) fetchStudents(ctx context.Context, q pagination.Params) (*view.PageResult[students.Student], error) {
	res, err := a.students.List(ctx, q)
	if err != nil {
		return nil, err
	}
	return &view.PageResult[students.Student]{Items: res.Students, Meta: res.Pagination}, nil
}

func cmdStudentsShow(ctx context.Context, a *app, args []string) error {
	rest, err := parse(a.flags("students show"), args, "id")
	if err != nil {
		return err
	}
	st, err := a.students.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	printStudent(a, st)
	return nil
}

func printStudent(a *app, st *students.Student) {
	t := newTable(a.out, "FIELD", "VALUE")
	t.row("id", st.ID)
	t.row("name", st.FullName())
	t.row("email", st.Email)
	t.row("roll number", st.RollNumber)
	t.row("date of birth", st.DateOfBirth.String())
	t.row("gender", string(st.Gender))
	t.row("phone", st.Phone)
	t.row("address", st.Address)
	t.row("class", st.Class)
	t.row("section", st.Section)
	t.row("guardian", st.GuardianName)
	t.row("guardian phone", st.GuardianPhone)
	t.row("active", yesNo(st.IsActive))
	t.flush()
}

// studentForm binds the student form fields to flags.
type studentForm struct {
	fs *pflag.FlagSet

	firstName, lastName, email, roll          string
	dob, gender, phone, address               string
	class, section, guardianName, guardianTel string
	active                                    bool
}

func newStudentForm(fs *pflag.FlagSet) *studentForm {
	f := &studentForm{fs: fs}
	fs.StringVar(&f.firstName, "first-name", "", "first name")
	fs.StringVar(&f.lastName, "last-name", "", "last name")
	fs.StringVar(&f.email, "email", "", "email address")
	fs.StringVar(&f.roll, "roll", "", "roll number")
	fs.StringVar(&f.dob, "dob", "", "date of birth, YYYY-MM-DD")
	fs.StringVar(&f.gender, "gender", "", "male, female or other")
	fs.StringVar(&f.phone, "phone", "", "phone number")
	fs.StringVar(&f.address, "address", "", "postal address")
	fs.StringVar(&f.class, "class", "", "class")
	fs.StringVar(&f.section, "section", "", "section")
	fs.StringVar(&f.guardianName, "guardian-name", "", "guardian name")
	fs.StringVar(&f.guardianTel, "guardian-phone", "", "guardian phone")
	fs.BoolVar(&f.active, "active", true, "whether the student is active")
	return f
}

// apply copies the flags that were set onto in, leaving the rest untouched.
func (f *studentForm) apply(in *students.Input) {
	set := func(name string, dst *string, v string) {
		if f.fs.Changed(name) {
			*dst = v
		}
	}
	set("first-name", &in.FirstName, f.firstName)
	set("last-name", &in.LastName, f.lastName)
	set("email", &in.Email, f.email)
	set("roll", &in.RollNumber, f.roll)
	set("phone", &in.Phone, f.phone)
	set("address", &in.Address, f.address)
	set("class", &in.Class, f.class)
	set("section", &in.Section, f.section)
	set("guardian-name", &in.GuardianName, f.guardianName)
	set("guardian-phone", &in.GuardianPhone, f.guardianTel)
	if f.fs.Changed("dob") {
		in.DateOfBirth = timeutil.Date(f.dob)
	}
	if f.fs.Changed("gender") {
		in.Gender = students.Gender(f.gender)
	}
	if f.fs.Changed("active") {
		active := f.active
		in.IsActive = &active
	}
}

func cmdStudentsCreate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("students create")
	form := newStudentForm(fs)
	if _, err := parse(fs, args); err != nil {
		return err
	}
	if err := a.session.RequireAdmin(); err != nil {
		return err
	}

	var in students.Input
	form.apply(&in)
	var created *students.Student
	err := a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			created, err = a.students.Create(ctx, in)
			return err
		},
		Success: "Student added successfully",
		Failure: "Failed to save student",
	})
	if err != nil {
		return err
	}
	printStudent(a, created)
	return nil
}

func cmdStudentsUpdate(ctx context.Context, a *app, args []string) error {
	fs := a.flags("students update")
	form := newStudentForm(fs)
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if err := a.session.RequireAdmin(); err != nil {
		return err
	}

	current, err := a.students.Get(ctx, rest[0])
	if err != nil {
		return err
	}
	in := students.InputFrom(*current)
	form.apply(&in)

	var updated *students.Student
	err = a.mutate(ctx, view.Action{
		Do: func(ctx context.Context) (err error) {
			updated, err = a.students.Update(ctx, current.ID, in)
			return err
		},
		Success: "Student updated successfully",
		Failure: "Failed to save student",
	})
	if err != nil {
		return err
	}
	printStudent(a, updated)
	return nil
}

func cmdStudentsDelete(ctx context.Context, a *app, args []string) error {
	fs := a.flags("students delete")
	yes := fs.BoolP("yes", "y", false, "do not ask for confirmation")
	rest, err := parse(fs, args, "id")
	if err != nil {
		return err
	}
	if err := a.session.RequireAdmin(); err != nil {
		return err
	}

	id := rest[0]
	return a.remove(ctx, *yes, fmt.Sprintf("Delete student %s?", id), view.Action{
		Do:      func(ctx context.Context) error { return a.students.Delete(ctx, id) },
		Success: "Student deleted successfully",
	})
}
