// Package validate runs the client-side field checks that gate a submission.
// Rules are declared with `validate` struct tags and failures are reported as
// *apperr.ValidationError keyed by JSON field name.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/janisto/campus-admin/internal/apperr"
	"github.com/janisto/campus-admin/internal/platform/timeutil"
)

var (
	once     sync.Once
	instance *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		_ = v.RegisterValidation("isodate", isoDate)
		instance = v
	})
	return instance
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	switch name {
	case "-":
		return ""
	case "":
		return f.Name
	default:
		return name
	}
}

var isoDate validator.Func = func(fl validator.FieldLevel) bool {
	s := fl.Field().String()
	if s == "" {
		return true
	}
	_, err := timeutil.ParseDate(s)
	return err == nil
}

// Struct validates s and returns *apperr.ValidationError listing every failed
// field, or nil.
func Struct(s any) error {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	issues := make([]apperr.FieldIssue, 0, len(verrs))
	for _, fe := range verrs {
		issues = append(issues, apperr.FieldIssue{Field: fieldPath(fe), Issue: describe(fe)})
	}
	return &apperr.ValidationError{Fields: issues}
}

// fieldPath drops the root struct name from the namespace so nested fields
// read as records[0].status.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + strings.Join(strings.Fields(param), ", ")
	case "min":
		if fe.Kind() == reflect.String {
			return "must be at least " + param + " characters"
		}
		if fe.Kind() == reflect.Slice {
			return "must contain at least " + param + " entries"
		}
		return "must be at least " + param
	case "gte":
		return "must be at least " + param
	case "gt":
		return "must be greater than " + param
	case "lte", "max":
		return "must be at most " + param
	case "ltefield":
		return "must not exceed " + lowerFirst(param)
	case "isodate":
		return "must be a date in YYYY-MM-DD form"
	default:
		return "is invalid"
	}
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
