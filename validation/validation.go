// Package validation checks request payloads with go-playground/validator and reports
// failures as errs.Issue lists keyed by JSON path.
package validation

import (
	"errors"
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"sync"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/rpupo63/portfolio-backend/errs"
)

const DateTimeLayout = "2006-01-02T15:04:05Z07:00"

var (
	once     sync.Once
	instance *validator.Validate
)

func validate() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(jsonName)
		mustRegister(v, "urlorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || isAbsoluteURL(s)
		})
		mustRegister(v, "urlorpath", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return s == "" || strings.HasPrefix(s, "/") || isAbsoluteURL(s)
		})
		mustRegister(v, "datetimeorempty", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			if s == "" {
				return true
			}
			_, err := time.Parse(fl.Param(), s)
			return err == nil
		})
		instance = v
	})
	return instance
}

func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("register %s validation: %v", tag, err))
	}
}

func jsonName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Struct validates v and returns an *errs.ApiErr listing every failed rule, or nil.
func Struct(v any) error {
	err := validate().Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errs.NewInternalErrorWithCause("Failed to validate request", err)
	}

	issues := make([]errs.Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, errs.Issue{Path: path(fe), Message: message(fe)})
	}
	return errs.NewValidationError(issues)
}

// path drops the root struct name from the namespace: "createProject.technologies[0]" -> "technologies[0]".
func path(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	kind := fe.Kind()
	if kind == reflect.Ptr {
		kind = fe.Type().Elem().Kind()
	}

	switch fe.Tag() {
	case "required":
		return label + " is required"
	case "min":
		switch kind {
		case reflect.String:
			return fmt.Sprintf("%s must be at least %s characters", label, fe.Param())
		case reflect.Slice:
			return fmt.Sprintf("At least %s %s required", fe.Param(), pluralize(fe.Param(), "item is", "items are"))
		default:
			if fe.Param() == "0" {
				return label + " must be non-negative"
			}
			return fmt.Sprintf("%s must be at least %s", label, fe.Param())
		}
	case "max":
		if kind == reflect.String {
			return fmt.Sprintf("%s must be less than %s characters", label, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", label, fe.Param())
	case "email":
		return "Must be a valid email"
	case "url":
		return "Must be a valid URL"
	case "urlorempty":
		return "Must be a valid URL or empty"
	case "urlorpath":
		return "Must be a valid URL or relative path"
	case "datetime", "datetimeorempty":
		return "Must be a valid date"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", label, strings.Join(strings.Fields(fe.Param()), ", "))
	}
	return fmt.Sprintf("%s failed the %s rule", label, fe.Tag())
}

func pluralize(n, one, many string) string {
	if n == "1" {
		return one
	}
	return many
}

// Label turns a JSON field name into a sentence label: "startDate" -> "Start date".
func Label(field string) string {
	if i := strings.IndexByte(field, '['); i >= 0 {
		field = field[:i]
	}
	var b strings.Builder
	for i, r := range field {
		switch {
		case i == 0:
			b.WriteRune(unicode.ToUpper(r))
		case unicode.IsUpper(r):
			b.WriteRune(' ')
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
