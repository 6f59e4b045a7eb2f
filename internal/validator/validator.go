// Package validator wraps go-playground/validator with field names taken
// from json (or yaml) tags and short, human-readable messages.
package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func get() *validator.Validate {
	once.Do(func() {
		validate = validator.New()
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			for _, key := range []string{"json", "yaml"} {
				name := strings.SplitN(fld.Tag.Get(key), ",", 2)[0]
				if name == "-" {
					return ""
				}
				if name != "" {
					return name
				}
			}
			return fld.Name
		})
	})
	return validate
}

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return check(get().Struct(s))
}

// OneOf checks that value is empty or one of enums.
func OneOf(value string, enums ...string) error {
	return check(get().Var(value, "omitempty,oneof="+strings.Join(enums, " ")))
}

func check(err error) error {
	if err == nil {
		return nil
	}
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return fmt.Errorf("validate: %w", err)
	}
	msgs := make([]string, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, message(e))
	}
	return errors.New(strings.Join(msgs, " and "))
}

func message(e validator.FieldError) string {
	name := e.Namespace()
	if i := strings.IndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", name)
	case "oneof":
		return fmt.Sprintf("value %q for %s not recognized, only support %q", fmt.Sprint(e.Value()), name, e.Param())
	case "gte", "min":
		return fmt.Sprintf("%s cannot be less than %s", name, e.Param())
	case "lte", "max":
		return fmt.Sprintf("%s cannot be greater than %s", name, e.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", name, e.Param())
	case "email":
		return fmt.Sprintf("%s must be a valid email", name)
	default:
		return fmt.Sprintf("%s failed %s validation", name, e.Tag())
	}
}
