package validator

import (
	"errors"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate

	usernamePattern = regexp.MustCompile(`^[A-Za-z0-9_.-]{3,50}$`)
)

// customRules are registered on first use alongside the built-in tags.
var customRules = map[string]validator.Func{
	// usernames become token subjects
	"username": func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	},
	"notblank": func(fl validator.FieldLevel) bool {
		field := fl.Field()
		if field.Kind() != reflect.String {
			return true
		}
		return strings.TrimSpace(field.String()) != ""
	},
}

// ValidationError is one failed rule on one field. Field uses the JSON name.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Param string `json:"param,omitempty"`
}

// ValidationErrors collects every failed rule of a struct.
type ValidationErrors []ValidationError

func (v ValidationErrors) Error() string {
	if len(v) == 0 {
		return "validation failed"
	}

	var b strings.Builder
	for i, err := range v {
		if i > 0 {
			b.WriteString("; ")
		}
		b.WriteString(err.Field)
		b.WriteString(" failed on ")
		b.WriteString(err.Tag)
		if err.Param != "" {
			b.WriteString("=")
			b.WriteString(err.Param)
		}
	}
	return b.String()
}

// ValidateStruct applies the validate tags of s. Rule failures are returned as
// ValidationErrors; misuse such as passing a non struct is returned unchanged.
func ValidateStruct(s any) error {
	err := instance().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return err
	}

	failures := make(ValidationErrors, 0, len(ve))
	for _, fe := range ve {
		failures = append(failures, ValidationError{
			Field: fe.Field(),
			Tag:   fe.Tag(),
			Param: fe.Param(),
		})
	}
	return failures
}

// ValidateVar validates a single value against a tag expression such as "required,email".
func ValidateVar(value any, tag string) error {
	return instance().Var(value, tag)
}

// RegisterValidation adds a custom rule.
func RegisterValidation(tag string, fn validator.Func) error {
	return instance().RegisterValidation(tag, fn)
}

func instance() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(jsonFieldName)
		for tag, fn := range customRules {
			if err := validate.RegisterValidation(tag, fn); err != nil {
				panic(err)
			}
		}
	})
	return validate
}

func jsonFieldName(fld reflect.StructField) string {
	name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return fld.Name
	}
	return name
}
