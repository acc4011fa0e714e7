package handlers

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"

	appErrors "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/errors"
	"github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/response"
	appValidator "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/validator"
)

// bindAndValidate decodes the JSON body into dest and applies its validate tags. On failure the
// error envelope is already written and false is returned.
func bindAndValidate[T any](c *gin.Context, dest *T) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.NewBadRequest("invalid JSON payload").WithInternal(err))
		return false
	}

	if err := appValidator.ValidateStruct(dest); err != nil {
		response.Error(c, validationError(err))
		return false
	}

	return true
}

// validationError renders validator failures as VALIDATION_FAILED with one detail per field.
func validationError(err error) *appErrors.AppError {
	var failures appValidator.ValidationErrors
	if !errors.As(err, &failures) || len(failures) == 0 {
		return appErrors.NewBadRequest("invalid request payload").WithInternal(err)
	}

	details := make(map[string]string, len(failures))
	for _, failure := range failures {
		if _, seen := details[failure.Field]; !seen {
			details[failure.Field] = describeFailure(failure)
		}
	}

	fields := make([]string, 0, len(details))
	for field := range details {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	messages := make([]string, 0, len(fields))
	for _, field := range fields {
		messages = append(messages, details[field])
	}

	return appErrors.NewValidation(strings.Join(messages, "; "), details)
}

func describeFailure(failure appValidator.ValidationError) string {
	field := strings.ToLower(strings.ReplaceAll(failure.Field, "_", " "))
	if field == "" {
		field = "field"
	}

	switch failure.Tag {
	case "required":
		return field + " is required"
	case "notblank":
		return field + " must not be blank"
	case "email":
		return field + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, failure.Param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, failure.Param)
	case "username":
		return field + " must be 3-50 letters, digits, dots, dashes or underscores"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field, failure.Param)
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", field, failure.Param)
	case "uuid":
		return field + " must be a UUID"
	}

	if failure.Param != "" {
		return fmt.Sprintf("%s failed validation: %s=%s", field, failure.Tag, failure.Param)
	}
	return fmt.Sprintf("%s failed validation: %s", field, failure.Tag)
}
