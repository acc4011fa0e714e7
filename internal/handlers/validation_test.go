package handlers

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	appValidator "github.com/JamesWuVip/wanli-academy-backend-sub000/pkg/validator"
)

func TestValidationErrorDetails(t *testing.T) {
	err := validationError(appValidator.ValidationErrors{
		{Field: "username", Tag: "username"},
		{Field: "email", Tag: "email"},
		{Field: "score", Tag: "gte", Param: "0"},
		{Field: "email", Tag: "required"},
	})

	require.Equal(t, "VALIDATION_FAILED", err.Code)
	require.Equal(t, http.StatusBadRequest, err.StatusCode)
	require.Equal(t, map[string]string{
		"username": "username must be 3-50 letters, digits, dots, dashes or underscores",
		"email":    "email must be a valid email address",
		"score":    "score must be greater than or equal to 0",
	}, err.Details)
	require.Equal(t,
		"email must be a valid email address; score must be greater than or equal to 0; username must be 3-50 letters, digits, dots, dashes or underscores",
		err.Message,
	)
}

func TestValidationErrorFallsBackToBadRequest(t *testing.T) {
	err := validationError(errors.New("reflect failure"))
	require.Equal(t, "BAD_REQUEST", err.Code)
	require.Equal(t, "invalid request payload", err.Message)
}

func TestDescribeFailureUnknownTag(t *testing.T) {
	require.Equal(t, "due date failed validation: datetime=2006-01-02",
		describeFailure(appValidator.ValidationError{Field: "due_date", Tag: "datetime", Param: "2006-01-02"}))
	require.Equal(t, "field failed validation: custom", describeFailure(appValidator.ValidationError{Tag: "custom"}))
}
