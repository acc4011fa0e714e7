package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type registerPayload struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

func TestValidateStructSuccess(t *testing.T) {
	payload := registerPayload{
		Username: "alice.w",
		Email:    "alice@example.com",
		Password: "secret1",
	}

	require.NoError(t, ValidateStruct(payload))
}

func TestValidateStructFailures(t *testing.T) {
	payload := registerPayload{
		Username: "a b",
		Email:    "invalid",
		Password: "123",
	}

	err := ValidateStruct(payload)
	require.Error(t, err)

	vErrs, ok := err.(ValidationErrors)
	require.True(t, ok, "expected ValidationErrors, got %T", err)
	require.Len(t, vErrs, 3)

	fields := map[string]string{}
	for _, v := range vErrs {
		fields[v.Field] = v.Tag
	}
	require.Equal(t, "username", fields["username"])
	require.Equal(t, "email", fields["email"])
	require.Equal(t, "min", fields["password"])
}

func TestNotBlank(t *testing.T) {
	type titled struct {
		Title string `json:"title" validate:"required,notblank"`
	}

	require.NoError(t, ValidateStruct(titled{Title: "Fractions"}))

	err := ValidateStruct(titled{Title: "   "})
	var vErrs ValidationErrors
	require.ErrorAs(t, err, &vErrs)
	require.Equal(t, ValidationErrors{{Field: "title", Tag: "notblank"}}, vErrs)
	require.Equal(t, "title failed on notblank", err.Error())
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	err := ValidateStruct("not a struct")
	require.Error(t, err)
	_, ok := err.(ValidationErrors)
	require.False(t, ok)
}

func TestValidationErrorsMessage(t *testing.T) {
	require.Equal(t, "validation failed", ValidationErrors{}.Error())
	require.Equal(t, "password failed on min=6; email failed on email",
		ValidationErrors{{Field: "password", Tag: "min", Param: "6"}, {Field: "email", Tag: "email"}}.Error())
}

func TestValidateVar(t *testing.T) {
	require.NoError(t, ValidateVar("bob@example.com", "required,email"))
	require.Error(t, ValidateVar("bob", "required,email"))
}

func TestRegisterValidation(t *testing.T) {
	err := RegisterValidation("homework", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == "homework"
	})
	require.NoError(t, err)

	type custom struct {
		Value string `validate:"homework"`
	}

	require.NoError(t, ValidateStruct(custom{Value: "homework"}))
	require.Error(t, ValidateStruct(custom{Value: "other"}))
}
