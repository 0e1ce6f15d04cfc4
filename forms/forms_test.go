package forms

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoginInputValid(t *testing.T) {
	require.Nil(t, Validate(LoginInput{Email: "alice@example.com", Password: "pw"}))
}

func TestLoginInputRejectsBadEmail(t *testing.T) {
	verr := Validate(LoginInput{Email: "not-an-email", Password: "pw"})
	require.NotNil(t, verr)
	require.Contains(t, verr.Fields, "email")
	require.Equal(t, []string{"Enter a valid email address."}, verr.Fields["email"])
}

func TestRegisterInputPasswordMismatch(t *testing.T) {
	verr := Validate(RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "longenough1",
		PasswordConfirm: "different-one",
	})
	require.NotNil(t, verr)
	require.Equal(t, []string{"Passwords do not match."}, verr.Fields["password_confirm"])
	require.NotContains(t, verr.Fields, "username")
}

func TestRegisterInputRoleEnum(t *testing.T) {
	base := RegisterInput{
		Username:        "alice",
		Email:           "alice@example.com",
		Password:        "longenough1",
		PasswordConfirm: "longenough1",
	}

	base.Role = "staff"
	require.Nil(t, Validate(base))

	base.Role = "superuser"
	verr := Validate(base)
	require.NotNil(t, verr)
	require.Contains(t, verr.Fields, "role")
}

func TestResourceInputFieldErrors(t *testing.T) {
	verr := Validate(ResourceInput{
		Name:        "ab",
		URL:         "ftp://example.com",
		Description: "too short",
	})
	require.NotNil(t, verr)
	require.Contains(t, verr.Fields, "name")
	require.Contains(t, verr.Fields, "url")
	require.Contains(t, verr.Fields, "description")
	require.Equal(t, []string{"Ensure this field has at least 10 characters."}, verr.Fields["description"])
}

func TestValidationErrorRendering(t *testing.T) {
	verr := &ValidationError{}
	verr.Add("email", "Enter a valid email address.")
	verr.Add(NonFieldKey, "Login failed.")
	require.Contains(t, verr.Error(), "email: Enter a valid email address.")
	require.Contains(t, verr.Error(), "detail: Login failed.")
}
