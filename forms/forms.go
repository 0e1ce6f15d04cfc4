// Package forms validates request payloads client-side before any bytes hit
// the wire, producing the same field-keyed error shape the backend returns
// so callers render both through one path.
package forms

import (
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

// NonFieldKey is the fallback key for errors that do not belong to a single
// field, matching the backend's convention.
const NonFieldKey = "detail"

// ValidationError maps field names (JSON names) to ordered message lists.
// It is the non-fatal branch of the error taxonomy: callers surface it
// per-field and let the user correct the input.
type ValidationError struct {
	Fields map[string][]string
}

// Error implements error with a compact one-line rendering.
func (e *ValidationError) Error() string {
	if e == nil || len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, strings.Join(e.Fields[k], "; ")))
	}
	return "validation failed: " + strings.Join(parts, ", ")
}

// Add appends a message under field, creating the entry as needed.
func (e *ValidationError) Add(field, message string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], message)
}

// LoginInput mirrors POST /auth/login/.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterInput mirrors POST /auth/register/. Role defaults server-side to
// "user" when omitted.
type RegisterInput struct {
	Username        string `json:"username" validate:"required,min=3"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,min=8"`
	PasswordConfirm string `json:"password_confirm" validate:"required,eqfield=Password"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role,omitempty" validate:"omitempty,oneof=admin staff user"`
}

// ResourceInput mirrors the writable fields of /resources/.
type ResourceInput struct {
	Name        string `json:"name" validate:"required,min=3"`
	URL         string `json:"url" validate:"required,url,startswith=http"`
	Description string `json:"description" validate:"required,min=10"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report errors under JSON names so they line up with what the backend
	// sends back for the same fields.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks input and returns nil when it is acceptable, otherwise a
// *ValidationError keyed by JSON field name. Pure and local: no network I/O.
func Validate(input any) *ValidationError {
	err := validate.Struct(input)
	if err == nil {
		return nil
	}
	out := &ValidationError{}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.Add(NonFieldKey, err.Error())
		return out
	}
	for _, fe := range verrs {
		out.Add(fe.Field(), message(fe))
	}
	return out
}

// message renders one failed rule in the backend's wording so client-side
// and server-side rejections read identically.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "eqfield":
		return "Passwords do not match."
	case "url", "startswith":
		return "Enter a valid URL starting with http:// or https://."
	case "oneof":
		return fmt.Sprintf("Value must be one of: %s.", strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return "This value is invalid."
	}
}
