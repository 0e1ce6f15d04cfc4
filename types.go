package resdeck

import (
	"time"

	"github.com/resdeck/resdeck/forms"
	"github.com/resdeck/resdeck/session"
)

// User is the backend's profile record. Re-exported from session so most
// callers never import the subpackage.
type User = session.User

// LoginInput, RegisterInput, and ResourceInput are validated payloads,
// re-exported from forms.
type (
	LoginInput    = forms.LoginInput
	RegisterInput = forms.RegisterInput
	ResourceInput = forms.ResourceInput
)

// ValidationError is the field-keyed error shape shared by local validation
// and backend 4xx responses.
type ValidationError = forms.ValidationError

// Resource is one record from /resources/. CreatedBy is the creator's
// string rendering (the backend serializes the relation read-only).
type Resource struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	URL         string    `json:"url"`
	Description string    `json:"description"`
	CreatedBy   string    `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// authPayload is the success body of login and register.
type authPayload struct {
	Access  string        `json:"access"`
	Refresh string        `json:"refresh"`
	User    *session.User `json:"user"`
}
