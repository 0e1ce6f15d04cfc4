package session

import "github.com/resdeck/resdeck/permission"

// User is the profile record the backend returns from login, register, and
// profile endpoints. Field names follow the backend's JSON contract.
type User struct {
	ID        int64           `json:"id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	FirstName string          `json:"first_name"`
	LastName  string          `json:"last_name"`
	Role      permission.Role `json:"role"`
}

// DisplayName returns the first name when set, otherwise the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	if u.FirstName != "" {
		return u.FirstName
	}
	return u.Username
}

// Session defines the credential state held by a [Store].
//
// Session values are snapshots: mutating one has no effect on the store
// that produced it.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *User
}

// Authenticated reports whether the session carries both an access token
// and a user profile.
func (s Session) Authenticated() bool {
	return s.AccessToken != "" && s.User != nil
}

// Role returns the session user's role, or [permission.RoleAbsent] when the
// session is unauthenticated.
func (s Session) Role() permission.Role {
	if !s.Authenticated() {
		return permission.RoleAbsent
	}
	return s.User.Role
}

func (s Session) clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
