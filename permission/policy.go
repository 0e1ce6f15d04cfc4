package permission

// Role is the backend's role enum as it appears in user profiles.
type Role string

// The three roles the backend assigns to accounts.
const (
	RoleAdmin Role = "admin"
	RoleStaff Role = "staff"
	RoleUser  Role = "user"

	// RoleAbsent marks an unauthenticated caller. It never appears in a
	// backend payload and is never granted anything.
	RoleAbsent Role = ""
)

// Action is a gated client operation.
type Action string

const (
	ActionRead        Action = "read"
	ActionCreate      Action = "create"
	ActionUpdate      Action = "update"
	ActionDelete      Action = "delete"
	ActionManageUsers Action = "manage_users"
)

// Policy maps actions to the set of roles allowed to perform them.
// A Policy is a value, not package state: construct one (usually via
// [Default]) and inject it wherever gating happens. The zero value denies
// everything.
type Policy struct {
	grants map[Action]map[Role]struct{}
}

// New returns an empty Policy that denies every (role, action) pair until
// grants are added with [Policy.Grant].
func New() *Policy {
	return &Policy{grants: make(map[Action]map[Role]struct{})}
}

// Default returns the policy table the resource-management backend enforces:
//
//	read                 → admin, staff, user
//	create/update/delete → admin, staff
//	manage_users         → admin
func Default() *Policy {
	p := New()
	p.Grant(ActionRead, RoleAdmin, RoleStaff, RoleUser)
	p.Grant(ActionCreate, RoleAdmin, RoleStaff)
	p.Grant(ActionUpdate, RoleAdmin, RoleStaff)
	p.Grant(ActionDelete, RoleAdmin, RoleStaff)
	p.Grant(ActionManageUsers, RoleAdmin)
	return p
}

// Grant allows the named roles to perform action. Granting RoleAbsent is
// ignored: an unauthenticated caller can never be allowed anything.
func (p *Policy) Grant(action Action, roles ...Role) *Policy {
	if p.grants == nil {
		p.grants = make(map[Action]map[Role]struct{})
	}
	set, ok := p.grants[action]
	if !ok {
		set = make(map[Role]struct{}, len(roles))
		p.grants[action] = set
	}
	for _, r := range roles {
		if r == RoleAbsent {
			continue
		}
		set[r] = struct{}{}
	}
	return p
}

// Allowed reports whether role may perform action. Pure and synchronous:
// no I/O, no side effects. Unknown actions and absent roles deny.
func (p *Policy) Allowed(role Role, action Action) bool {
	if p == nil || role == RoleAbsent {
		return false
	}
	set, ok := p.grants[action]
	if !ok {
		return false
	}
	_, ok = set[role]
	return ok
}

// Roles returns the roles granted for action, in no particular order.
// Useful for rendering which controls to show.
func (p *Policy) Roles(action Action) []Role {
	if p == nil {
		return nil
	}
	set, ok := p.grants[action]
	if !ok {
		return nil
	}
	out := make([]Role, 0, len(set))
	for r := range set {
		out = append(out, r)
	}
	return out
}

// Valid reports whether r is one of the backend's declared roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleStaff, RoleUser:
		return true
	}
	return false
}
