package permission

import "testing"

func TestDefaultTable(t *testing.T) {
	p := Default()

	cases := []struct {
		role   Role
		action Action
		want   bool
	}{
		{RoleAdmin, ActionRead, true},
		{RoleStaff, ActionRead, true},
		{RoleUser, ActionRead, true},
		{RoleAdmin, ActionCreate, true},
		{RoleStaff, ActionCreate, true},
		{RoleUser, ActionCreate, false},
		{RoleUser, ActionUpdate, false},
		{RoleUser, ActionDelete, false},
		{RoleAdmin, ActionManageUsers, true},
		{RoleStaff, ActionManageUsers, false},
		{RoleUser, ActionManageUsers, false},
	}

	for _, tc := range cases {
		if got := p.Allowed(tc.role, tc.action); got != tc.want {
			t.Fatalf("Allowed(%q, %q) = %v, want %v", tc.role, tc.action, got, tc.want)
		}
	}
}

func TestFailClosed(t *testing.T) {
	p := Default()

	if p.Allowed(RoleStaff, Action("unknown_action")) {
		t.Fatal("unknown action must deny")
	}
	if p.Allowed(RoleAbsent, ActionRead) {
		t.Fatal("absent role must deny")
	}
	if p.Allowed(Role("superuser"), ActionRead) {
		t.Fatal("undeclared role must deny")
	}

	var nilPolicy *Policy
	if nilPolicy.Allowed(RoleAdmin, ActionRead) {
		t.Fatal("nil policy must deny")
	}
	if (&Policy{}).Allowed(RoleAdmin, ActionRead) {
		t.Fatal("zero-value policy must deny")
	}
}

func TestGrantIgnoresAbsentRole(t *testing.T) {
	p := New().Grant(ActionRead, RoleAbsent, RoleUser)

	if p.Allowed(RoleAbsent, ActionRead) {
		t.Fatal("granting the absent role must have no effect")
	}
	if !p.Allowed(RoleUser, ActionRead) {
		t.Fatal("expected user grant to apply")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleAdmin, RoleStaff, RoleUser} {
		if !r.Valid() {
			t.Fatalf("role %q should be valid", r)
		}
	}
	if RoleAbsent.Valid() || Role("root").Valid() {
		t.Fatal("unexpected valid role")
	}
}
