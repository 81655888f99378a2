package services

import "testing"

func TestHasPermission(t *testing.T) {
	cases := []struct {
		role       string
		permission string
		want       bool
	}{
		{RoleAdmin, "users.manage", true},
		{RoleAdmin, "system.logs", true},
		{RoleAdmin, "applications.apply", false},
		{RoleRecruiter, "companies.create", true},
		{RoleRecruiter, "users.manage", false},
		{RoleRecruiter, "applications.manage", false},
		{RoleCandidate, "applications.apply", true},
		{RoleCandidate, "companies.create", false},
		{"bogus", "users.manage", false},
		{RoleAdmin, "bogus.permission", false},
	}
	for _, tc := range cases {
		if got := HasPermission(tc.role, tc.permission); got != tc.want {
			t.Errorf("HasPermission(%q, %q) = %v, expected %v", tc.role, tc.permission, got, tc.want)
		}
	}
}

func TestResolvePermissions(t *testing.T) {
	perms := ResolvePermissions(RoleCandidate)
	if !perms["applications.apply"] {
		t.Error("candidate should be able to apply")
	}

	// The returned map is a copy; mutating it must not affect later calls.
	perms["applications.apply"] = false
	if !HasPermission(RoleCandidate, "applications.apply") {
		t.Error("mutating the resolved map leaked into the role table")
	}

	unknown := ResolvePermissions("bogus")
	if unknown == nil {
		t.Fatal("unknown role should resolve to an empty map, not nil")
	}
	if len(unknown) != 0 {
		t.Errorf("unknown role resolved to %d permissions", len(unknown))
	}
}

func TestIsAdminRole(t *testing.T) {
	if !IsAdminRole(RoleAdmin) {
		t.Error("admin should be admin")
	}
	if IsAdminRole(RoleRecruiter) || IsAdminRole(RoleCandidate) || IsAdminRole("") {
		t.Error("non-admin roles must not pass IsAdminRole")
	}
}
