package services

// Platform roles.
const (
	RoleAdmin     = "admin"
	RoleRecruiter = "recruiter"
	RoleCandidate = "candidate"
)

// rolePermissions maps a platform role to its permission set. Company-scoped
// rights (managing a specific company's positions and applicants) are NOT
// covered here — those depend on membership rows and go through
// MembershipService.IsCompanyManager.
var rolePermissions = map[string]map[string]bool{
	RoleAdmin: {
		"users.manage":        true,
		"companies.create":    true,
		"companies.manage":    true,
		"positions.manage":    true,
		"applications.manage": true,
		"applications.apply":  false,
		"system.logs":         true,
	},
	RoleRecruiter: {
		"users.manage":        false,
		"companies.create":    true,
		"companies.manage":    false, // only via membership
		"positions.manage":    false, // only via membership
		"applications.manage": false, // only via membership
		"applications.apply":  false,
		"system.logs":         false,
	},
	RoleCandidate: {
		"users.manage":        false,
		"companies.create":    false,
		"companies.manage":    false,
		"positions.manage":    false,
		"applications.manage": false,
		"applications.apply":  true,
		"system.logs":         false,
	},
}

// ResolvePermissions returns a copy of the permission map for a role. Unknown
// roles resolve to an empty map, never nil.
func ResolvePermissions(role string) map[string]bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return map[string]bool{}
	}
	out := make(map[string]bool, len(perms))
	for k, v := range perms {
		out[k] = v
	}
	return out
}

// HasPermission reports whether the role grants the named permission.
func HasPermission(role, permission string) bool {
	perms, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return perms[permission]
}

// IsAdminRole reports whether the role is the platform admin role.
func IsAdminRole(role string) bool {
	return role == RoleAdmin
}
