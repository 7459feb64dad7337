package booking

import "strings"

// Role is the caller-supplied role claim. It arrives on the X-HSS-Role
// header and is advisory only; a real authenticator can replace the
// extraction without touching the gating logic.
type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleAdmin    Role = "admin"
)

// ParseRole normalizes a raw role claim, falling back to customer for
// anything unrecognized.
func ParseRole(raw string) Role {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	switch role {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return role
	}
	return RoleCustomer
}

// IsKnown returns true if the string names a recognized role.
func IsKnownRole(raw string) bool {
	switch Role(raw) {
	case RoleCustomer, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// OneOf returns true if the role is among the given roles.
func (r Role) OneOf(roles ...Role) bool {
	for _, candidate := range roles {
		if r == candidate {
			return true
		}
	}
	return false
}

// CanApprove returns true if the role may trigger staff approval.
func (r Role) CanApprove() bool {
	return r.OneOf(RoleStaff, RoleAdmin)
}

// InferRole derives a role from an email identity unless the caller
// requested a recognized role explicitly. Demo-only heuristic.
func InferRole(email, requestedRole string) Role {
	if IsKnownRole(requestedRole) {
		return Role(requestedRole)
	}

	identity := strings.ToLower(email)
	switch {
	case strings.HasPrefix(identity, "admin") || strings.HasSuffix(identity, "@hss-admin.co.za"):
		return RoleAdmin
	case strings.HasPrefix(identity, "staff") || strings.HasSuffix(identity, "@hss-ops.co.za"):
		return RoleStaff
	}
	return RoleCustomer
}
