package auth

import "strings"

// UserRole is the user's role
type UserRole = string

const (
	// RolePassenger is the default role assigned at registration (i.e. file and
	// follow own complaints).
	RolePassenger UserRole = "PASSAGER"
	// RoleAgent is an airport agent (i.e. triage and process complaints).
	RoleAgent UserRole = "AGENT"
	// RoleAdmin is a platform administrator.
	RoleAdmin UserRole = "ADMIN"
)

// DefaultRole is the lowest privilege role. It is also the fallback used when
// a claim set carries no role at all.
const DefaultRole = RolePassenger

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RolePassenger, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(strings.ToUpper(strings.TrimSpace(roleStr)))
	return role, IsValidRole(role)
}

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RolePassenger,
		RoleAgent,
		RoleAdmin,
	}
}

// RoleSet is an explicit set of allowed roles. There is no role hierarchy:
// an admin passes an agent-only set only if ADMIN is listed too, mirroring
// per-route hasAnyRole declarations.
type RoleSet map[UserRole]struct{}

// NewRoleSet builds a RoleSet from the given roles.
func NewRoleSet(roles ...UserRole) RoleSet {
	set := make(RoleSet, len(roles))
	for _, role := range roles {
		set[role] = struct{}{}
	}
	return set
}

// Contains reports whether the role is in the set.
func (s RoleSet) Contains(role UserRole) bool {
	_, ok := s[role]
	return ok
}

// Roles returns the set members in stable declaration-independent order.
func (s RoleSet) Roles() []UserRole {
	out := make([]UserRole, 0, len(s))
	for _, role := range GetAllRoles() {
		if s.Contains(role) {
			out = append(out, role)
		}
	}
	return out
}

// String renders the set for log and error metadata.
func (s RoleSet) String() string {
	return strings.Join(s.Roles(), ",")
}
