package auth

import "strings"

// UserRole is the role tag checked at login
type UserRole = string

const (
	// RoleStudent applies to jobs
	RoleStudent UserRole = "student"
	// RoleRecruiter owns companies and posts jobs
	RoleRecruiter UserRole = "recruiter"
)

// GetAllRoles returns all predefined roles
func GetAllRoles() []UserRole {
	return []UserRole{
		RoleStudent,
		RoleRecruiter,
	}
}

// IsValidRole checks if the role is one of the predefined valid roles
func IsValidRole(r UserRole) bool {
	switch r {
	case RoleStudent, RoleRecruiter:
		return true
	default:
		return false
	}
}

// ParseRole safely parses a string into a UserRole type
func ParseRole(roleStr string) (UserRole, bool) {
	role := UserRole(strings.ToLower(strings.TrimSpace(roleStr)))
	return role, IsValidRole(role)
}

// RolesAsAny is handy for validation.In
func RolesAsAny() []any {
	roles := GetAllRoles()
	out := make([]any, len(roles))
	for i, r := range roles {
		out[i] = r
	}
	return out
}
