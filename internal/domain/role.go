package domain

// Role constants define the closed set of user roles.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Status constants define the closed set of account states.
const (
	StatusActive   = "active"
	StatusInactive = "inactive"
)

// ValidRoles returns the set of valid user roles.
func ValidRoles() []string {
	return []string{RoleAdmin, RoleUser}
}

// IsValidRole checks whether the given role string is a valid user role.
func IsValidRole(role string) bool {
	for _, r := range ValidRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// IsValidStatus checks whether the given status string is a valid account status.
func IsValidStatus(status string) bool {
	return status == StatusActive || status == StatusInactive
}

// CanAccessUser reports whether the principal may read or modify the user
// identified by targetID. A user may always access their own record; admins
// may access any record.
func CanAccessUser(principal *User, targetID string) bool {
	if principal == nil {
		return false
	}
	return principal.ID == targetID || principal.Role == RoleAdmin
}
