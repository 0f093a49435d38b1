package enums

import "fmt"

// UserRole is the authorization role carried in access tokens.
type UserRole string

const (
	UserRoleStaff  UserRole = "staff"
	UserRoleMember UserRole = "member"
)

// String implements fmt.Stringer.
func (r UserRole) String() string {
	return string(r)
}

// IsValid reports whether the value is a known UserRole.
func (r UserRole) IsValid() bool {
	return r == UserRoleStaff || r == UserRoleMember
}

// ParseUserRole converts raw input into a UserRole.
func ParseUserRole(value string) (UserRole, error) {
	role := UserRole(value)
	if !role.IsValid() {
		return "", fmt.Errorf("invalid user role %q", value)
	}
	return role, nil
}
