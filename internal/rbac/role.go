package rbac

import "fmt"

// Role is the closed set of roles a user account can hold. Roles are
// assigned at account creation and travel inside issued tokens; adding a
// new role requires updating the permission catalog in permissions.go.
type Role string

const (
	RoleAdmin       Role = "ADMIN"
	RoleUnitManager Role = "UNIT_MANAGER"
	RoleStaff       Role = "STAFF"
	RoleViewer      Role = "VIEWER"
)

// Roles lists every known role in declaration order.
func Roles() []Role {
	return []Role{RoleAdmin, RoleUnitManager, RoleStaff, RoleViewer}
}

// ParseRole converts a raw string into a Role.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleUnitManager, RoleStaff, RoleViewer:
		return Role(s), nil
	}
	return "", fmt.Errorf("rbac: unknown role %q", s)
}

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}
