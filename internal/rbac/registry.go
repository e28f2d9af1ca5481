// Package rbac holds the static role to permission mapping. The catalog is
// data baked into the binary; permission checks never touch storage.
package rbac

var permissionSets = buildPermissionSets()

func buildPermissionSets() map[Role]map[string]struct{} {
	sets := make(map[Role]map[string]struct{}, len(rolePermissions))
	for role, perms := range rolePermissions {
		set := make(map[string]struct{}, len(perms))
		for _, p := range perms {
			set[p] = struct{}{}
		}
		sets[role] = set
	}
	return sets
}

// PermissionsFor returns the catalog entry for the role in its declared
// order. The returned slice is a copy; callers may retain it. Unknown
// roles resolve to an empty set.
func PermissionsFor(role Role) []string {
	perms, ok := rolePermissions[role]
	if !ok {
		return nil
	}
	out := make([]string, len(perms))
	copy(out, perms)
	return out
}

// HasPermission reports whether the role's catalog contains the permission.
func HasPermission(role Role, permission string) bool {
	set, ok := permissionSets[role]
	if !ok {
		return false
	}
	_, ok = set[permission]
	return ok
}

// HasAnyPermission reports whether the role holds at least one of the
// given permissions.
func HasAnyPermission(role Role, permissions ...string) bool {
	set, ok := permissionSets[role]
	if !ok {
		return false
	}
	for _, p := range permissions {
		if _, ok := set[p]; ok {
			return true
		}
	}
	return false
}
