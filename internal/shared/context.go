package shared

import (
	"context"

	"github.com/cotowork/userservice/internal/rbac"
)

// SecurityContext is the per-request reconstruction of an authenticated
// identity. It is derived from a validated access token, lives for a single
// request, and is never persisted. The permission list is the one captured
// at token issue time; a role change takes effect on the next login or
// refresh, not mid-token.
type SecurityContext struct {
	UserID      int64
	Username    string
	Role        rbac.Role
	UnitID      int64
	Permissions []string
}

// HasPermission checks membership in the token-issue-time permission list.
func (sc *SecurityContext) HasPermission(permission string) bool {
	if sc == nil {
		return false
	}
	for _, p := range sc.Permissions {
		if p == permission {
			return true
		}
	}
	return false
}

// HasAnyPermission reports whether the context holds at least one of the
// given permissions.
func (sc *SecurityContext) HasAnyPermission(permissions ...string) bool {
	for _, p := range permissions {
		if sc.HasPermission(p) {
			return true
		}
	}
	return false
}

// HasRole reports whether the context carries the given role.
func (sc *SecurityContext) HasRole(role rbac.Role) bool {
	return sc != nil && sc.Role == role
}

// IsAdmin reports whether the context carries the ADMIN role.
func (sc *SecurityContext) IsAdmin() bool {
	return sc.HasRole(rbac.RoleAdmin)
}

// IsUnitManager reports whether the context carries the UNIT_MANAGER role.
func (sc *SecurityContext) IsUnitManager() bool {
	return sc.HasRole(rbac.RoleUnitManager)
}

// CanAccessUnit decides whether the caller may act on resources of the
// given unit: admins always, everyone else only within their own unit.
func (sc *SecurityContext) CanAccessUnit(unitID int64) bool {
	if sc == nil {
		return false
	}
	if sc.IsAdmin() {
		return true
	}
	return sc.UnitID == unitID
}

// CanAccessUser decides whether the caller may act on the given user:
// admins always, anyone on their own account, unit managers on accounts
// within their unit.
func (sc *SecurityContext) CanAccessUser(userID, userUnitID int64) bool {
	if sc == nil {
		return false
	}
	if sc.IsAdmin() {
		return true
	}
	if sc.UserID == userID {
		return true
	}
	if sc.IsUnitManager() {
		return sc.CanAccessUnit(userUnitID)
	}
	return false
}

type securityContextKey struct{}

// ContextWithSecurity stores the security context in the request context.
func ContextWithSecurity(ctx context.Context, sc *SecurityContext) context.Context {
	return context.WithValue(ctx, securityContextKey{}, sc)
}

// SecurityFromContext extracts the security context, nil when the request
// is unauthenticated.
func SecurityFromContext(ctx context.Context) *SecurityContext {
	sc, _ := ctx.Value(securityContextKey{}).(*SecurityContext)
	return sc
}
