package shared

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cotowork/userservice/internal/rbac"
)

func manager(unitID int64) *SecurityContext {
	return &SecurityContext{
		UserID:      7,
		Username:    "manager.unit",
		Role:        rbac.RoleUnitManager,
		UnitID:      unitID,
		Permissions: rbac.PermissionsFor(rbac.RoleUnitManager),
	}
}

func TestNilContextDeniesEverything(t *testing.T) {
	var sc *SecurityContext
	assert.False(t, sc.HasPermission(rbac.PermUserRead))
	assert.False(t, sc.HasRole(rbac.RoleAdmin))
	assert.False(t, sc.CanAccessUnit(1))
	assert.False(t, sc.CanAccessUser(1, 1))
}

func TestHasPermissionUsesIssueTimeList(t *testing.T) {
	// The context list is authoritative even when it disagrees with the
	// current catalog; permission changes apply on next login or refresh.
	sc := &SecurityContext{Role: rbac.RoleViewer, Permissions: []string{rbac.PermTaskDelete}}
	assert.True(t, sc.HasPermission(rbac.PermTaskDelete))
	assert.False(t, sc.HasPermission(rbac.PermTaskRead))
}

func TestUnitScoping(t *testing.T) {
	sc := manager(5)
	assert.True(t, sc.CanAccessUnit(5))
	assert.False(t, sc.CanAccessUnit(6))

	admin := &SecurityContext{UserID: 1, Role: rbac.RoleAdmin, UnitID: 1}
	assert.True(t, admin.CanAccessUnit(5))
	assert.True(t, admin.CanAccessUnit(6))
}

func TestUserScoping(t *testing.T) {
	sc := manager(5)
	// Own account.
	assert.True(t, sc.CanAccessUser(7, 5))
	// Someone else inside the managed unit.
	assert.True(t, sc.CanAccessUser(9, 5))
	// Someone else outside the unit.
	assert.False(t, sc.CanAccessUser(9, 6))

	staff := &SecurityContext{UserID: 11, Role: rbac.RoleStaff, UnitID: 5}
	assert.True(t, staff.CanAccessUser(11, 5))
	assert.False(t, staff.CanAccessUser(12, 5))
}

func TestContextRoundTrip(t *testing.T) {
	sc := manager(5)
	ctx := ContextWithSecurity(context.Background(), sc)
	assert.Same(t, sc, SecurityFromContext(ctx))
	assert.Nil(t, SecurityFromContext(context.Background()))
}
