package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
	"github.com/cotowork/userservice/internal/token"
)

func newTokens() *token.Service {
	return token.NewService(testSecret, time.Hour, 24*time.Hour)
}

func issueAccess(t *testing.T, tokens *token.Service, role rbac.Role) string {
	t.Helper()
	principal := token.Principal{UserID: 42, Username: "nva.staff", Role: role, UnitID: 5}
	raw, _, err := tokens.IssueAccess(principal, rbac.PermissionsFor(role))
	require.NoError(t, err)
	return raw
}

// echoSecurity writes whether a SecurityContext reached the handler.
func echoSecurity() (http.Handler, *shared.SecurityContext) {
	captured := &shared.SecurityContext{}
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if sc := shared.SecurityFromContext(r.Context()); sc != nil {
			*captured = *sc
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	return handler, captured
}

func TestAuthenticatorAttachesContext(t *testing.T) {
	tokens := newTokens()
	a := auth.NewAuthenticator(tokens, nil, nil)
	handler, captured := echoSecurity()

	req := httptest.NewRequest(http.MethodGet, "/api/users/42", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, rbac.RoleStaff))
	rec := httptest.NewRecorder()
	a.Middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(42), captured.UserID)
	assert.Equal(t, "nva.staff", captured.Username)
	assert.Equal(t, rbac.RoleStaff, captured.Role)
	assert.Equal(t, int64(5), captured.UnitID)
	assert.True(t, captured.HasPermission(rbac.PermTaskCreate))
}

func TestAuthenticatorInvalidTokenProceedsAnonymous(t *testing.T) {
	a := auth.NewAuthenticator(newTokens(), nil, nil)
	handler, _ := echoSecurity()

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec := httptest.NewRecorder()
	a.Middleware(handler).ServeHTTP(rec, req)

	// No context attached, but the request was not terminated here.
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticatorMissingHeaderProceedsAnonymous(t *testing.T) {
	a := auth.NewAuthenticator(newTokens(), nil, nil)
	handler, _ := echoSecurity()

	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	rec := httptest.NewRecorder()
	a.Middleware(handler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAuthenticatorSkipsPublicPrefixes(t *testing.T) {
	tokens := newTokens()
	a := auth.NewAuthenticator(tokens, nil, []string{"/api/auth"})
	handler, _ := echoSecurity()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
	req.Header.Set("Authorization", "Bearer "+issueAccess(t, tokens, rbac.RoleAdmin))
	rec := httptest.NewRecorder()
	a.Middleware(handler).ServeHTTP(rec, req)

	// Even a valid token is ignored on public paths.
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRequireAuth(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	rec := httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/users", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sc := &shared.SecurityContext{UserID: 1, Role: rbac.RoleViewer, Permissions: rbac.PermissionsFor(rbac.RoleViewer)}
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	req = req.WithContext(shared.ContextWithSecurity(req.Context(), sc))
	rec = httptest.NewRecorder()
	auth.RequireAuth(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAnyPermission(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	guard := auth.RequireAny(rbac.PermUserDelete)

	// Anonymous: 401.
	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/users/7", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Authenticated without the permission: 403.
	staff := &shared.SecurityContext{UserID: 42, Role: rbac.RoleStaff, Permissions: rbac.PermissionsFor(rbac.RoleStaff)}
	req := httptest.NewRequest(http.MethodDelete, "/api/users/7", nil)
	req = req.WithContext(shared.ContextWithSecurity(req.Context(), staff))
	rec = httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Admin holds it: 200.
	admin := &shared.SecurityContext{UserID: 1, Role: rbac.RoleAdmin, Permissions: rbac.PermissionsFor(rbac.RoleAdmin)}
	req = httptest.NewRequest(http.MethodDelete, "/api/users/7", nil)
	req = req.WithContext(shared.ContextWithSecurity(req.Context(), admin))
	rec = httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRole(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	guard := auth.RequireRole(rbac.RoleAdmin, rbac.RoleUnitManager)

	manager := &shared.SecurityContext{UserID: 9, Role: rbac.RoleUnitManager}
	req := httptest.NewRequest(http.MethodGet, "/api/units/5", nil)
	req = req.WithContext(shared.ContextWithSecurity(req.Context(), manager))
	rec := httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	viewer := &shared.SecurityContext{UserID: 3, Role: rbac.RoleViewer}
	req = httptest.NewRequest(http.MethodGet, "/api/units/5", nil)
	req = req.WithContext(shared.ContextWithSecurity(req.Context(), viewer))
	rec = httptest.NewRecorder()
	guard(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestStripBearer(t *testing.T) {
	assert.Equal(t, "abc.def.ghi", auth.StripBearer("Bearer abc.def.ghi"))
	assert.Equal(t, "abc.def.ghi", auth.StripBearer("  Bearer abc.def.ghi  "))
	assert.Equal(t, "abc.def.ghi", auth.StripBearer("abc.def.ghi"))
}
