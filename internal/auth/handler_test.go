package auth_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/token"
)

func newAuthRouter(t *testing.T, repo auth.Repository) http.Handler {
	t.Helper()
	tokens := token.NewService(testSecret, 24*time.Hour, 7*24*time.Hour)
	verifier := auth.NewVerifier(4, bcrypt.MinCost)
	svc := auth.NewService(repo, verifier, tokens, nil, nil, nil)
	handler := auth.NewHandler(nil, svc, 100)

	r := chi.NewRouter()
	r.Route("/api/auth", handler.MountRoutes)
	return r
}

func postJSON(t *testing.T, h http.Handler, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginEndpointSuccess(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var result auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, rbac.RoleStaff, result.Role)
	assert.Equal(t, int64(5), result.UnitID)
	assert.Equal(t, "Bearer", result.TokenType)
	assert.Contains(t, result.Permissions, rbac.PermTaskCreate)
	assert.NotContains(t, result.Permissions, rbac.PermUserDelete)
	assert.NotEmpty(t, result.AccessToken)
}

func TestLoginEndpointWrongPassword(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// The body must not distinguish wrong password from unknown user.
	body := rec.Body.String()
	assert.Contains(t, body, "AUTH_002")
	assert.NotContains(t, body, "password mismatch")
	assert.NotContains(t, body, "not found")

	rec = postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nobody.here",
		"password": "not-the-password",
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, body, rec.Body.String())
}

func TestLoginEndpointValidation(t *testing.T) {
	router := newAuthRouter(t, &stubRepo{users: map[string]*auth.User{}})

	rec := postJSON(t, router, "/api/auth/login", map[string]string{"username": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VAL_001")
}

func TestRefreshEndpointRejectsAccessToken(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = postJSON(t, router, "/api/auth/refresh", map[string]string{
		"refreshToken": login.AccessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "AUTH_004")
}

func TestRefreshEndpointSuccess(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = postJSON(t, router, "/api/auth/refresh", map[string]string{
		"refreshToken": login.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var refreshed auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &refreshed))
	assert.Equal(t, login.RefreshToken, refreshed.RefreshToken)
}

func TestValidateEndpointBody(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	rec = postJSON(t, router, "/api/auth/validate", map[string]string{"token": login.AccessToken})
	require.Equal(t, http.StatusOK, rec.Code)
	var result auth.Introspection
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.True(t, result.Valid)
	assert.Equal(t, "nva.staff", result.Username)

	rec = postJSON(t, router, "/api/auth/validate", map[string]string{"token": "garbage"})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.False(t, result.Valid)
}

func TestValidateEndpointHeader(t *testing.T) {
	repo := &stubRepo{users: map[string]*auth.User{"nva.staff": staffUser(t)}}
	router := newAuthRouter(t, repo)

	rec := postJSON(t, router, "/api/auth/login", map[string]string{
		"username": "nva.staff",
		"password": "correct-horse",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var login auth.LoginResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+login.AccessToken)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	// No header at all.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLogoutEndpointAlwaysSucceeds(t *testing.T) {
	router := newAuthRouter(t, &stubRepo{users: map[string]*auth.User{}})

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	req.Header.Set("Authorization", "Bearer whatever")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthHealthEndpoint(t *testing.T) {
	router := newAuthRouter(t, &stubRepo{users: map[string]*auth.User{}})

	req := httptest.NewRequest(http.MethodGet, "/api/auth/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}
