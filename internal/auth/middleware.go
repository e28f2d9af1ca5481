package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/cotowork/userservice/internal/platform/httpx"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
	"github.com/cotowork/userservice/internal/token"
)

const bearerPrefix = "Bearer "

// StripBearer removes an optional "Bearer " scheme prefix.
func StripBearer(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, bearerPrefix) {
		return strings.TrimSpace(raw[len(bearerPrefix):])
	}
	return raw
}

// Authenticator establishes per-request identity from the Authorization
// header. It only ever attaches or withholds a SecurityContext; it never
// terminates a request itself. Denial is the guard middlewares' job.
type Authenticator struct {
	tokens         *token.Service
	logger         *slog.Logger
	publicPrefixes []string
}

// NewAuthenticator constructs an Authenticator. Requests whose path starts
// with one of publicPrefixes skip token handling entirely.
func NewAuthenticator(tokens *token.Service, logger *slog.Logger, publicPrefixes []string) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{tokens: tokens, logger: logger, publicPrefixes: publicPrefixes}
}

// Middleware validates the bearer token when present and attaches the
// resulting SecurityContext to the request.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.isPublic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		header := r.Header.Get("Authorization")
		if header == "" || !strings.HasPrefix(header, bearerPrefix) {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := a.tokens.Validate(StripBearer(header), token.KindAccess)
		if err != nil {
			// Invalid credential: continue unauthenticated, protected
			// routes will deny downstream.
			a.logger.Debug("bearer token rejected",
				slog.String("path", r.URL.Path),
				slog.String("reason", shared.Scrub(err.Error())),
			)
			next.ServeHTTP(w, r)
			return
		}

		sc := &shared.SecurityContext{
			UserID:      claims.UserID,
			Username:    claims.Username(),
			Role:        claims.Role,
			UnitID:      claims.UnitID,
			Permissions: claims.Permissions,
		}
		next.ServeHTTP(w, r.WithContext(shared.ContextWithSecurity(r.Context(), sc)))
	})
}

func (a *Authenticator) isPublic(path string) bool {
	for _, prefix := range a.publicPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// RequireAuth rejects unauthenticated requests with 401.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if shared.SecurityFromContext(r.Context()) == nil {
			httpx.RespondError(w, shared.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAny admits requests whose context holds at least one of the given
// permissions: 401 without identity, 403 without permission.
func RequireAny(permissions ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := shared.SecurityFromContext(r.Context())
			if sc == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			if len(permissions) > 0 && !sc.HasAnyPermission(permissions...) {
				httpx.RespondError(w, shared.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireRole admits requests whose context carries one of the given roles.
func RequireRole(roles ...rbac.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sc := shared.SecurityFromContext(r.Context())
			if sc == nil {
				httpx.RespondError(w, shared.ErrUnauthorized)
				return
			}
			for _, role := range roles {
				if sc.HasRole(role) {
					next.ServeHTTP(w, r)
					return
				}
			}
			httpx.RespondError(w, shared.ErrForbidden)
		})
	}
}
