// Package token builds and validates the signed credentials exchanged with
// clients and the edge gateway. Tokens are self-contained: everything an
// authorization decision needs travels inside the claims, so verification
// never touches storage.
package token

import (
	"github.com/golang-jwt/jwt/v5"

	"github.com/cotowork/userservice/internal/rbac"
)

// Kind discriminates the two token flavors. An operation that expects one
// kind must reject the other even when the signature is valid.
type Kind string

const (
	// KindAccess is the short-lived token authorizing API calls.
	KindAccess Kind = "access"
	// KindRefresh is the longer-lived token used solely to mint a new
	// access token.
	KindRefresh Kind = "refresh"
)

// Principal is the identity a token is issued for.
type Principal struct {
	UserID   int64
	Username string
	Role     rbac.Role
	UnitID   int64
}

// Claims is the payload carried by issued tokens. Access tokens carry the
// full set; refresh tokens carry only subject, userId and type.
type Claims struct {
	UserID      int64     `json:"userId"`
	Role        rbac.Role `json:"role,omitempty"`
	UnitID      int64     `json:"unitId,omitempty"`
	Permissions []string  `json:"permissions,omitempty"`
	Kind        Kind      `json:"type"`
	jwt.RegisteredClaims
}

// Username returns the token subject.
func (c *Claims) Username() string {
	return c.Subject
}
