package auth

import (
	"time"

	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/token"
)

// User is the account record as the authentication flow sees it. The unit
// name rides along so login responses do not need a second lookup.
type User struct {
	ID           int64
	Username     string
	Email        string
	FullName     string
	PasswordHash string
	Role         rbac.Role
	UnitID       int64
	UnitName     string
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal converts the account into the identity tokens are issued for.
func (u *User) Principal() token.Principal {
	return token.Principal{
		UserID:   u.ID,
		Username: u.Username,
		Role:     u.Role,
		UnitID:   u.UnitID,
	}
}

// LoginResult is the response body for successful login and refresh calls.
type LoginResult struct {
	AccessToken  string    `json:"accessToken"`
	RefreshToken string    `json:"refreshToken"`
	TokenType    string    `json:"tokenType"`
	ExpiresIn    int64     `json:"expiresIn"`
	UserID       int64     `json:"userId"`
	Username     string    `json:"username"`
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	Role         rbac.Role `json:"role"`
	UnitID       int64     `json:"unitId"`
	UnitName     string    `json:"unitName"`
	Permissions  []string  `json:"permissions"`
}

// Introspection is the out-of-band validation response consumed by the
// edge gateway.
type Introspection struct {
	Valid        bool      `json:"valid"`
	Username     string    `json:"username,omitempty"`
	UserID       int64     `json:"userId,omitempty"`
	Role         rbac.Role `json:"role,omitempty"`
	UnitID       int64     `json:"unitId,omitempty"`
	Permissions  []string  `json:"permissions,omitempty"`
	ErrorMessage string    `json:"errorMessage,omitempty"`
}
