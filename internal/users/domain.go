package users

import (
	"time"

	"github.com/cotowork/userservice/internal/rbac"
)

// User is a managed account. PasswordHash never leaves the package: the
// JSON shape below is what handlers return.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FullName     string    `json:"fullName"`
	PasswordHash string    `json:"-"`
	Role         rbac.Role `json:"role"`
	UnitID       int64     `json:"unitId,omitempty"`
	UnitName     string    `json:"unitName,omitempty"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	IsActive     bool      `json:"isActive"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// CreateInput carries the fields accepted when provisioning an account.
type CreateInput struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	Role        rbac.Role
	UnitID      int64
	PhoneNumber string
	AvatarURL   string
}

// UpdateInput carries the mutable account fields for the administrative
// update path.
type UpdateInput struct {
	Email       string
	FullName    string
	Role        rbac.Role
	UnitID      int64
	PhoneNumber string
	AvatarURL   string
	IsActive    bool
}

// ProfileInput carries the fields an account owner may change about
// themselves. Role, unit and active status stay out of reach.
type ProfileInput struct {
	Email       string
	FullName    string
	PhoneNumber string
	AvatarURL   string
}
