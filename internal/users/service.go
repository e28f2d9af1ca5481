package users

import (
	"context"
	"log/slog"

	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
)

// Service applies the access rules around user management: admins see
// everything, unit managers see their unit, everyone can manage their own
// password.
type Service struct {
	repo     Repository
	verifier *auth.Verifier
	status   *auth.StatusCache
	logger   *slog.Logger
}

// NewService constructs a Service. status may be nil.
func NewService(repo Repository, verifier *auth.Verifier, status *auth.StatusCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, verifier: verifier, status: status, logger: logger}
}

// List returns the accounts the caller may see: all of them for admins,
// the caller's unit otherwise.
func (s *Service) List(ctx context.Context, sc *shared.SecurityContext) ([]User, error) {
	if sc == nil {
		return nil, shared.ErrUnauthorized
	}
	if sc.IsAdmin() {
		return s.repo.List(ctx)
	}
	return s.repo.ListByUnit(ctx, sc.UnitID)
}

// ListByUnit returns one unit's accounts, provided the caller may see
// that unit.
func (s *Service) ListByUnit(ctx context.Context, sc *shared.SecurityContext, unitID int64) ([]User, error) {
	if sc == nil {
		return nil, shared.ErrUnauthorized
	}
	if !sc.CanAccessUnit(unitID) {
		return nil, shared.ErrForbidden
	}
	return s.repo.ListByUnit(ctx, unitID)
}

// ListByRole returns every account holding the role. The handler gates
// this behind the manage-all permission, so no unit scoping applies.
func (s *Service) ListByRole(ctx context.Context, role rbac.Role) ([]User, error) {
	if !role.Valid() {
		return nil, shared.ErrValidation
	}
	return s.repo.ListByRole(ctx, role)
}

// Search matches the keyword against name, username and email, then
// trims the results to what the caller may see.
func (s *Service) Search(ctx context.Context, sc *shared.SecurityContext, keyword string) ([]User, error) {
	if sc == nil {
		return nil, shared.ErrUnauthorized
	}
	found, err := s.repo.Search(ctx, keyword)
	if err != nil {
		return nil, err
	}
	if sc.IsAdmin() {
		return found, nil
	}
	visible := make([]User, 0, len(found))
	for _, u := range found {
		if sc.CanAccessUser(u.ID, u.UnitID) {
			visible = append(visible, u)
		}
	}
	return visible, nil
}

// Profile returns the caller's own account.
func (s *Service) Profile(ctx context.Context, sc *shared.SecurityContext) (*User, error) {
	if sc == nil {
		return nil, shared.ErrUnauthorized
	}
	return s.repo.FindByID(ctx, sc.UserID)
}

// UpdateProfile lets the caller edit their own contact fields. Role,
// unit and active status are deliberately untouchable here.
func (s *Service) UpdateProfile(ctx context.Context, sc *shared.SecurityContext, in ProfileInput) (*User, error) {
	if sc == nil {
		return nil, shared.ErrUnauthorized
	}
	user, err := s.repo.FindByID(ctx, sc.UserID)
	if err != nil {
		return nil, err
	}
	user.Email = in.Email
	user.FullName = in.FullName
	user.PhoneNumber = in.PhoneNumber
	user.AvatarURL = in.AvatarURL
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("profile updated", slog.Int64("userId", sc.UserID))
	return s.repo.FindByID(ctx, sc.UserID)
}

// Get returns one account, subject to the caller's user-scoping rules.
func (s *Service) Get(ctx context.Context, sc *shared.SecurityContext, id int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.CanAccessUser(user.ID, user.UnitID) {
		return nil, shared.ErrForbidden
	}
	return user, nil
}

// GetByUsername resolves a username, subject to the same scoping as Get.
func (s *Service) GetByUsername(ctx context.Context, sc *shared.SecurityContext, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if !sc.CanAccessUser(user.ID, user.UnitID) {
		return nil, shared.ErrForbidden
	}
	return user, nil
}

// Create provisions an account with a freshly hashed password.
func (s *Service) Create(ctx context.Context, sc *shared.SecurityContext, in CreateInput) (*User, error) {
	if !in.Role.Valid() {
		return nil, shared.ErrValidation
	}
	// Non-admins may only provision into their own unit.
	if !sc.CanAccessUnit(in.UnitID) {
		return nil, shared.ErrForbidden
	}

	hash, err := s.verifier.Hash(ctx, in.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     in.FullName,
		PasswordHash: hash,
		Role:         in.Role,
		UnitID:       in.UnitID,
		PhoneNumber:  in.PhoneNumber,
		AvatarURL:    in.AvatarURL,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("user created", slog.String("username", user.Username), slog.String("role", user.Role.String()))
	return user, nil
}

// Update rewrites an account's profile. A deactivating or role-changing
// update also drops the edge status cache so introspection sees it
// promptly.
func (s *Service) Update(ctx context.Context, sc *shared.SecurityContext, id int64, in UpdateInput) (*User, error) {
	if !in.Role.Valid() {
		return nil, shared.ErrValidation
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sc.CanAccessUser(user.ID, user.UnitID) {
		return nil, shared.ErrForbidden
	}

	user.Email = in.Email
	user.FullName = in.FullName
	user.Role = in.Role
	user.UnitID = in.UnitID
	user.PhoneNumber = in.PhoneNumber
	user.AvatarURL = in.AvatarURL
	user.IsActive = in.IsActive
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	s.status.Invalidate(ctx, id)
	s.logger.Info("user updated", slog.Int64("userId", id))
	return s.repo.FindByID(ctx, id)
}

// Deactivate soft-deletes an account and invalidates its cached status.
func (s *Service) Deactivate(ctx context.Context, sc *shared.SecurityContext, id int64) error {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !sc.CanAccessUser(user.ID, user.UnitID) {
		return shared.ErrForbidden
	}
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.status.Invalidate(ctx, id)
	s.logger.Info("user deactivated", slog.Int64("userId", id))
	return nil
}

// ChangePassword verifies the old password and installs a new hash. Only
// the account owner or an admin may call it; admins skip the old-password
// check.
func (s *Service) ChangePassword(ctx context.Context, sc *shared.SecurityContext, id int64, oldPassword, newPassword string) error {
	if sc == nil {
		return shared.ErrUnauthorized
	}
	if sc.UserID != id && !sc.IsAdmin() {
		return shared.ErrForbidden
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if sc.UserID == id {
		if err := s.verifier.Compare(ctx, user.PasswordHash, oldPassword); err != nil {
			return err
		}
	}
	hash, err := s.verifier.Hash(ctx, newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.logger.Info("password changed", slog.Int64("userId", id))
	return nil
}
