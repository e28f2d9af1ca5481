package units

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cotowork/userservice/internal/shared"
)

// Service applies the business rules around unit management.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, logger: logger}
}

// List returns all units. Reading the unit tree is not scoped; it only
// names organizational structure.
func (s *Service) List(ctx context.Context) ([]Unit, error) {
	return s.repo.List(ctx)
}

// ListRoots returns the top-level units.
func (s *Service) ListRoots(ctx context.Context) ([]Unit, error) {
	return s.repo.ListRoots(ctx)
}

// ListByParent returns the direct children of a unit.
func (s *Service) ListByParent(ctx context.Context, parentID int64) ([]Unit, error) {
	return s.repo.ListByParent(ctx, parentID)
}

// Search matches the keyword against unit name and code.
func (s *Service) Search(ctx context.Context, keyword string) ([]Unit, error) {
	return s.repo.Search(ctx, keyword)
}

// Get returns one unit.
func (s *Service) Get(ctx context.Context, id int64) (*Unit, error) {
	return s.repo.FindByID(ctx, id)
}

// GetByCode resolves a unit code.
func (s *Service) GetByCode(ctx context.Context, code string) (*Unit, error) {
	return s.repo.FindByCode(ctx, code)
}

// Create inserts a unit after checking that the declared parent exists.
func (s *Service) Create(ctx context.Context, in Input) (*Unit, error) {
	if err := s.checkParent(ctx, in.ParentUnitID, 0); err != nil {
		return nil, err
	}
	unit := &Unit{
		Code:         in.Code,
		Name:         in.Name,
		ParentUnitID: in.ParentUnitID,
		Description:  in.Description,
		Address:      in.Address,
		Phone:        in.Phone,
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, unit); err != nil {
		return nil, err
	}
	s.logger.Info("unit created", slog.String("code", unit.Code))
	return unit, nil
}

// Update rewrites a unit. A unit cannot become its own parent.
func (s *Service) Update(ctx context.Context, id int64, in Input) (*Unit, error) {
	unit, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkParent(ctx, in.ParentUnitID, id); err != nil {
		return nil, err
	}

	unit.Code = in.Code
	unit.Name = in.Name
	unit.ParentUnitID = in.ParentUnitID
	unit.Description = in.Description
	unit.Address = in.Address
	unit.Phone = in.Phone
	unit.IsActive = in.IsActive
	if err := s.repo.Update(ctx, unit); err != nil {
		return nil, err
	}
	s.logger.Info("unit updated", slog.Int64("unitId", id))
	return s.repo.FindByID(ctx, id)
}

// Deactivate soft-deletes a unit.
func (s *Service) Deactivate(ctx context.Context, id int64) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}
	s.logger.Info("unit deactivated", slog.Int64("unitId", id))
	return nil
}

func (s *Service) checkParent(ctx context.Context, parentID, selfID int64) error {
	if parentID == 0 {
		return nil
	}
	if parentID == selfID {
		return shared.ErrValidation
	}
	if _, err := s.repo.FindByID(ctx, parentID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.ErrValidation
		}
		return err
	}
	return nil
}
