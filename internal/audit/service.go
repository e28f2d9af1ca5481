package audit

import (
	"context"
	"log/slog"
	"time"

	"github.com/cotowork/userservice/internal/shared"
)

// Service records audit events.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a Service.
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists a single event, scrubbing the detail field first.
func (s *Service) Record(ctx context.Context, event Event) error {
	if event.At.IsZero() {
		event.At = time.Now().UTC()
	}
	event.Detail = shared.Scrub(event.Detail)
	if err := s.repo.Insert(ctx, event); err != nil {
		if s.logger != nil {
			s.logger.Error("insert audit event", slog.Any("error", err))
		}
		return err
	}
	return nil
}
