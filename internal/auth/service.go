package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cotowork/userservice/internal/audit"
	"github.com/cotowork/userservice/internal/rbac"
	"github.com/cotowork/userservice/internal/shared"
	"github.com/cotowork/userservice/internal/token"
)

// EventSink receives audit events. Implementations must not block the
// caller; the asynq enqueuer in internal/jobs satisfies this.
type EventSink interface {
	Record(ctx context.Context, event audit.Event)
}

// Metrics counts auth outcomes. internal/observability provides the
// Prometheus-backed implementation.
type Metrics interface {
	CountLogin(outcome string)
	CountValidation(result string)
}

// Service wraps the authentication business rules: credential checks,
// token minting, refresh and gateway introspection.
type Service struct {
	repo     Repository
	verifier *Verifier
	tokens   *token.Service
	status   *StatusCache
	events   EventSink
	metrics  Metrics
	logger   *slog.Logger
}

// UseMetrics attaches outcome counters. Optional; safe to skip in tests.
func (s *Service) UseMetrics(m Metrics) {
	s.metrics = m
}

// NewService constructs a Service. status and events may be nil; both are
// optional collaborators.
func NewService(repo Repository, verifier *Verifier, tokens *token.Service, status *StatusCache, events EventSink, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		repo:     repo,
		verifier: verifier,
		tokens:   tokens,
		status:   status,
		events:   events,
		logger:   logger,
	}
}

// Login authenticates username/password and mints the token pair. Every
// failure path collapses into ErrInvalidCredentials so the response cannot
// reveal whether the username exists, the password was wrong, or the
// account is inactive.
func (s *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.repo.FindActiveByUsername(ctx, username)
	if err != nil {
		// Only missing/inactive accounts look like bad credentials; an
		// infrastructure failure must not masquerade as a 401.
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("login user lookup", slog.String("username", username), slog.Any("error", err))
			return nil, err
		}
		// Equalize timing between unknown-user and bad-password paths.
		_ = s.verifier.Compare(ctx, dummyHash, password)
		s.logger.Warn("login failed", slog.String("username", username), slog.String("reason", "user lookup"))
		s.record(ctx, audit.Event{Username: username, Action: audit.ActionLogin, Outcome: audit.OutcomeInvalidCredentials})
		s.countLogin(audit.OutcomeInvalidCredentials)
		return nil, shared.ErrInvalidCredentials
	}

	if err := s.verifier.Compare(ctx, user.PasswordHash, password); err != nil {
		s.logger.Warn("login failed", slog.String("username", username), slog.String("reason", "password mismatch"))
		s.record(ctx, audit.Event{UserID: user.ID, Username: username, Action: audit.ActionLogin, Outcome: audit.OutcomeInvalidCredentials})
		s.countLogin(audit.OutcomeInvalidCredentials)
		return nil, shared.ErrInvalidCredentials
	}

	result, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("login successful", slog.String("username", user.Username), slog.String("role", user.Role.String()))
	s.record(ctx, audit.Event{UserID: user.ID, Username: user.Username, Action: audit.ActionLogin, Outcome: audit.OutcomeSuccess})
	s.countLogin(audit.OutcomeSuccess)
	return result, nil
}

// Refresh validates a refresh token and mints a new access token. The
// refresh token itself is returned unchanged; there is no rotation-on-use
// (known weakness, carried deliberately).
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*LoginResult, error) {
	claims, err := s.tokens.Validate(refreshToken, token.KindRefresh)
	if err != nil {
		s.logger.Warn("token refresh failed", slog.String("reason", shared.Scrub(err.Error())))
		s.record(ctx, audit.Event{Action: audit.ActionRefresh, Outcome: audit.OutcomeTokenRejected})
		return nil, err
	}

	user, err := s.repo.FindActiveByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			s.logger.Error("refresh user lookup", slog.Int64("userId", claims.UserID), slog.Any("error", err))
			return nil, err
		}
		s.logger.Warn("token refresh failed", slog.Int64("userId", claims.UserID), slog.String("reason", "user not found or inactive"))
		s.record(ctx, audit.Event{UserID: claims.UserID, Action: audit.ActionRefresh, Outcome: audit.OutcomeUserInactive})
		return nil, shared.ErrUserNotFoundOrInactive
	}
	if user.Username != claims.Username() {
		s.logger.Warn("token refresh failed", slog.Int64("userId", claims.UserID), slog.String("reason", "subject mismatch"))
		return nil, token.ErrInvalidClaims
	}

	result, err := s.issueFor(user)
	if err != nil {
		return nil, err
	}
	// Keep the presented refresh token.
	result.RefreshToken = refreshToken

	s.logger.Info("token refresh successful", slog.String("username", user.Username))
	s.record(ctx, audit.Event{UserID: user.ID, Username: user.Username, Action: audit.ActionRefresh, Outcome: audit.OutcomeSuccess})
	return result, nil
}

// Introspect answers the gateway's out-of-band validation call. It never
// returns an error; failures collapse into Valid=false with a safe message.
func (s *Service) Introspect(ctx context.Context, raw string) *Introspection {
	claims, err := s.tokens.Validate(StripBearer(raw), token.KindAccess)
	if err != nil {
		s.countValidation(audit.OutcomeTokenRejected)
		return &Introspection{Valid: false, ErrorMessage: "invalid or expired token"}
	}

	active, found := s.status.GetActive(ctx, claims.UserID)
	if !found {
		active, err = s.repo.ExistsActiveByID(ctx, claims.UserID)
		if err != nil {
			s.logger.Error("introspection user lookup", slog.Any("error", err))
			s.countValidation(audit.OutcomeError)
			return &Introspection{Valid: false, ErrorMessage: "token validation failed"}
		}
		s.status.SetActive(ctx, claims.UserID, active)
	}
	if !active {
		s.logger.Warn("token validation failed", slog.Int64("userId", claims.UserID), slog.String("reason", "user not found or inactive"))
		s.record(ctx, audit.Event{UserID: claims.UserID, Username: claims.Username(), Action: audit.ActionValidate, Outcome: audit.OutcomeUserInactive})
		s.countValidation(audit.OutcomeUserInactive)
		return &Introspection{Valid: false, ErrorMessage: "user not found or inactive"}
	}

	s.countValidation(audit.OutcomeSuccess)
	return &Introspection{
		Valid:       true,
		Username:    claims.Username(),
		UserID:      claims.UserID,
		Role:        claims.Role,
		UnitID:      claims.UnitID,
		Permissions: claims.Permissions,
	}
}

// Logout is a stateless no-op: tokens stay valid until expiry and the
// client discards its copy. Recorded for the audit trail only.
func (s *Service) Logout(ctx context.Context, raw string) {
	claims, err := s.tokens.Validate(StripBearer(raw), token.KindAccess)
	if err != nil {
		s.record(ctx, audit.Event{Action: audit.ActionLogout, Outcome: audit.OutcomeTokenRejected})
		return
	}
	s.record(ctx, audit.Event{UserID: claims.UserID, Username: claims.Username(), Action: audit.ActionLogout, Outcome: audit.OutcomeSuccess})
}

func (s *Service) issueFor(user *User) (*LoginResult, error) {
	permissions := rbac.PermissionsFor(user.Role)

	access, _, err := s.tokens.IssueAccess(user.Principal(), permissions)
	if err != nil {
		return nil, err
	}
	refresh, err := s.tokens.IssueRefresh(user.Principal())
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		ExpiresIn:    int64(s.tokens.AccessTTL().Seconds()),
		UserID:       user.ID,
		Username:     user.Username,
		FullName:     user.FullName,
		Email:        user.Email,
		Role:         user.Role,
		UnitID:       user.UnitID,
		UnitName:     user.UnitName,
		Permissions:  permissions,
	}, nil
}

func (s *Service) record(ctx context.Context, event audit.Event) {
	if s.events != nil {
		s.events.Record(ctx, event)
	}
}

func (s *Service) countLogin(outcome string) {
	if s.metrics != nil {
		s.metrics.CountLogin(outcome)
	}
}

func (s *Service) countValidation(result string) {
	if s.metrics != nil {
		s.metrics.CountValidation(result)
	}
}

// dummyHash is compared against when the username does not resolve, so the
// unknown-user path costs roughly the same as a real comparison.
const dummyHash = "$2a$12$R9h/cIPz0gi.URNNX3kh2OPST9/PgBkqquzi.Ss7KIUgO2t0jWMUW"
