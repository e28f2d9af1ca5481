package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service issues and validates access and refresh tokens. It holds no
// mutable state beyond the immutable signing key, so it is safe for
// concurrent use from any number of request handlers.
type Service struct {
	codec      *Codec
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewService constructs a Service. TTLs come from configuration; the
// defaults live in app.Config, not here.
func NewService(secret []byte, accessTTL, refreshTTL time.Duration) *Service {
	return &Service{
		codec:      NewCodec(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// AccessTTL returns the configured access token lifetime.
func (s *Service) AccessTTL() time.Duration {
	return s.accessTTL
}

// IssueAccess mints an access token embedding the principal's identity and
// the permission list resolved at issue time.
func (s *Service) IssueAccess(p Principal, permissions []string) (string, *Claims, error) {
	now := s.now().UTC()
	claims := &Claims{
		UserID:      p.UserID,
		Role:        p.Role,
		UnitID:      p.UnitID,
		Permissions: permissions,
		Kind:        KindAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.accessTTL)),
			ID:        uuid.NewString(),
		},
	}
	raw, err := s.codec.Encode(claims)
	if err != nil {
		return "", nil, err
	}
	return raw, claims, nil
}

// IssueRefresh mints a refresh token carrying only the subject and user id.
func (s *Service) IssueRefresh(p Principal) (string, error) {
	now := s.now().UTC()
	claims := &Claims{
		UserID: p.UserID,
		Kind:   KindRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   p.Username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.refreshTTL)),
			ID:        uuid.NewString(),
		},
	}
	return s.codec.Encode(claims)
}

// Validate decodes the token and enforces signature, expiry and kind, in
// that order. On success the claims are returned unchanged; the service
// never consults storage here (revocation is out of scope, logout is a
// client-side discard).
func (s *Service) Validate(raw string, kind Kind) (*Claims, error) {
	claims, err := s.codec.Decode(raw)
	if err != nil {
		return nil, err
	}
	if claims.Kind != kind {
		return nil, ErrKindMismatch
	}
	return claims, nil
}

// withClock overrides the time source for both issuing and validation.
// Test hook only.
func (s *Service) withClock(now func() time.Time) *Service {
	s.now = now
	s.codec.now = now
	return s
}
