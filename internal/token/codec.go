package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMalformed indicates the token is not three non-empty base64url
	// segments or its payload is not decodable.
	ErrMalformed = errors.New("token: malformed")
	// ErrSignatureMismatch indicates the signature does not verify against
	// the signing key.
	ErrSignatureMismatch = errors.New("token: signature mismatch")
	// ErrExpired indicates the token is past its expiry.
	ErrExpired = errors.New("token: expired")
	// ErrKindMismatch indicates a syntactically valid token of the wrong
	// kind, e.g. a refresh token presented to an access-only operation.
	ErrKindMismatch = errors.New("token: kind mismatch")
	// ErrInvalidClaims indicates required claim fields are missing or
	// mistyped.
	ErrInvalidClaims = errors.New("token: invalid claims")
)

// Codec signs and verifies the compact three-part token encoding with a
// symmetric HS256 key. The key is set once at construction and never
// mutated, so a single Codec is safe for unbounded concurrent use.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec constructs a Codec over the process-wide signing secret.
func NewCodec(secret []byte) *Codec {
	return &Codec{secret: secret, now: time.Now}
}

// Encode serializes and signs the claims, returning the compact token.
func (c *Codec) Encode(claims *Claims) (string, error) {
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Decode parses and verifies a compact token. The signature is checked
// before any claim is trusted; callers never see fields from a token that
// failed verification.
func (c *Codec) Decode(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithExpirationRequired(),
	)
	parsed, err := parser.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		return nil, classifyParseError(err)
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidClaims
	}
	if claims.Subject == "" || claims.UserID == 0 {
		return nil, ErrInvalidClaims
	}
	switch claims.Kind {
	case KindAccess, KindRefresh:
	default:
		return nil, ErrInvalidClaims
	}
	return claims, nil
}

func classifyParseError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return ErrSignatureMismatch
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrExpired
	case errors.Is(err, jwt.ErrTokenInvalidClaims):
		return ErrInvalidClaims
	default:
		return ErrInvalidClaims
	}
}
