package auth

import (
	"context"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/semaphore"

	"github.com/cotowork/userservice/internal/shared"
)

// Verifier performs the deliberately expensive bcrypt operations behind a
// bounded semaphore, so a burst of login attempts cannot monopolize CPU
// and stall unrelated request handling.
type Verifier struct {
	sem  *semaphore.Weighted
	cost int
}

// NewVerifier constructs a Verifier. maxConcurrent bounds in-flight bcrypt
// work; cost is the work factor for newly hashed passwords.
func NewVerifier(maxConcurrent int64, cost int) *Verifier {
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = 12
	}
	return &Verifier{sem: semaphore.NewWeighted(maxConcurrent), cost: cost}
}

// Compare checks a presented password against a stored hash. Mismatch
// surfaces as ErrInvalidCredentials with no further detail.
func (v *Verifier) Compare(ctx context.Context, hash, password string) error {
	if err := v.sem.Acquire(ctx, 1); err != nil {
		return err
	}
	defer v.sem.Release(1)
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		return shared.ErrInvalidCredentials
	}
	return nil
}

// Hash produces a salted one-way hash of the password at the configured
// work factor.
func (v *Verifier) Hash(ctx context.Context, password string) (string, error) {
	if err := v.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer v.sem.Release(1)
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), v.cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
