package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/cotowork/userservice/internal/auth"
	"github.com/cotowork/userservice/internal/shared"
)

func TestVerifierCompare(t *testing.T) {
	v := auth.NewVerifier(2, bcrypt.MinCost)

	hash, err := v.Hash(context.Background(), "s3cret-pass")
	require.NoError(t, err)

	assert.NoError(t, v.Compare(context.Background(), hash, "s3cret-pass"))
	assert.ErrorIs(t, v.Compare(context.Background(), hash, "wrong"), shared.ErrInvalidCredentials)
}

func TestVerifierCancelledContext(t *testing.T) {
	v := auth.NewVerifier(1, bcrypt.MinCost)
	hash, err := v.Hash(context.Background(), "s3cret-pass")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = v.Compare(ctx, hash, "s3cret-pass")
	assert.ErrorIs(t, err, context.Canceled)
}
