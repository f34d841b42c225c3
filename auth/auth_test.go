package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payroll-ledger/auth"
	"github.com/warp/payroll-ledger/payroll"
)

// sha256("admin123"), as stored by earlier ledger files.
const legacyAdminHash = "240be518fabd2724ddb6f04eeb1da5967448d7e831c08c8fa822809f74c720a9"

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := auth.HashPassword("secret")
	require.NoError(t, err)
	assert.NotEqual(t, "secret", hash)
	assert.False(t, auth.IsLegacyHash(hash))

	assert.NoError(t, auth.CheckPassword(hash, "secret"))
	assert.ErrorIs(t, auth.CheckPassword(hash, "wrong"), auth.ErrInvalidCredentials)
}

func TestCheckPassword_LegacySHA256(t *testing.T) {
	assert.True(t, auth.IsLegacyHash(legacyAdminHash))
	assert.NoError(t, auth.CheckPassword(legacyAdminHash, "admin123"))
	assert.ErrorIs(t, auth.CheckPassword(legacyAdminHash, "admin124"), auth.ErrInvalidCredentials)
}

func TestAuthenticator(t *testing.T) {
	ctx := context.Background()
	store := payroll.NewStore(nil, payroll.WithBootstrapCredential(auth.DefaultUsername, legacyAdminHash))
	a := auth.NewAuthenticator(store)

	// GIVEN: the bootstrap credential in legacy form
	require.NoError(t, a.Check("admin", "admin123"))
	assert.ErrorIs(t, a.Check("admin", "nope"), auth.ErrInvalidCredentials)
	assert.ErrorIs(t, a.Check("ghost", "admin123"), auth.ErrInvalidCredentials)

	// WHEN: it is upgraded after a successful login
	require.NoError(t, a.Upgrade(ctx, "admin", "admin123"))

	// THEN: the stored hash is bcrypt and still verifies
	hash, ok := store.Credential("admin")
	require.True(t, ok)
	assert.False(t, auth.IsLegacyHash(hash))
	assert.NoError(t, a.Check("admin", "admin123"))

	// AND: a changed password replaces it
	require.NoError(t, a.SetPassword(ctx, "admin", "n3w"))
	assert.Error(t, a.Check("admin", "admin123"))
	assert.NoError(t, a.Check("admin", "n3w"))
}
