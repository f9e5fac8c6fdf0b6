package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Oz-CR/BattleShip-Back/testing/suite"
)

func TestTokenRepository(t *testing.T) {
	ctx, st := suite.New(t)
	repo := NewTokenRepository(st.Storage)

	// Given: a fresh token id
	revoked, err := repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	// When: it is revoked
	require.NoError(t, repo.Revoke(ctx, "jti-1", time.Hour))

	// Then: it is reported as revoked, other ids are not
	revoked, err = repo.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = repo.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	// And: an already expired token is not stored
	require.NoError(t, repo.Revoke(ctx, "jti-3", 0))
	revoked, err = repo.IsRevoked(ctx, "jti-3")
	require.NoError(t, err)
	assert.False(t, revoked)
}
