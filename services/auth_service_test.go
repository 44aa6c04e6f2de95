package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	as := NewAuthService(nil, "test-secret")

	token, err := as.GenerateToken("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := as.ResolveToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestResolveTokenRejectsWrongSecret(t *testing.T) {
	issuer := NewAuthService(nil, "secret-a")
	verifier := NewAuthService(nil, "secret-b")

	token, err := issuer.GenerateToken("user-123")
	require.NoError(t, err)

	_, err = verifier.ResolveToken(token)
	assert.Error(t, err)
}

func TestResolveTokenRejectsGarbage(t *testing.T) {
	as := NewAuthService(nil, "test-secret")

	_, err := as.ResolveToken("not.a.token")
	assert.Error(t, err)
}
