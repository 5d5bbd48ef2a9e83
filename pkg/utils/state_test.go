package utils

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const stateSecret = "state-signing-secret"

func TestStateTokenRoundTrip(t *testing.T) {
	token, err := GenerateStateToken(stateSecret, "fr-42", 15*time.Minute)
	require.NoError(t, err)

	claims, err := ParseStateToken(stateSecret, token)
	require.NoError(t, err)
	assert.Equal(t, "fr-42", claims.FranchiseID)
	assert.Equal(t, "pal-content-api", claims.Issuer)
}

func TestStateTokenWrongSecret(t *testing.T) {
	token, err := GenerateStateToken(stateSecret, "fr-42", 15*time.Minute)
	require.NoError(t, err)

	_, err = ParseStateToken("another-secret", token)
	assert.Error(t, err)
}

func TestStateTokenTampered(t *testing.T) {
	token, err := GenerateStateToken(stateSecret, "fr-42", 15*time.Minute)
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	parts[1] = parts[1][:len(parts[1])-2] + "xx"

	_, err = ParseStateToken(stateSecret, strings.Join(parts, "."))
	assert.Error(t, err)
}

func TestStateTokenExpired(t *testing.T) {
	token, err := GenerateStateToken(stateSecret, "fr-42", -time.Minute)
	require.NoError(t, err)

	_, err = ParseStateToken(stateSecret, token)
	assert.Error(t, err)
}

func TestStateTokenGarbage(t *testing.T) {
	_, err := ParseStateToken(stateSecret, "not-a-jwt")
	assert.Error(t, err)
}

func TestStateTokenEmptyFranchiseRejected(t *testing.T) {
	token, err := GenerateStateToken(stateSecret, "", 15*time.Minute)
	require.NoError(t, err)

	_, err = ParseStateToken(stateSecret, token)
	assert.Error(t, err)
}
