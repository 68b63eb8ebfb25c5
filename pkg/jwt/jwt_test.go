package jwt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateParse_RoundTrip(t *testing.T) {
	token, err := Generate("secret", "user-1", "vendedor", "caja-api", 5)
	require.NoError(t, err)

	userID, role, err := Parse("secret", token)
	require.NoError(t, err)
	assert.Equal(t, "user-1", userID)
	assert.Equal(t, "vendedor", role)
}

func TestParse_WrongSecret(t *testing.T) {
	token, err := Generate("secret", "user-1", "admin", "caja-api", 5)
	require.NoError(t, err)

	_, _, err = Parse("otro", token)
	assert.Error(t, err)
}

func TestParse_Expired(t *testing.T) {
	token, err := Generate("secret", "user-1", "admin", "caja-api", -1)
	require.NoError(t, err)

	_, _, err = Parse("secret", token)
	assert.Error(t, err)
}

func TestEmptySecret(t *testing.T) {
	_, err := Generate("", "user-1", "admin", "caja-api", 5)
	assert.Error(t, err)
	_, _, err = Parse("", "x")
	assert.Error(t, err)
}
