package jwt

import (
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundTrip(t *testing.T) {
	token, err := GenerateToken("sess-1", "user1", "secret", time.Hour)
	require.NoError(t, err)

	id, err := SessionID(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", id)

	claims, err := ValidateAndGetClaims(token, "secret")
	require.NoError(t, err)
	assert.Equal(t, "user1", claims["sub"])
}

func TestTokenRejected(t *testing.T) {
	token, err := GenerateToken("sess-1", "user1", "secret", time.Hour)
	require.NoError(t, err)

	_, err = SessionID(token, "other")
	assert.True(t, errors.Is(err, ErrInvalidToken))

	expired, err := GenerateToken("sess-1", "user1", "secret", -time.Minute)
	require.NoError(t, err)
	_, err = SessionID(expired, "secret")
	assert.Error(t, err)

	_, err = GenerateToken("sess-1", "user1", "", time.Hour)
	assert.Error(t, err)
}
