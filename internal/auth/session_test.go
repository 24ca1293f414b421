// internal/auth/session_test.go
package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionTokenRoundTrip(t *testing.T) {
	Init()

	id := uuid.New().String()
	token, err := CreateJWT(id)
	require.NoError(t, err)

	sub, err := AuthenticateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, id, sub)
}

func TestSessionTokenTamperRejected(t *testing.T) {
	Init()

	token, err := CreateJWT(uuid.New().String())
	require.NoError(t, err)

	_, err = AuthenticateJWT(token + "x")
	assert.Error(t, err)

	_, err = AuthenticateJWT("not.a.token")
	assert.Error(t, err)
}
