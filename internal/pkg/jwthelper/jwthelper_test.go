package jwthelper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseToken(t *testing.T) {
	key := []byte("signing-key")

	token, err := GenerateToken(key, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	t.Run("ParsesOwnToken", func(t *testing.T) {
		claims, err := ParseToken(key, token)
		require.NoError(t, err)
		assert.Equal(t, uint(42), claims.UserID)
	})

	t.Run("RejectsWrongKey", func(t *testing.T) {
		_, err := ParseToken([]byte("other-key"), token)
		assert.Error(t, err)
	})

	t.Run("RejectsGarbage", func(t *testing.T) {
		_, err := ParseToken(key, "not.a.jwt")
		assert.Error(t, err)
	})
}
