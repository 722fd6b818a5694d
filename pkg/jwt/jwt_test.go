package jwt

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	t.Run("GenerateAndValidate_RoundTrip", func(t *testing.T) {
		m := NewManager("secret", 30)
		userID := uuid.New()

		token, err := m.GenerateToken(userID, "admin", "admin")
		require.NoError(t, err)

		claims, err := m.ValidateToken(token)
		require.NoError(t, err)
		require.Equal(t, userID, claims.UserID)
		require.Equal(t, "admin", claims.Username)
		require.Equal(t, "admin", claims.Role)
		require.Equal(t, "admin", claims.Subject)
		require.Equal(t, "go-stock-management", claims.Issuer)
	})

	t.Run("ValidateToken_RejectsWrongSecret", func(t *testing.T) {
		issuer := NewManager("secret-a", 30)
		verifier := NewManager("secret-b", 30)

		token, err := issuer.GenerateToken(uuid.New(), "admin", "admin")
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ValidateToken_RejectsExpiredToken", func(t *testing.T) {
		m := NewManager("secret", -1)

		token, err := m.GenerateToken(uuid.New(), "admin", "admin")
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		require.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("ValidateToken_RejectsGarbage", func(t *testing.T) {
		m := NewManager("secret", 30)

		_, err := m.ValidateToken("definitely-not-a-jwt")
		require.ErrorIs(t, err, ErrInvalidToken)
	})
}
