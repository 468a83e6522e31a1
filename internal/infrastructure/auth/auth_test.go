package auth

import (
	"testing"
	"time"

	"gestao_oficina/internal/domain/entities"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestJWTTokenService_RoundTrip(t *testing.T) {
	svc, err := NewJWTTokenService("s3cret", time.Hour)
	require.NoError(t, err)
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(now)

	token, exp, err := svc.Issue(entities.User{ID: "u-1", FullName: "Ana Lima", Role: entities.RoleMecanico})
	require.NoError(t, err)
	assert.Equal(t, now.Add(time.Hour), exp)

	s, err := svc.Parse("Bearer " + token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", s.UserID)
	assert.Equal(t, "Ana Lima", s.FullName)
	assert.Equal(t, entities.RoleMecanico, s.Role)
	assert.True(t, s.ExpiresAt.Equal(exp))
}

func TestJWTTokenService_Rejects(t *testing.T) {
	svc, err := NewJWTTokenService("s3cret", time.Hour)
	require.NoError(t, err)
	issuedAt := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)
	token, _, err := svc.Issue(entities.User{ID: "u-1", Role: entities.RoleAdmin})
	require.NoError(t, err)

	t.Run("expired", func(t *testing.T) {
		svc.now = fixedClock(issuedAt.Add(2 * time.Hour))
		defer func() { svc.now = fixedClock(issuedAt) }()
		_, err := svc.Parse(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("other secret", func(t *testing.T) {
		other, _ := NewJWTTokenService("different", time.Hour)
		other.now = fixedClock(issuedAt)
		_, err := other.Parse(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := svc.Parse("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("unknown role", func(t *testing.T) {
		claims := sessionClaims{
			UserID: "u-2",
			Role:   "root",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(issuedAt.Add(time.Hour)),
			},
		}
		forged, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("s3cret"))
		require.NoError(t, err)
		_, err = svc.Parse(forged)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})
}

func TestNewJWTTokenService_EmptySecret(t *testing.T) {
	_, err := NewJWTTokenService("  ", time.Hour)
	assert.ErrorIs(t, err, ErrEmptySecret)
}

func TestBcryptHasher(t *testing.T) {
	h := NewBcryptHasher(bcrypt.MinCost)

	hash, err := h.Hash("segredo")
	require.NoError(t, err)
	assert.NotEqual(t, "segredo", hash)

	assert.NoError(t, h.Compare(hash, "segredo"))
	assert.ErrorIs(t, h.Compare(hash, "errado"), bcrypt.ErrMismatchedHashAndPassword)
}
