package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := NewManager("test-secret", 24*time.Hour, "go-jewelry-store")
	require.NoError(t, err)
	return m.WithClock(func() time.Time { return now })
}

func TestGenerateAndValidate(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)
	adminID := uuid.New()

	token, expiresAt, err := m.GenerateToken(adminID, "owner@example.com", "super_admin")
	require.NoError(t, err)
	assert.Equal(t, now.Add(24*time.Hour), expiresAt)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)

	id, err := claims.AdminID()
	require.NoError(t, err)
	assert.Equal(t, adminID, id)
	assert.Equal(t, "super_admin", claims.Role)
	assert.NotEmpty(t, claims.ID)
}

func TestValidateExpired(t *testing.T) {
	now := time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC)
	m := newTestManager(t, now)

	token, _, err := m.GenerateToken(uuid.New(), "a@example.com", "admin")
	require.NoError(t, err)

	m.WithClock(func() time.Time { return now.Add(25 * time.Hour) })
	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestValidateRejectsForeignSignature(t *testing.T) {
	now := time.Now()
	m := newTestManager(t, now)
	other, err := NewManager("another-secret", time.Hour, "go-jewelry-store")
	require.NoError(t, err)

	token, _, err := other.GenerateToken(uuid.New(), "a@example.com", "admin")
	require.NoError(t, err)

	_, err = m.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	m := newTestManager(t, time.Now())

	claims := &Claims{RegisteredClaims: jwt.RegisteredClaims{
		Subject:   uuid.NewString(),
		Issuer:    "go-jewelry-store",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.ValidateToken(unsigned)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateMissingAndGarbage(t *testing.T) {
	m := newTestManager(t, time.Now())

	_, err := m.ValidateToken("")
	assert.ErrorIs(t, err, ErrMissingToken)

	_, err = m.ValidateToken("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNewManagerRequiresSecret(t *testing.T) {
	_, err := NewManager("", time.Hour, "")
	assert.ErrorIs(t, err, ErrEmptySecret)
}
