package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/your-org/ventilation-store/internal/config"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newManager(issuer string) *JWTManager {
	return NewJWTManager(&config.Config{JWT: config.JWTConfig{Secret: testSecret, Issuer: issuer}})
}

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	m := newManager("")
	userID := uuid.New()

	token, err := m.GenerateAccessToken(userID, "ana@example.com", RoleAdmin, time.Minute)
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)

	id, err := claims.UserID()
	require.NoError(t, err)
	assert.Equal(t, userID, id)
	assert.Equal(t, "ana@example.com", claims.Email)
	assert.True(t, claims.IsAdmin())
}

func TestValidateAccessToken_Rejections(t *testing.T) {
	m := newManager("https://auth.example.com")
	userID := uuid.New()

	expired, err := m.GenerateAccessToken(userID, "a@b.co", "", -time.Hour)
	require.NoError(t, err)

	otherIssuer, err := newManager("https://evil.example.com").GenerateAccessToken(userID, "a@b.co", "", time.Minute)
	require.NoError(t, err)

	wrongSecret, err := NewJWTManager(&config.Config{JWT: config.JWTConfig{Secret: "ffffffffffffffffffffffffffffffff", Issuer: "https://auth.example.com"}}).
		GenerateAccessToken(userID, "a@b.co", "", time.Minute)
	require.NoError(t, err)

	badSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "user:1",
			Issuer:    "https://auth.example.com",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
		},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: userID.String(), Issuer: "https://auth.example.com"},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"other issuer": otherIssuer,
		"wrong secret": wrongSecret,
		"bad subject":  badSubject,
		"no expiry":    noExpiry,
		"garbage":      "not.a.token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := m.ValidateAccessToken(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestExtractTokenFromHeader(t *testing.T) {
	assert.Equal(t, "abc", ExtractTokenFromHeader("Bearer abc"))
	assert.Equal(t, "abc", ExtractTokenFromHeader("bearer abc"))
	assert.Equal(t, "", ExtractTokenFromHeader("Basic abc"))
	assert.Equal(t, "", ExtractTokenFromHeader(""))
}
