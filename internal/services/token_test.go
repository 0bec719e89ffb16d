package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)

	token, err := tokens.Issue(42)
	require.NoError(t, err)

	userID, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), userID)
}

func TestTokenManager_Expired(t *testing.T) {
	issued := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	tokens := NewTokenManager("secret", time.Hour)
	tokens.now = fixedClock(issued)

	token, err := tokens.Issue(7)
	require.NoError(t, err)

	tokens.now = fixedClock(issued.Add(59 * time.Minute))
	_, err = tokens.Parse(token)
	assert.NoError(t, err)

	tokens.now = fixedClock(issued.Add(2 * time.Hour))
	_, err = tokens.Parse(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenManager_Rejects(t *testing.T) {
	tokens := NewTokenManager("secret", time.Hour)
	now := time.Now()

	sign := func(method jwt.SigningMethod, key any, claims jwt.RegisteredClaims) string {
		token, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return token
	}
	valid := jwt.RegisteredClaims{
		Subject:   "1",
		Issuer:    "okr-dashboard",
		ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
	}

	noExpiry := valid
	noExpiry.ExpiresAt = nil
	otherIssuer := valid
	otherIssuer.Issuer = "someone-else"
	badSubject := valid
	badSubject.Subject = "alice"

	tests := map[string]string{
		"wrong secret":  sign(jwt.SigningMethodHS256, []byte("other"), valid),
		"wrong method":  sign(jwt.SigningMethodHS512, []byte("secret"), valid),
		"no expiry":     sign(jwt.SigningMethodHS256, []byte("secret"), noExpiry),
		"other issuer":  sign(jwt.SigningMethodHS256, []byte("secret"), otherIssuer),
		"bad subject":   sign(jwt.SigningMethodHS256, []byte("secret"), badSubject),
		"not a token":   "definitely-not-a-jwt",
		"empty string":  "",
		"unsigned none": sign(jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid),
	}

	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := tokens.Parse(token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
