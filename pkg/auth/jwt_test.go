package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken_ParseRoundTrip(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := NewSessionToken("acc-1", "ana@x.com", "Ana", "super-secret", now, 8*time.Hour)
	require.NoError(t, err)

	claims, err := Parse(tok, "super-secret")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.AccountID)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "ana@x.com", claims.Email)
	assert.Equal(t, "Ana", claims.GivenName)
	assert.WithinDuration(t, now.Add(8*time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestParse_Failures(t *testing.T) {
	t.Parallel()

	valid, err := NewSessionToken("acc-1", "a@x.com", "A", "right", time.Now(), time.Hour)
	require.NoError(t, err)

	nineHoursAgo, err := NewSessionToken("acc-1", "a@x.com", "A", "right", time.Now().Add(-9*time.Hour), 8*time.Hour)
	require.NoError(t, err)

	noneAlg := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Audience:  []string{Audience},
		},
	})
	unsigned, err := noneAlg.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	otherAudience := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		AccountID: "acc-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			Audience:  []string{"someone-else"},
		},
	})
	foreign, err := otherAudience.SignedString([]byte("right"))
	require.NoError(t, err)

	tests := []struct {
		name   string
		token  string
		secret string
		want   error
	}{
		{"empty", "", "right", ErrMissingToken},
		{"wrong secret", valid, "wrong", ErrInvalidToken},
		{"malformed", "not.a.jwt", "right", ErrInvalidToken},
		{"expired nine hours", nineHoursAgo, "right", ErrExpiredToken},
		{"none algorithm", unsigned, "right", ErrInvalidToken},
		{"foreign audience", foreign, "right", ErrInvalidToken},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}
