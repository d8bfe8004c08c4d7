package tokens

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var secret = []byte("test-token-secret")

func TestSignParse_NoExpiry(t *testing.T) {
	jti := NewJTI()
	tok, err := Sign(42, jti, time.Now(), 0, secret)
	require.NoError(t, err)

	claims, err := Parse(tok, secret)
	require.NoError(t, err)
	assert.Equal(t, jti, claims.ID)
	assert.Nil(t, claims.ExpiresAt)

	uid, err := claims.UserID()
	require.NoError(t, err)
	assert.EqualValues(t, 42, uid)
}

func TestSignParse_WithTTL(t *testing.T) {
	issued := time.Now()
	tok, err := Sign(1, NewJTI(), issued, time.Hour, secret)
	require.NoError(t, err)

	claims, err := Parse(tok, secret)
	require.NoError(t, err)
	require.NotNil(t, claims.ExpiresAt)
	assert.WithinDuration(t, issued.Add(time.Hour), claims.ExpiresAt.Time, time.Second)
}

func TestParse_Rejects(t *testing.T) {
	expired, err := Sign(1, NewJTI(), time.Now().Add(-2*time.Hour), time.Hour, secret)
	require.NoError(t, err)

	otherKey, err := Sign(1, NewJTI(), time.Now(), 0, []byte("other"))
	require.NoError(t, err)

	noJTI, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "1"}).SignedString(secret)
	require.NoError(t, err)

	wrongAlg, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{Subject: "1", ID: "x"}).SignedString(secret)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "garbage", token: "not-a-token"},
		{name: "empty", token: ""},
		{name: "expired", token: expired},
		{name: "wrong key", token: otherKey},
		{name: "missing jti", token: noJTI},
		{name: "wrong alg", token: wrongAlg},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.token, secret)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}

func TestNewJTI_Unique(t *testing.T) {
	assert.NotEqual(t, NewJTI(), NewJTI())
}
