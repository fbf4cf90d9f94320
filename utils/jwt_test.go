package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, method jwt.SigningMethod, key interface{}, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestParseJWTToken(t *testing.T) {
	secret := "s3cret"
	valid := Claims{
		ClientID: "client-1",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	t.Run("valid", func(t *testing.T) {
		claims, err := ParseJWTToken(signToken(t, jwt.SigningMethodHS256, []byte(secret), valid), secret)
		require.NoError(t, err)
		assert.Equal(t, "client-1", claims.ClientID)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, err := ParseJWTToken(signToken(t, jwt.SigningMethodHS256, []byte("other"), valid), secret)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		expired := valid
		expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))
		_, err := ParseJWTToken(signToken(t, jwt.SigningMethodHS256, []byte(secret), expired), secret)
		assert.Error(t, err)
	})

	t.Run("unsigned", func(t *testing.T) {
		_, err := ParseJWTToken(signToken(t, jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType, valid), secret)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := ParseJWTToken("not.a.token", secret)
		assert.Error(t, err)
	})
}
