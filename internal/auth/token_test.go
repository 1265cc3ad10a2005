package auth

import (
	"strconv"
	"testing"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/crm-access/pkg/util"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	token, err := tm.Issue(42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	subject, err := tm.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, 42, subject)
}

func TestTokensAreDistinctPerLogin(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	first, err := tm.Issue(7)
	require.NoError(t, err)
	second, err := tm.Issue(7)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecodeExpiredToken(t *testing.T) {
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.Itoa(42),
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	tm := NewTokenManager("test-secret", 1)
	_, err = tm.Decode(expired)
	assert.True(t, util.HasCode(err, util.CodeTokenExpired), "expiry must be reported distinctly: %v", err)
}

func TestDecodeTokenSignedWithOtherSecret(t *testing.T) {
	other := NewTokenManager("other-secret", 1)
	token, err := other.Issue(42)
	require.NoError(t, err)

	tm := NewTokenManager("test-secret", 1)
	_, err = tm.Decode(token)
	assert.True(t, util.HasCode(err, util.CodeTokenInvalid))
}

func TestDecodeMalformedToken(t *testing.T) {
	tm := NewTokenManager("test-secret", 1)

	_, err := tm.Decode("not-a-token")
	assert.True(t, util.HasCode(err, util.CodeTokenInvalid))
}
