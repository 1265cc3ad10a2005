package auth

import (
	"errors"
	"strconv"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/spec-kit/crm-access/pkg/util"
)

// TokenManager handles issuing and validating JWT tokens.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a new manager. Tokens live for ttlHours from
// issuance; 24 hours when unset.
func NewTokenManager(secret string, ttlHours int) *TokenManager {
	if ttlHours <= 0 {
		ttlHours = 24
	}
	return &TokenManager{secret: []byte(secret), ttl: time.Duration(ttlHours) * time.Hour}
}

// Issue builds and signs a token for the collaborator. The jti claim makes
// every issued token distinct, so revoking one login never affects another.
func (tm *TokenManager) Issue(subjectID int) (string, error) {
	now := time.Now()
	claims := &jwt.RegisteredClaims{
		Subject:   strconv.Itoa(subjectID),
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tm.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", util.NewTokenSigning(err)
	}
	return tokenString, nil
}

// Decode verifies signature and expiry and returns the subject id. Expiry
// is reported distinctly from a bad signature or malformed token. Decode
// does not consult the revocation set.
func (tm *TokenManager) Decode(tokenStr string) (int, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, util.NewTokenExpired()
		}
		return 0, util.NewTokenInvalid()
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return 0, util.NewTokenInvalid()
	}
	subjectID, err := strconv.Atoi(claims.Subject)
	if err != nil {
		return 0, util.NewTokenInvalid()
	}
	return subjectID, nil
}
