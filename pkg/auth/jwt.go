package auth

import (
	"errors"
	"strconv"
	"time"

	apperrors "github.com/LingByte/LingMeetX/pkg/errors"
	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidCredential is returned for any credential that cannot be verified:
// missing, malformed, expired, or signed with the wrong secret.
var ErrInvalidCredential = errors.New("invalid credential")

// TokenManager issues and verifies bearer tokens. The user ID travels in the
// standard `sub` claim as a decimal string.
type TokenManager struct {
	secret []byte
	expire time.Duration
	now    func() time.Time
}

// NewTokenManager creates a token manager with the given HMAC secret.
func NewTokenManager(secret string, expire time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		expire: expire,
		now:    time.Now,
	}
}

// Issue creates a signed HS256 token for the user.
func (m *TokenManager) Issue(userID uint) (string, error) {
	now := m.now()
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.expire)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify checks the token signature and expiry and extracts the user ID from
// the `sub` claim. Any failure maps to ErrInvalidCredential; callers must
// reject the connection before recording state.
func (m *TokenManager) Verify(tokenString string) (uint, error) {
	if tokenString == "" {
		return 0, ErrInvalidCredential
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidCredential
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return m.now() }))
	if err != nil || !token.Valid {
		return 0, ErrInvalidCredential
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" {
		return 0, ErrInvalidCredential
	}
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidCredential
	}
	return uint(id), nil
}

// ToAppError maps a verification failure onto the API error taxonomy.
func ToAppError(err error) *apperrors.AppError {
	if errors.Is(err, ErrInvalidCredential) {
		return apperrors.NewAppError(apperrors.ErrCodeInvalidCredential, "Invalid credential")
	}
	return apperrors.WrapError(apperrors.ErrCodeInternal, err)
}
