package security

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"session-auth/internal/model"
)

// Claims is the signed token payload. Identity and expiry are trusted from
// the token; authorization decisions re-read the role from the store.
type Claims struct {
	Username  string `json:"username"`
	Role      string `json:"role"`
	SessionID string `json:"session_id"`
	jwt.RegisteredClaims
}

type TokenManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("token secret is required")
	}
	if ttl <= 0 {
		return nil, errors.New("token ttl must be positive")
	}

	return &TokenManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

// Issue signs an HS256 token for the given session.
func (m *TokenManager) Issue(username string, role model.Role, sessionID string) (string, error) {
	now := m.now().UTC()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Username:  username,
		Role:      string(role),
		SessionID: sessionID,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}

// Parse verifies signature, algorithm and expiry. Every failure wraps
// model.ErrTokenInvalid.
func (m *TokenManager) Parse(tokenString string) (model.AuthClaims, error) {
	tokenString = strings.TrimSpace(tokenString)
	if tokenString == "" {
		return model.AuthClaims{}, model.ErrTokenMissing
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)

	claims := &Claims{}
	parsed, err := parser.ParseWithClaims(tokenString, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	})
	if err != nil {
		return model.AuthClaims{}, fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}
	if !parsed.Valid {
		return model.AuthClaims{}, model.ErrTokenInvalid
	}
	if strings.TrimSpace(claims.Username) == "" {
		return model.AuthClaims{}, fmt.Errorf("%w: missing username", model.ErrTokenInvalid)
	}

	return model.AuthClaims{
		Username:  claims.Username,
		Role:      model.Role(claims.Role),
		SessionID: claims.SessionID,
	}, nil
}
