package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rpupo63/portfolio-backend/errs"
)

const (
	DefaultSessionTTL = 24 * time.Hour
	issuer            = "portfolio-backend"
)

// Claims is the payload of a session token.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Session is an issued token plus its expiry.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SessionManager issues and verifies stateless HS256 session tokens.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewSessionManager(secret string, ttl time.Duration) (*SessionManager, error) {
	if secret == "" {
		return nil, errs.NewConfigMissingError("SESSION_SECRET")
	}
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionManager{secret: []byte(secret), ttl: ttl, now: time.Now}, nil
}

func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

func (m *SessionManager) Issue(userID, email string) (Session, error) {
	now := m.now()
	expiresAt := now.Add(m.ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	})

	signed, err := token.SignedString(m.secret)
	if err != nil {
		return Session{}, fmt.Errorf("sign session token: %w", err)
	}
	return Session{Token: signed, ExpiresAt: expiresAt}, nil
}

// Parse verifies token and returns its claims. Failures wrap errs.ErrExpiredToken,
// errs.ErrInvalidToken or errs.ErrMissingToken.
func (m *SessionManager) Parse(token string) (*Claims, error) {
	if token == "" {
		return nil, errs.ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return m.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(m.now),
	)
	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, fmt.Errorf("%w: %w", errs.ErrExpiredToken, err)
	default:
		return nil, fmt.Errorf("%w: %w", errs.ErrInvalidToken, err)
	}

	if claims.UserID == "" {
		return nil, errs.ErrInvalidToken
	}
	return claims, nil
}
