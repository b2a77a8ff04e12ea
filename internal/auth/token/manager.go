// Package token issues and validates the server's own HS256 session tokens.
package token

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"dataroom/internal/domain"
)

// Manager signs and parses JWTs with a shared secret.
type Manager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

var _ domain.TokenManager = (*Manager)(nil)

func New(secret, issuer string, ttl time.Duration) *Manager {
	return &Manager{secret: []byte(secret), issuer: issuer, ttl: ttl}
}

type sessionClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Issue signs a token for the user and returns it with its parsed claims.
func (m *Manager) Issue(_ context.Context, user *domain.User) (string, domain.TokenClaims, error) {
	now := time.Now().UTC()
	jti := uuid.NewString()

	cl := sessionClaims{
		Email: user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(m.secret)
	if err != nil {
		return "", domain.TokenClaims{}, err
	}

	return raw, domain.TokenClaims{
		JTI:       jti,
		UserID:    user.ID,
		Email:     user.Email,
		IssuedAt:  now,
		ExpiresAt: now.Add(m.ttl),
	}, nil
}

// Parse validates signature and expiry and returns the domain claims.
func (m *Manager) Parse(_ context.Context, raw string) (domain.TokenClaims, error) {
	var out sessionClaims
	tkn, err := jwt.ParseWithClaims(raw, &out, func(*jwt.Token) (any, error) {
		return m.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	if !tkn.Valid {
		return domain.TokenClaims{}, domain.ErrUnauthorized
	}

	userID, err := strconv.ParseInt(out.Subject, 10, 64)
	if err != nil {
		return domain.TokenClaims{}, fmt.Errorf("%w: bad subject", domain.ErrUnauthorized)
	}

	return domain.TokenClaims{
		JTI:       out.ID,
		UserID:    userID,
		Email:     out.Email,
		IssuedAt:  out.IssuedAt.Time,
		ExpiresAt: out.ExpiresAt.Time,
	}, nil
}
