package domain

import (
	"context"
	"time"
)

// TokenManager issues and parses bearer session tokens.
type TokenManager interface {
	Issue(ctx context.Context, user *User) (string, TokenClaims, error)
	Parse(ctx context.Context, raw string) (TokenClaims, error)
}

// PasswordHasher hashes and verifies login passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Verify(plain, encoded string) (bool, error)
}

// TokenBlacklist revokes token IDs until their natural expiry.
type TokenBlacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}
