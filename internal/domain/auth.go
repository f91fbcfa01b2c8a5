package domain

import (
	"context"
	"errors"
	"time"
)

// ErrInvalidCredentials is returned when operator login fails.
var ErrInvalidCredentials = errors.New("invalid credentials")

// PasswordHasher verifies operator passwords. Implementations may use bcrypt,
// argon2, etc.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs operator session tokens.
type TokenIssuer interface {
	Issue(subject string, expiry time.Duration) (string, error)
}

// TokenVerifier validates operator session tokens and returns the subject.
type TokenVerifier interface {
	Verify(token string) (string, error)
}

// AuthService authenticates the operator configured for this deployment.
type AuthService interface {
	Login(ctx context.Context, email, password string) (token string, err error)
}
