package services

import (
	"context"
	"strings"
	"time"

	"grouppass/internal/domain"
)

const operatorTokenTTL = 12 * time.Hour

type authService struct {
	operatorEmail string
	passwordHash  string
	hasher        domain.PasswordHasher
	issuer        domain.TokenIssuer
}

// NewAuthService returns an AuthService for the single operator account
// configured for this deployment.
func NewAuthService(operatorEmail, passwordHash string, hasher domain.PasswordHasher, issuer domain.TokenIssuer) domain.AuthService {
	return &authService{
		operatorEmail: strings.ToLower(strings.TrimSpace(operatorEmail)),
		passwordHash:  passwordHash,
		hasher:        hasher,
		issuer:        issuer,
	}
}

func (s *authService) Login(ctx context.Context, email, password string) (string, error) {
	if s.operatorEmail == "" || s.passwordHash == "" {
		return "", domain.ErrInvalidCredentials
	}
	if strings.ToLower(strings.TrimSpace(email)) != s.operatorEmail {
		return "", domain.ErrInvalidCredentials
	}
	if err := s.hasher.Compare(s.passwordHash, password); err != nil {
		return "", domain.ErrInvalidCredentials
	}
	return s.issuer.Issue(s.operatorEmail, operatorTokenTTL)
}
