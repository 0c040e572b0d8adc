package ports

import (
	"context"

	"github.com/woundashare/report-service/internal/core/domain"
)

// CredentialDirectory resolves demo credentials to principals and mints new
// principals at registration.
type CredentialDirectory interface {
	Authenticate(ctx context.Context, email, password string) (*domain.Principal, error)
	NewPrincipal(ctx context.Context, email, password, name string) (*domain.Principal, error)
}

// TokenClaims is what a session token asserts about its bearer.
type TokenClaims struct {
	SessionID   string
	PrincipalID string
	IsAdmin     bool
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	Verify(token string) (*TokenClaims, error)
}
