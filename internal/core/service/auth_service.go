package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/woundashare/report-service/internal/core/domain"
)

// DemoAccount is a seeded login.
type DemoAccount struct {
	Principal domain.Principal
	Password  string
}

// DefaultDemoAccounts returns the two seeded accounts: one admin, one patient.
func DefaultDemoAccounts() []DemoAccount {
	return []DemoAccount{
		{
			Principal: domain.Principal{ID: "admin-1", Email: "admin@woundashare.com", Name: "Admin User", IsAdmin: true},
			Password:  "admin123",
		},
		{
			Principal: domain.Principal{ID: "user-1", Email: "user@example.com", Name: "Demo Patient"},
			Password:  "user123",
		},
	}
}

type demoCredential struct {
	principal    domain.Principal
	passwordHash []byte
}

// AuthService checks logins against a fixed demo credential set and mints
// principals at registration. It is not a credential store: registered
// accounts cannot log in again after logout.
type AuthService struct {
	accounts []demoCredential
}

// NewAuthService hashes the demo passwords once at construction.
func NewAuthService(accounts []DemoAccount) (*AuthService, error) {
	s := &AuthService{accounts: make([]demoCredential, 0, len(accounts))}
	for _, a := range accounts {
		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		s.accounts = append(s.accounts, demoCredential{principal: a.Principal, passwordHash: hash})
	}
	return s, nil
}

// Authenticate returns the principal for a matching email/password pair.
// Any other combination fails with domain.ErrInvalidCredentials.
func (s *AuthService) Authenticate(_ context.Context, email, password string) (*domain.Principal, error) {
	if email == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}
	for _, a := range s.accounts {
		if a.principal.Email != email {
			continue
		}
		if bcrypt.CompareHashAndPassword(a.passwordHash, []byte(password)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
		p := a.principal
		return &p, nil
	}
	return nil, domain.ErrInvalidCredentials
}

// NewPrincipal builds a fresh non-admin principal. Email uniqueness is not
// checked.
func (s *AuthService) NewPrincipal(_ context.Context, email, _ string, name string) (*domain.Principal, error) {
	if strings.TrimSpace(email) == "" {
		return nil, &domain.ValidationError{Field: "email", Reason: "is required"}
	}
	if strings.TrimSpace(name) == "" {
		return nil, &domain.ValidationError{Field: "name", Reason: "is required"}
	}
	return &domain.Principal{
		ID:    "user-" + uuid.NewString(),
		Email: email,
		Name:  name,
	}, nil
}
