package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/woundashare/report-service/internal/core/domain"
	"github.com/woundashare/report-service/internal/core/ports"
)

// TokenService signs session tokens with HS256.
type TokenService struct {
	secret   []byte
	tokenTTL time.Duration
	now      func() time.Time
}

func NewTokenService(secret string, tokenTTL time.Duration) *TokenService {
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	return &TokenService{secret: []byte(secret), tokenTTL: tokenTTL, now: time.Now}
}

// TTL is how long issued tokens stay valid.
func (s *TokenService) TTL() time.Duration { return s.tokenTTL }

func (s *TokenService) Issue(claims ports.TokenClaims) (string, error) {
	now := s.now()
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sid":      claims.SessionID,
		"sub":      claims.PrincipalID,
		"is_admin": claims.IsAdmin,
		"iat":      now.Unix(),
		"exp":      now.Add(s.tokenTTL).Unix(),
	})
	return t.SignedString(s.secret)
}

func (s *TokenService) Verify(token string) (*ports.TokenClaims, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
		if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return s.secret, nil
	})
	if err != nil || !tkn.Valid {
		return nil, errors.Join(domain.ErrUnauthorized, err)
	}

	sid, _ := claims["sid"].(string)
	sub, _ := claims["sub"].(string)
	isAdmin, _ := claims["is_admin"].(bool)
	if sid == "" || sub == "" {
		return nil, domain.ErrUnauthorized
	}
	return &ports.TokenClaims{SessionID: sid, PrincipalID: sub, IsAdmin: isAdmin}, nil
}
