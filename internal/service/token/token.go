// Package token issues and validates the stateless bearer tokens used by the
// HTTP middleware and the WebSocket handshake. Validity is purely a function
// of signature, expiry and subject; there is no revocation list, so an issued
// token stays usable until it expires.
package token

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"tailorshop/internal/domain"
)

const minKeyBytes = 32

var (
	ErrMissingSigningKey = errors.New("jwt signing key missing or shorter than 256 bits")
	ErrMalformedToken    = errors.New("malformed token")
)

type Service struct {
	secret []byte
	expiry time.Duration
}

func NewService(secret string, expiry time.Duration) (*Service, error) {
	if len(secret) < minKeyBytes {
		return nil, ErrMissingSigningKey
	}
	return &Service{secret: []byte(secret), expiry: expiry}, nil
}

// Issue signs a token whose subject is the user's canonical email address.
func (s *Service) Issue(user *domain.User) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   user.Email,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// ExtractSubject returns the subject of a verified, unexpired token. A token
// that is structurally a JWT but fails verification yields ("", nil);
// structural corruption yields ErrMalformedToken.
func (s *Service) ExtractSubject(tokenString string) (string, error) {
	if strings.Count(tokenString, ".") != 2 {
		return "", ErrMalformedToken
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, s.keyFunc,
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !parsed.Valid {
		return "", nil
	}

	return claims.Subject, nil
}

// IsValid reports whether the token verifies, is unexpired, and names the
// given user as its subject. The subject comparison is exact: emails are
// canonicalized to lowercase before a token is ever issued.
func (s *Service) IsValid(tokenString string, user *domain.User) bool {
	subject, err := s.ExtractSubject(tokenString)
	if err != nil || subject == "" {
		return false
	}
	return subject == user.Email
}

func (s *Service) keyFunc(t *jwt.Token) (interface{}, error) {
	return s.secret, nil
}
