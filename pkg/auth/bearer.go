package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

const bearerPrefix = "Bearer "

var (
	ErrMissingToken = errors.New("authorization header is required")
	ErrInvalidToken = errors.New("invalid admin token")
)

// AdminToken checks Authorization headers against the server-held admin secret.
// An empty secret rejects every request.
type AdminToken struct {
	secret string
}

func NewAdminToken(secret string) *AdminToken {
	return &AdminToken{secret: secret}
}

func (a *AdminToken) Verify(authHeader string) error {
	token, err := ExtractBearerToken(authHeader)
	if err != nil {
		return err
	}
	if a.secret == "" || subtle.ConstantTimeCompare([]byte(token), []byte(a.secret)) != 1 {
		return ErrInvalidToken
	}
	return nil
}

func ExtractBearerToken(authHeader string) (string, error) {
	if authHeader == "" {
		return "", ErrMissingToken
	}
	if !strings.HasPrefix(authHeader, bearerPrefix) {
		return "", ErrInvalidToken
	}
	token := strings.TrimPrefix(authHeader, bearerPrefix)
	if token == "" {
		return "", ErrInvalidToken
	}
	return token, nil
}
