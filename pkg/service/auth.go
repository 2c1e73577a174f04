package service

// Optional bearer-token protection for the RPC endpoint.  The well-known
// agent-card path is always served without authentication so discovery
// probes keep working.

import (
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenVerifier validates HMAC-signed bearer tokens.
type TokenVerifier struct {
	secret []byte
}

func NewTokenVerifier(secret string) *TokenVerifier {
	if secret == "" {
		return nil
	}

	return &TokenVerifier{secret: []byte(secret)}
}

// Verify checks an Authorization header value.
func (v *TokenVerifier) Verify(authHeader string) error {
	if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return fmt.Errorf("missing bearer credential")
	}

	raw := strings.TrimSpace(authHeader[7:])

	token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return v.secret, nil
	})

	if err != nil {
		return fmt.Errorf("invalid token: %w", err)
	}

	if !token.Valid {
		return fmt.Errorf("invalid token")
	}

	return nil
}

// SignToken mints a short-lived token for the given subject.  Tests and
// operators minting credentials out of band use this; production callers
// bring their own issuer.
func SignToken(secret, subject string, ttl time.Duration) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(ttl)),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}
