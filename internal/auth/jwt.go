package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/heartmarshall/tonememory/internal/domain"
)

// Audience is the audience the identity provider stamps on user access tokens.
const Audience = "authenticated"

// SessionVerifier validates access tokens issued by the identity provider
// using the project's shared HS256 secret.
type SessionVerifier struct {
	secret []byte
	now    func() time.Time
}

// NewSessionVerifier creates a verifier for the given project secret.
func NewSessionVerifier(secret string) *SessionVerifier {
	return &SessionVerifier{
		secret: []byte(secret),
		now:    time.Now,
	}
}

// sessionClaims are the claims the provider puts in an access token.
type sessionClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Claims is the verified content of an access token.
type Claims struct {
	Identity  domain.Identity
	ExpiresAt time.Time
}

// Verify parses and validates an access token.
// The subject becomes the identity id and the email claim its email.
func (v *SessionVerifier) Verify(tokenString string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("token is empty")
	}

	token, err := jwt.ParseWithClaims(tokenString, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	},
		jwt.WithAudience(Audience),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(v.now),
	)
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*sessionClaims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &Claims{
		Identity:  domain.Identity{ID: claims.Subject, Email: claims.Email},
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
