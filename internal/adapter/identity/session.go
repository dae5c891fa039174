package identity

import (
	"fmt"
	"time"

	"github.com/heartmarshall/tonememory/internal/domain"
)

// Session is a signed-in session held by the client.
type Session struct {
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
	User         domain.Identity
}

type otpRequest struct {
	Email               string `json:"email"`
	CreateUser          bool   `json:"create_user"`
	CodeChallenge       string `json:"code_challenge"`
	CodeChallengeMethod string `json:"code_challenge_method"`
}

type pkceRequest struct {
	AuthCode     string `json:"auth_code"`
	CodeVerifier string `json:"code_verifier"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type tokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int64        `json:"expires_in"`
	ExpiresAt    int64        `json:"expires_at"`
	User         userResponse `json:"user"`
}

// newSession builds a Session from a token response, verifying the access
// token when a verifier is configured.
func (c *Client) newSession(resp tokenResponse) (*Session, error) {
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, fmt.Errorf("identity: invalid token response")
	}
	if resp.User.ID == "" {
		return nil, fmt.Errorf("identity: token response has no user")
	}

	s := &Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
		User:         domain.Identity{ID: resp.User.ID, Email: resp.User.Email},
	}

	switch {
	case resp.ExpiresAt > 0:
		s.ExpiresAt = time.Unix(resp.ExpiresAt, 0)
	case resp.ExpiresIn > 0:
		s.ExpiresAt = c.now().Add(time.Duration(resp.ExpiresIn) * time.Second)
	default:
		return nil, fmt.Errorf("identity: token response has no expiry")
	}

	if c.verifier != nil {
		claims, err := c.verifier.Verify(resp.AccessToken)
		if err != nil {
			return nil, fmt.Errorf("identity: verify access token: %w", err)
		}
		if claims.Identity.ID != s.User.ID {
			return nil, fmt.Errorf("identity: token subject %q does not match user %q", claims.Identity.ID, s.User.ID)
		}
		s.ExpiresAt = claims.ExpiresAt
	}

	return s, nil
}
