package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/heartmarshall/tonememory/internal/auth"
	"github.com/heartmarshall/tonememory/internal/config"
	"github.com/heartmarshall/tonememory/internal/domain"
)

// TokenVerifier checks an access token locally.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// Client talks to a GoTrue-compatible identity provider using passwordless
// magic links with PKCE. It holds at most one session at a time and notifies
// subscribers whenever the identity behind that session is set or cleared.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	verifier   TokenVerifier
	leeway     time.Duration
	retryAfter time.Duration
	log        *slog.Logger
	now        func() time.Time

	mu           sync.Mutex
	session      *Session
	codeVerifier string
	kick         chan struct{}

	subsMu  sync.Mutex
	subs    map[int]func(*domain.Identity)
	nextSub int

	// notifyMu serializes session changes with their deliveries.
	notifyMu sync.Mutex
}

// NewClient creates a Client for the configured provider.
// verifier may be nil, in which case tokens are trusted as returned.
func NewClient(cfg config.IdentityConfig, verifier TokenVerifier, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.URL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		verifier:   verifier,
		leeway:     cfg.RefreshLeeway,
		retryAfter: 5 * time.Second,
		log:        logger.With("adapter", "identity"),
		now:        time.Now,
		kick:       make(chan struct{}, 1),
		subs:       make(map[int]func(*domain.Identity)),
	}
}

// SendPasswordlessLink asks the provider to email a sign-in link that
// returns to redirectTo with an authorization code.
func (c *Client) SendPasswordlessLink(ctx context.Context, email, redirectTo string) error {
	verifier := oauth2.GenerateVerifier()

	body := otpRequest{
		Email:               email,
		CreateUser:          true,
		CodeChallenge:       oauth2.S256ChallengeFromVerifier(verifier),
		CodeChallengeMethod: "s256",
	}

	q := url.Values{}
	if redirectTo != "" {
		q.Set("redirect_to", redirectTo)
	}

	if err := c.do(ctx, http.MethodPost, "/otp", q, "", body, nil); err != nil {
		c.log.ErrorContext(ctx, "send link failed", slog.String("error", err.Error()))
		return err
	}

	c.mu.Lock()
	c.codeVerifier = verifier
	c.mu.Unlock()

	c.log.InfoContext(ctx, "sign-in link sent")
	return nil
}

// ExchangeCode trades the code from a magic-link callback for a session.
// Subscribers are notified with the new identity.
func (c *Client) ExchangeCode(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return fmt.Errorf("identity: code is empty")
	}

	c.mu.Lock()
	verifier := c.codeVerifier
	c.mu.Unlock()
	if verifier == "" {
		return fmt.Errorf("identity: no pending sign-in")
	}

	var resp tokenResponse
	q := url.Values{"grant_type": {"pkce"}}
	body := pkceRequest{AuthCode: code, CodeVerifier: verifier}
	if err := c.do(ctx, http.MethodPost, "/token", q, "", body, &resp); err != nil {
		c.log.ErrorContext(ctx, "code exchange failed", slog.String("error", err.Error()))
		return err
	}

	s, err := c.newSession(resp)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.codeVerifier = ""
	c.mu.Unlock()

	c.setSession(s)
	c.log.InfoContext(ctx, "signed in", slog.String("user_id", s.User.ID))
	return nil
}

// CurrentSession returns the identity of the held session, or nil when
// there is none. An expired session is refreshed first, and the provider
// is asked to confirm the user behind the token.
func (c *Client) CurrentSession(ctx context.Context) (*domain.Identity, error) {
	s := c.currentSession()
	if s == nil {
		return nil, nil
	}

	if !c.now().Before(s.ExpiresAt) {
		if err := c.refresh(ctx); err != nil {
			return nil, err
		}
		if s = c.currentSession(); s == nil {
			return nil, nil
		}
	}

	var u userResponse
	err := c.do(ctx, http.MethodGet, "/user", nil, s.AccessToken, nil, &u)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Unauthorized() {
			c.clearSession(s)
			return nil, nil
		}
		return nil, err
	}

	return &domain.Identity{ID: u.ID, Email: u.Email}, nil
}

// SignOut revokes the held session. Subscribers are notified with nil once
// the provider accepts the request, or when the session was already invalid.
func (c *Client) SignOut(ctx context.Context) error {
	s := c.currentSession()
	if s == nil {
		return nil
	}

	err := c.do(ctx, http.MethodPost, "/logout", nil, s.AccessToken, nil, nil)
	if err != nil {
		var apiErr *APIError
		if !errors.As(err, &apiErr) || !apiErr.Unauthorized() {
			c.log.ErrorContext(ctx, "sign out failed", slog.String("error", err.Error()))
			return err
		}
	}

	c.clearSession(s)
	c.log.InfoContext(ctx, "signed out", slog.String("user_id", s.User.ID))
	return nil
}

// Subscribe registers fn for identity notifications. fn receives nil when
// the session ends. Deliveries never overlap.
func (c *Client) Subscribe(fn func(*domain.Identity)) (unsubscribe func()) {
	c.subsMu.Lock()
	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn
	c.subsMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.subsMu.Lock()
			delete(c.subs, id)
			c.subsMu.Unlock()
		})
	}
}

// deliver hands identity to every subscriber in subscription order.
// The caller holds notifyMu.
func (c *Client) deliver(identity *domain.Identity) {
	c.subsMu.Lock()
	fns := make([]func(*domain.Identity), 0, len(c.subs))
	for i := 0; i < c.nextSub; i++ {
		if fn, ok := c.subs[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(identity.Clone())
	}
}

func (c *Client) currentSession() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	s := *c.session
	return &s
}

func (c *Client) setSession(s *Session) {
	c.swap(func(*Session) (*Session, bool) { return s, true })
}

// clearSession drops the session if it is still the one the caller saw.
func (c *Client) clearSession(seen *Session) {
	c.swap(func(cur *Session) (*Session, bool) {
		if cur == nil || (seen != nil && cur.AccessToken != seen.AccessToken) {
			return cur, false
		}
		return nil, true
	})
}

// swap replaces the held session with the result of change and notifies
// subscribers. notifyMu is held from the replacement until delivery ends,
// so the session never moves past the identity being delivered.
func (c *Client) swap(change func(cur *Session) (*Session, bool)) bool {
	c.notifyMu.Lock()
	defer c.notifyMu.Unlock()

	c.mu.Lock()
	next, ok := change(c.session)
	if ok {
		c.session = next
	}
	c.mu.Unlock()
	if !ok {
		return false
	}

	c.wake()
	if next == nil {
		c.deliver(nil)
	} else {
		c.deliver(&next.User)
	}
	return true
}

func (c *Client) wake() {
	select {
	case c.kick <- struct{}{}:
	default:
	}
}

// do sends a JSON request and decodes a JSON response into out when non-nil.
// bearer defaults to the API key.
func (c *Client) do(ctx context.Context, method, path string, q url.Values, bearer string, in, out any) error {
	reqURL := c.baseURL + path
	if len(q) > 0 {
		reqURL += "?" + q.Encode()
	}

	var payload []byte
	if in != nil {
		var err error
		if payload, err = json.Marshal(in); err != nil {
			return fmt.Errorf("identity: encode request: %w", err)
		}
	}

	if bearer == "" {
		bearer = c.apiKey
	}

	send := func() (*http.Response, error) {
		req, err := http.NewRequestWithContext(ctx, method, reqURL, bytes.NewReader(payload))
		if err != nil {
			return nil, fmt.Errorf("identity: create request: %w", err)
		}
		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+bearer)
		req.Header.Set("Accept", "application/json")
		if in != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return c.httpClient.Do(req)
	}

	resp, err := send()
	if method == http.MethodGet && (err != nil || resp.StatusCode >= 500) && ctx.Err() == nil {
		if resp != nil {
			resp.Body.Close()
		}
		c.log.WarnContext(ctx, "identity retry", slog.String("path", path))
		select {
		case <-time.After(500 * time.Millisecond):
		case <-ctx.Done():
			return fmt.Errorf("identity: %s %s: %w", method, path, ctx.Err())
		}
		resp, err = send()
	}
	if err != nil {
		return fmt.Errorf("identity: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("identity: read body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("identity: decode json: %w", err)
	}
	return nil
}
