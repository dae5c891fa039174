package identity

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// Run keeps the held session fresh until ctx is done. The access token is
// refreshed RefreshLeeway before it expires; a refresh the provider rejects
// ends the session, while transport failures are retried.
func (c *Client) Run(ctx context.Context) error {
	c.log.InfoContext(ctx, "session refresh loop started")

	for {
		var timer *time.Timer
		var fire <-chan time.Time
		if wait, ok := c.untilRefresh(); ok {
			timer = time.NewTimer(wait)
			fire = timer.C
		}

		select {
		case <-ctx.Done():
			stopTimer(timer)
			c.log.InfoContext(ctx, "session refresh loop stopped")
			return nil
		case <-c.kick:
			stopTimer(timer)
		case <-fire:
			if err := c.refresh(ctx); err != nil {
				c.log.WarnContext(ctx, "session refresh failed, will retry",
					slog.String("error", err.Error()),
					slog.Duration("retry_after", c.retryAfter),
				)
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(c.retryAfter):
				}
			}
		}
	}
}

func (c *Client) untilRefresh() (time.Duration, bool) {
	s := c.currentSession()
	if s == nil {
		return 0, false
	}
	wait := s.ExpiresAt.Add(-c.leeway).Sub(c.now())
	if wait < 0 {
		wait = 0
	}
	return wait, true
}

// refresh exchanges the refresh token for a new session. A permanent
// rejection clears the session and notifies subscribers with nil.
func (c *Client) refresh(ctx context.Context) error {
	s := c.currentSession()
	if s == nil {
		return nil
	}

	var resp tokenResponse
	q := url.Values{"grant_type": {"refresh_token"}}
	err := c.do(ctx, http.MethodPost, "/token", q, "", refreshRequest{RefreshToken: s.RefreshToken}, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Permanent() {
			c.log.WarnContext(ctx, "session expired",
				slog.String("user_id", s.User.ID),
				slog.String("reason", apiErr.Message),
			)
			c.clearSession(s)
			return nil
		}
		return err
	}

	next, err := c.newSession(resp)
	if err != nil {
		c.clearSession(s)
		return err
	}

	swapped := c.swap(func(cur *Session) (*Session, bool) {
		if cur == nil || cur.AccessToken != s.AccessToken {
			return cur, false
		}
		return next, true
	})
	if !swapped {
		return nil
	}
	c.log.DebugContext(ctx, "session refreshed", slog.Time("expires_at", next.ExpiresAt))
	return nil
}

func stopTimer(t *time.Timer) {
	if t != nil {
		t.Stop()
	}
}
