package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/heartmarshall/tonememory/internal/domain"
)

const (
	reasonTimeout = "identity provider did not respond in time"
	reasonUnknown = "identity provider request failed"
)

// Gateway issues identity provider requests under a bounded wait.
type Gateway struct {
	log         *slog.Logger
	provider    identityProvider
	redirectURL string
	timeout     time.Duration
}

// NewGateway creates a gateway. redirectURL is where magic links land.
func NewGateway(logger *slog.Logger, provider identityProvider, redirectURL string, timeout time.Duration) *Gateway {
	return &Gateway{
		log:         logger.With("service", "session_gateway"),
		provider:    provider,
		redirectURL: redirectURL,
		timeout:     timeout,
	}
}

// SendLink asks the provider to email a sign-in link.
func (g *Gateway) SendLink(ctx context.Context, email string) Outcome {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.provider.SendPasswordlessLink(ctx, email, g.redirectURL); err != nil {
		err = classify("send link", err)
		g.log.WarnContext(ctx, "sign-in link request failed", slog.String("error", err.Error()))
		return Failed(reasonFor(err), err)
	}

	g.log.InfoContext(ctx, "sign-in link requested")
	return LinkSent()
}

// SignOut ends the provider session.
func (g *Gateway) SignOut(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.provider.SignOut(ctx); err != nil {
		return classify("sign out", err)
	}
	return nil
}

// ExchangeCode completes a magic-link sign-in.
func (g *Gateway) ExchangeCode(ctx context.Context, code string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.provider.ExchangeCode(ctx, code); err != nil {
		return classify("exchange code", err)
	}
	return nil
}

// Probe reads the provider's current session.
func (g *Gateway) Probe(ctx context.Context) (*domain.Identity, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	id, err := g.provider.CurrentSession(ctx)
	if err != nil {
		return nil, classify("probe session", err)
	}
	return id, nil
}

// classify wraps err so domain.KindOf reports timeout or identity-request-error.
func classify(op string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%s: %w: %w", op, domain.ErrTimeout, err)
	}
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIdentityRequest, err)
}

// ReasonFor returns a display message for an identity request error.
// The provider's own wording is preferred when it gave one.
func ReasonFor(err error) string {
	return reasonFor(err)
}

func reasonFor(err error) string {
	if errors.Is(err, domain.ErrTimeout) {
		return reasonTimeout
	}
	var um interface{ UserMessage() string }
	if errors.As(err, &um) && um.UserMessage() != "" {
		return um.UserMessage()
	}
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	return reasonUnknown
}
