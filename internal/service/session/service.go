// Package session tracks the authenticated identity and forwards sign-in and
// sign-out requests to the identity provider.
package session

import (
	"context"

	"github.com/heartmarshall/tonememory/internal/domain"
)

// identityProvider is the identity provider surface needed by the session layer.
type identityProvider interface {
	SendPasswordlessLink(ctx context.Context, email, redirectTo string) error
	SignOut(ctx context.Context) error
	ExchangeCode(ctx context.Context, code string) error
	CurrentSession(ctx context.Context) (*domain.Identity, error)
	Subscribe(fn func(*domain.Identity)) (unsubscribe func())
}

// OutcomeKind tells whether a sign-in link request succeeded.
type OutcomeKind int

const (
	OutcomeLinkSent OutcomeKind = iota + 1
	OutcomeFailed
)

// Outcome is the result of a sign-in link request.
// Reason is set only for failures and is fit for display.
type Outcome struct {
	Kind   OutcomeKind
	Reason string
	Err    error
}

// LinkSent reports that the provider accepted the request.
func LinkSent() Outcome {
	return Outcome{Kind: OutcomeLinkSent}
}

// Failed reports a rejected request.
func Failed(reason string, err error) Outcome {
	return Outcome{Kind: OutcomeFailed, Reason: reason, Err: err}
}

// OK reports whether the link was sent.
func (o Outcome) OK() bool {
	return o.Kind == OutcomeLinkSent
}

// Change is one identity notification.
type Change struct {
	Previous *domain.Identity
	Current  *domain.Identity
}

// Refresh reports a token refresh for the same principal.
func (c Change) Refresh() bool {
	return c.Previous != nil && c.Current != nil && domain.SameIdentity(c.Previous, c.Current)
}
