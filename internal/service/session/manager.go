package session

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/heartmarshall/tonememory/internal/domain"
)

// Manager holds the last known identity and fans provider notifications out
// to listeners. Listeners run one at a time, in notification order.
type Manager struct {
	log     *slog.Logger
	gateway *Gateway

	mu      sync.RWMutex
	current *domain.Identity

	listenersMu sync.Mutex
	listeners   map[int]func(Change)
	nextID      int

	notifyMu    sync.Mutex
	unsubscribe func()
}

// NewManager creates a manager subscribed to the provider's notifications.
// Call Close to unsubscribe.
func NewManager(logger *slog.Logger, provider identityProvider, gateway *Gateway) *Manager {
	m := &Manager{
		log:       logger.With("service", "session"),
		gateway:   gateway,
		listeners: make(map[int]func(Change)),
	}
	m.unsubscribe = provider.Subscribe(m.handle)
	return m
}

// Close stops receiving provider notifications.
func (m *Manager) Close() {
	m.unsubscribe()
}

// Current returns a copy of the last known identity, or nil.
func (m *Manager) Current() *domain.Identity {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.Clone()
}

// OnChange registers fn for identity changes.
func (m *Manager) OnChange(fn func(Change)) (unsubscribe func()) {
	m.listenersMu.Lock()
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	m.listenersMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.listenersMu.Lock()
			delete(m.listeners, id)
			m.listenersMu.Unlock()
		})
	}
}

func (m *Manager) handle(identity *domain.Identity) {
	m.notifyMu.Lock()
	defer m.notifyMu.Unlock()

	m.mu.Lock()
	prev := m.current
	m.current = identity.Clone()
	m.mu.Unlock()

	change := Change{Previous: prev, Current: identity.Clone()}
	if change.Refresh() {
		m.log.Debug("session refreshed", slog.String("user_id", identity.ID))
	} else {
		m.log.Info("identity changed",
			slog.String("from", prev.OwnerID()),
			slog.String("to", identity.OwnerID()),
		)
	}

	m.listenersMu.Lock()
	fns := make([]func(Change), 0, len(m.listeners))
	for i := 0; i < m.nextID; i++ {
		if fn, ok := m.listeners[i]; ok {
			fns = append(fns, fn)
		}
	}
	m.listenersMu.Unlock()

	for _, fn := range fns {
		fn(Change{Previous: change.Previous.Clone(), Current: change.Current.Clone()})
	}
}

// Probe asks the provider for the current session and records the answer.
func (m *Manager) Probe(ctx context.Context) (*domain.Identity, error) {
	id, err := m.gateway.Probe(ctx)
	if err != nil {
		m.log.WarnContext(ctx, "session probe failed", slog.String("error", err.Error()))
		return nil, err
	}

	m.mu.Lock()
	m.current = id.Clone()
	m.mu.Unlock()

	return id, nil
}

// RequestSignIn asks for a magic link. A blank email fails locally.
// The identity does not change until the link is followed.
func (m *Manager) RequestSignIn(ctx context.Context, email string) Outcome {
	if strings.TrimSpace(email) == "" {
		return Failed("email required", domain.NewValidationError("email", "required"))
	}
	return m.gateway.SendLink(ctx, domain.NormalizeEmail(email))
}

// RequestSignOut asks the provider to end the session. The identity becomes
// absent when the provider's notification arrives.
func (m *Manager) RequestSignOut(ctx context.Context) error {
	if err := m.gateway.SignOut(ctx); err != nil {
		m.log.WarnContext(ctx, "sign out failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}

// CompleteSignIn exchanges a callback code for a session.
func (m *Manager) CompleteSignIn(ctx context.Context, code string) error {
	if strings.TrimSpace(code) == "" {
		return domain.NewValidationError("code", "required")
	}
	if err := m.gateway.ExchangeCode(ctx, code); err != nil {
		m.log.WarnContext(ctx, "sign-in completion failed", slog.String("error", err.Error()))
		return err
	}
	return nil
}
