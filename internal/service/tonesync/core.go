// Package tonesync keeps the signed-in identity, that identity's tone records
// and the draft record consistent while identity notifications and remote
// calls complete in any order.
//
// All state lives in a single Run loop. Intents and completions are queued
// and applied one at a time; results tagged with a superseded owner or
// sequence number are discarded.
package tonesync

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/session"
)

type sessionManager interface {
	OnChange(fn func(session.Change)) (unsubscribe func())
	Probe(ctx context.Context) (*domain.Identity, error)
	RequestSignIn(ctx context.Context, email string) session.Outcome
	RequestSignOut(ctx context.Context) error
	CompleteSignIn(ctx context.Context, code string) error
}

type recordStore interface {
	ListFor(ctx context.Context, ownerID string) ([]domain.ToneRecord, error)
	Insert(ctx context.Context, ownerID string, draft domain.Draft) (*domain.ToneRecord, error)
	Delete(ctx context.Context, ownerID, id string) error
}

// Core is the synchronization core. Intent methods never block; their
// effects become visible through Snapshot and Watch.
type Core struct {
	log     *slog.Logger
	session sessionManager
	records recordStore
	queue   *eventQueue
	running atomic.Bool

	// Owned by the Run loop.
	st       state
	version  uint64
	runCtx   context.Context
	inflight sync.WaitGroup

	snapMu sync.RWMutex
	snap   Snapshot

	watchMu     sync.Mutex
	watchers    map[int]func(Snapshot)
	nextWatcher int

	// observe, when set, is called after every processed event.
	observe func(event)
}

// NewCore creates a core. Call Run to start it.
func NewCore(logger *slog.Logger, sessions sessionManager, records recordStore) *Core {
	c := &Core{
		log:      logger.With("service", "tonesync"),
		session:  sessions,
		records:  records,
		queue:    newEventQueue(),
		watchers: make(map[int]func(Snapshot)),
	}
	c.st.records = []domain.ToneRecord{}
	c.snap = c.st.snapshot(0)
	return c
}

// Run probes the session and processes events until ctx is done.
// In-flight remote calls are cancelled and awaited before Run returns.
func (c *Core) Run(ctx context.Context) error {
	if !c.running.CompareAndSwap(false, true) {
		return errors.New("tonesync: core is already running")
	}

	ctx, cancel := context.WithCancel(ctx)
	c.runCtx = ctx

	unsubscribe := c.session.OnChange(func(ch session.Change) {
		c.enqueue(identityEvent{identity: ch.Current})
	})
	defer func() {
		unsubscribe()
		c.queue.Close()
		cancel()
		c.inflight.Wait()
	}()

	c.log.InfoContext(ctx, "sync core starting")
	c.startProbe()
	c.publish()

	for {
		if ev, ok := c.queue.TryDequeue(); ok {
			if c.process(ev) {
				c.publish()
			}
			if c.observe != nil {
				c.observe(ev)
			}
			continue
		}

		select {
		case <-ctx.Done():
			c.log.InfoContext(ctx, "sync core stopping")
			return nil
		case <-c.queue.Wait():
		}
	}
}

// Snapshot returns a copy of the latest published state.
func (c *Core) Snapshot() Snapshot {
	c.snapMu.RLock()
	defer c.snapMu.RUnlock()
	return c.snap.clone()
}

// Watch registers fn for every published snapshot. fn runs on the Run loop
// and must not block.
func (c *Core) Watch(fn func(Snapshot)) (unwatch func()) {
	c.watchMu.Lock()
	id := c.nextWatcher
	c.nextWatcher++
	c.watchers[id] = fn
	c.watchMu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.watchMu.Lock()
			delete(c.watchers, id)
			c.watchMu.Unlock()
		})
	}
}

// SetField updates one draft field. Unknown field names fail immediately.
func (c *Core) SetField(name, value string) error {
	field, err := domain.ParseDraftField(name)
	if err != nil {
		return err
	}
	c.enqueue(setFieldEvent{field: field, value: value})
	return nil
}

// CommitDraft submits the draft for the signed-in identity.
func (c *Core) CommitDraft() { c.enqueue(commitEvent{}) }

// RequestSignIn asks for a magic link to email.
func (c *Core) RequestSignIn(email string) { c.enqueue(signInEvent{email: email}) }

// RequestSignOut ends the session.
func (c *Core) RequestSignOut() { c.enqueue(signOutEvent{}) }

// CompleteSignIn exchanges a magic-link callback code for a session.
func (c *Core) CompleteSignIn(code string) { c.enqueue(completeSignInEvent{code: code}) }

// DeleteRecord removes one record of the signed-in identity.
func (c *Core) DeleteRecord(id string) { c.enqueue(deleteEvent{id: id}) }

// Reload fetches the records of the signed-in identity again.
func (c *Core) Reload() { c.enqueue(reloadEvent{}) }

func (c *Core) enqueue(ev event) {
	if !c.queue.Enqueue(ev) {
		c.log.Debug("event dropped after shutdown", slog.String("event", ev.name()))
	}
}

// spawn runs call on its own goroutine and queues its completion.
func (c *Core) spawn(call func(ctx context.Context) event) {
	ctx := c.runCtx
	c.inflight.Add(1)
	go func() {
		defer c.inflight.Done()
		c.queue.Enqueue(call(ctx))
	}()
}

func (c *Core) publish() {
	c.version++
	snap := c.st.snapshot(c.version)

	c.snapMu.Lock()
	c.snap = snap
	c.snapMu.Unlock()

	c.watchMu.Lock()
	fns := make([]func(Snapshot), 0, len(c.watchers))
	for i := 0; i < c.nextWatcher; i++ {
		if fn, ok := c.watchers[i]; ok {
			fns = append(fns, fn)
		}
	}
	c.watchMu.Unlock()

	for _, fn := range fns {
		fn(snap.clone())
	}
}
