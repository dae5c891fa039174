package tonesync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/session"
)

const (
	msgSignInRequired = "sign in required"
	msgTimeout        = "request timed out"
)

var (
	errSessionActive  = domain.NewValidationError("session", "already active")
	errSessionLoading = domain.NewValidationError("session", "loading")
)

// process applies ev to the state. It reports whether a snapshot should be
// published.
func (c *Core) process(ev event) bool {
	switch e := ev.(type) {
	case setFieldEvent:
		return c.onSetField(e)
	case commitEvent:
		return c.onCommit()
	case signInEvent:
		return c.onSignIn(e)
	case signOutEvent:
		return c.onSignOut()
	case completeSignInEvent:
		return c.onCompleteSignIn(e)
	case deleteEvent:
		return c.onDelete(e)
	case reloadEvent:
		return c.onReload()
	case identityEvent:
		return c.onIdentity(e)
	case probeDone:
		return c.onProbeDone(e)
	case fetchDone:
		return c.onFetchDone(e)
	case insertDone:
		return c.onInsertDone(e)
	case deleteDone:
		return c.onDeleteDone(e)
	case signInDone:
		return c.onSignInDone(e)
	case signOutDone:
		return c.onSignOutDone(e)
	case completeSignInDone:
		if e.err != nil {
			c.log.WarnContext(c.runCtx, "sign-in completion failed", slog.String("error", e.err.Error()))
		}
		return false
	default:
		c.log.Error("unknown event", slog.String("event", ev.name()))
		return false
	}
}

// ─── Identity ───────────────────────────────────────────────────────────────

func (c *Core) onIdentity(e identityEvent) bool {
	next := e.identity
	same := domain.SameIdentity(c.st.identity, next)

	switch {
	case c.st.phase == PhaseUninitialized:
		return false
	case same && c.st.phase != PhaseLoading:
		c.log.Debug("identity notification ignored", slog.String("owner_id", next.OwnerID()))
		return false
	case same && next != nil:
		// A probe for this identity is already outstanding.
		return false
	}

	c.log.InfoContext(c.runCtx, "identity changed",
		slog.String("from", c.st.identity.OwnerID()),
		slog.String("to", next.OwnerID()),
	)

	c.st.probeSeq++
	c.adopt(next)
	c.st.notice = ""
	c.st.lastError = nil

	if next == nil {
		c.st.phase = PhaseUnauthenticated
		return true
	}
	c.startProbe()
	return true
}

func (c *Core) startProbe() {
	c.st.phase = PhaseLoading
	c.st.probeSeq++
	seq := c.st.probeSeq

	c.spawn(func(ctx context.Context) event {
		id, err := c.session.Probe(ctx)
		return probeDone{seq: seq, identity: id, err: err}
	})
}

func (c *Core) onProbeDone(e probeDone) bool {
	if e.seq != c.st.probeSeq || c.st.phase != PhaseLoading {
		c.stale(e, "superseded probe")
		return false
	}

	switch {
	case e.err != nil:
		c.adopt(nil)
		c.st.phase = PhaseUnauthenticated
		c.fail(e.err)
	case e.identity == nil:
		c.adopt(nil)
		c.st.phase = PhaseUnauthenticated
	default:
		c.adopt(e.identity)
		c.st.phase = PhaseAuthenticated
		c.fetch()
	}
	return true
}

// adopt switches to id. Records and outstanding fetches of the previous
// identity are dropped. The draft is kept: it is cleared only by a
// successful commit.
func (c *Core) adopt(id *domain.Identity) {
	c.st.identity = id.Clone()
	c.st.records = []domain.ToneRecord{}
	c.st.appliedSeq = c.st.fetchSeq
}

// ─── Records ────────────────────────────────────────────────────────────────

func (c *Core) fetch() {
	owner := c.st.identity.OwnerID()
	c.st.fetchSeq++
	seq := c.st.fetchSeq

	c.spawn(func(ctx context.Context) event {
		recs, err := c.records.ListFor(ctx, owner)
		return fetchDone{owner: owner, seq: seq, records: recs, err: err}
	})
}

func (c *Core) onFetchDone(e fetchDone) bool {
	if e.owner != c.st.identity.OwnerID() {
		c.stale(e, "owner changed")
		return false
	}
	if e.seq <= c.st.appliedSeq {
		c.stale(e, "newer fetch applied")
		return false
	}

	c.st.appliedSeq = e.seq
	if e.err != nil {
		c.fail(e.err)
		return true
	}
	c.st.records = e.records
	if c.st.records == nil {
		c.st.records = []domain.ToneRecord{}
	}
	return true
}

func (c *Core) onReload() bool {
	if !c.signedIn() {
		return false
	}
	c.fetch()
	return true
}

func (c *Core) onDelete(e deleteEvent) bool {
	if c.st.identity == nil {
		c.fail(fmt.Errorf("delete record: %w", domain.ErrUnauthorized))
		return true
	}
	if !c.signedIn() {
		return false
	}

	c.st.lastError = nil
	c.st.notice = ""
	owner := c.st.identity.OwnerID()
	c.spawn(func(ctx context.Context) event {
		return deleteDone{owner: owner, id: e.id, err: c.records.Delete(ctx, owner, e.id)}
	})
	return true
}

func (c *Core) onDeleteDone(e deleteDone) bool {
	if e.owner != c.st.identity.OwnerID() {
		c.stale(e, "owner changed")
		return false
	}
	if e.err != nil {
		c.fail(e.err)
	}
	c.fetch()
	return true
}

// ─── Draft ──────────────────────────────────────────────────────────────────

func (c *Core) onSetField(e setFieldEvent) bool {
	if c.st.phase == PhaseSubmitting {
		c.log.Debug("draft edit ignored while submitting", slog.String("field", string(e.field)))
		return false
	}
	if err := c.st.draft.SetField(e.field, e.value); err != nil {
		c.fail(err)
	}
	return true
}

func (c *Core) onCommit() bool {
	switch {
	case c.st.phase == PhaseSubmitting:
		c.log.Debug("commit ignored, already submitting")
		return false
	case c.st.identity == nil:
		c.fail(fmt.Errorf("commit draft: %w", domain.ErrUnauthorized))
		return true
	case c.st.phase != PhaseAuthenticated:
		c.fail(errSessionLoading)
		return true
	}

	c.st.notice = ""
	if err := c.st.draft.ValidateForCommit(); err != nil {
		c.fail(err)
		return true
	}

	c.st.lastError = nil
	c.st.phase = PhaseSubmitting
	c.st.submitSeq++
	owner, seq, draft := c.st.identity.OwnerID(), c.st.submitSeq, c.st.draft

	c.spawn(func(ctx context.Context) event {
		rec, err := c.records.Insert(ctx, owner, draft)
		return insertDone{owner: owner, seq: seq, record: rec, err: err}
	})
	return true
}

func (c *Core) onInsertDone(e insertDone) bool {
	if c.st.phase != PhaseSubmitting || e.seq != c.st.submitSeq || e.owner != c.st.identity.OwnerID() {
		c.stale(e, "identity changed while submitting")
		return false
	}

	c.st.phase = PhaseAuthenticated
	if e.err != nil {
		c.fail(e.err)
	} else {
		c.st.draft.Clear()
	}
	c.fetch()
	return true
}

// ─── Session intents ────────────────────────────────────────────────────────

func (c *Core) onSignIn(e signInEvent) bool {
	if c.st.identity != nil {
		c.fail(errSessionActive)
		return true
	}

	c.st.lastError = nil
	c.st.notice = ""
	c.spawn(func(ctx context.Context) event {
		return signInDone{outcome: c.session.RequestSignIn(ctx, e.email)}
	})
	return true
}

func (c *Core) onSignInDone(e signInDone) bool {
	if !e.outcome.OK() {
		c.st.lastError = &LastError{Kind: domain.KindOf(e.outcome.Err), Message: e.outcome.Reason}
		return true
	}
	if c.st.identity == nil {
		c.st.notice = NoticeLinkSent
	}
	return true
}

func (c *Core) onSignOut() bool {
	if c.st.identity == nil {
		return false
	}

	c.st.lastError = nil
	c.st.notice = ""
	c.spawn(func(ctx context.Context) event {
		return signOutDone{err: c.session.RequestSignOut(ctx)}
	})
	return true
}

func (c *Core) onSignOutDone(e signOutDone) bool {
	if e.err == nil {
		return false
	}
	c.fail(e.err)
	return true
}

func (c *Core) onCompleteSignIn(e completeSignInEvent) bool {
	c.spawn(func(ctx context.Context) event {
		return completeSignInDone{err: c.session.CompleteSignIn(ctx, e.code)}
	})
	return false
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// signedIn reports whether record operations may run.
func (c *Core) signedIn() bool {
	return c.st.identity != nil &&
		(c.st.phase == PhaseAuthenticated || c.st.phase == PhaseSubmitting)
}

func (c *Core) fail(err error) {
	le := describe(err)
	c.st.lastError = &le
	c.log.WarnContext(c.runCtx, "operation failed",
		slog.String("kind", string(le.Kind)),
		slog.String("error", err.Error()),
	)
}

func (c *Core) stale(ev event, reason string) {
	c.log.DebugContext(c.runCtx, "result discarded",
		slog.String("kind", string(domain.KindStale)),
		slog.String("event", ev.name()),
		slog.String("reason", reason),
	)
}

// describe turns err into a user-visible error.
func describe(err error) LastError {
	kind := domain.KindOf(err)
	le := LastError{Kind: kind, Message: err.Error()}

	var ve *domain.ValidationError
	switch kind {
	case domain.KindValidation:
		if errors.As(err, &ve) {
			le.Message = ve.Error()
		}
	case domain.KindUnauthorized:
		le.Message = msgSignInRequired
	case domain.KindIdentityRequest:
		le.Message = session.ReasonFor(err)
	case domain.KindTimeout:
		le.Message = msgTimeout
	}
	return le
}
