package tonesync

import "github.com/heartmarshall/tonememory/internal/domain"

// Phase is the lifecycle stage of the core.
type Phase int

const (
	PhaseUninitialized Phase = iota
	PhaseLoading
	PhaseUnauthenticated
	PhaseAuthenticated
	PhaseSubmitting
)

func (p Phase) String() string {
	switch p {
	case PhaseUninitialized:
		return "uninitialized"
	case PhaseLoading:
		return "loading"
	case PhaseUnauthenticated:
		return "unauthenticated"
	case PhaseAuthenticated:
		return "authenticated"
	case PhaseSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// NoticeLinkSent is shown after the provider accepted a sign-in link request.
const NoticeLinkSent = "Check your email for the login link."

// LastError is the most recent user-visible failure.
type LastError struct {
	Kind    domain.ErrorKind
	Message string
}

// Snapshot is an immutable copy of the core state.
// Version increases by one with every published change.
type Snapshot struct {
	Version          uint64
	Phase            Phase
	Identity         *domain.Identity
	IsLoadingRecords bool
	Records          []domain.ToneRecord
	Draft            domain.Draft
	IsSubmitting     bool
	LastError        *LastError
	Notice           string
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Identity = s.Identity.Clone()
	out.Records = domain.CloneRecords(s.Records)
	if s.LastError != nil {
		le := *s.LastError
		out.LastError = &le
	}
	return out
}

// state is owned by the Run loop.
type state struct {
	phase    Phase
	identity *domain.Identity
	records  []domain.ToneRecord
	draft    domain.Draft

	// probeSeq tags the outstanding session probe.
	probeSeq uint64
	// fetchSeq is the last issued fetch; appliedSeq the last applied or superseded one.
	fetchSeq   uint64
	appliedSeq uint64
	// submitSeq tags the outstanding insert.
	submitSeq uint64

	lastError *LastError
	notice    string
}

func (s *state) snapshot(version uint64) Snapshot {
	return Snapshot{
		Version:          version,
		Phase:            s.phase,
		Identity:         s.identity.Clone(),
		IsLoadingRecords: s.identity != nil && s.fetchSeq > s.appliedSeq,
		Records:          domain.CloneRecords(s.records),
		Draft:            s.draft,
		IsSubmitting:     s.phase == PhaseSubmitting,
		LastError:        cloneLastError(s.lastError),
		Notice:           s.notice,
	}
}

func cloneLastError(le *LastError) *LastError {
	if le == nil {
		return nil
	}
	c := *le
	return &c
}
