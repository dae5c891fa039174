package tonesync

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/records"
	"github.com/heartmarshall/tonememory/internal/service/session"
)

//go:generate moq -out session_manager_mock_test.go -pkg tonesync . sessionManager

// fakeSession is a session manager whose provider state is set by the test.
type fakeSession struct {
	*sessionManagerMock

	mu       sync.Mutex
	current  *domain.Identity
	listener func(session.Change)
}

func newFakeSession(initial *domain.Identity) *fakeSession {
	f := &fakeSession{current: initial.Clone()}
	f.sessionManagerMock = &sessionManagerMock{
		OnChangeFunc: func(fn func(session.Change)) func() {
			f.mu.Lock()
			f.listener = fn
			f.mu.Unlock()
			return func() {
				f.mu.Lock()
				f.listener = nil
				f.mu.Unlock()
			}
		},
		ProbeFunc: func(context.Context) (*domain.Identity, error) {
			f.mu.Lock()
			defer f.mu.Unlock()
			return f.current.Clone(), nil
		},
		RequestSignInFunc: func(context.Context, string) session.Outcome {
			return session.LinkSent()
		},
		RequestSignOutFunc: func(context.Context) error {
			f.emit(nil)
			return nil
		},
		CompleteSignInFunc: func(context.Context, string) error { return nil },
	}
	return f
}

// emit changes the provider identity and notifies the subscriber.
func (f *fakeSession) emit(id *domain.Identity) {
	f.mu.Lock()
	prev := f.current
	f.current = id.Clone()
	fn := f.listener
	f.mu.Unlock()

	if fn != nil {
		fn(session.Change{Previous: prev, Current: id.Clone()})
	}
}

func (f *fakeSession) currentIdentity() *domain.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current.Clone()
}

// memStore is an in-memory record store. Creation times advance one minute
// per record in arrival order.
type memStore struct {
	mu         sync.Mutex
	clock      time.Time
	nextID     int
	rows       []domain.ToneRecord
	listGates  map[string]chan struct{}
	insertGate chan struct{}
	insertErr  error
	listCalls  map[string]int
	inserts    int
}

func newMemStore() *memStore {
	return &memStore{
		clock:     time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		listGates: make(map[string]chan struct{}),
		listCalls: make(map[string]int),
	}
}

func (m *memStore) seed(owner, name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.add(owner, domain.Draft{Name: name}.Normalize())
}

func (m *memStore) add(owner string, tone domain.NewTone) domain.ToneRecord {
	m.nextID++
	m.clock = m.clock.Add(time.Minute)
	rec := domain.ToneRecord{
		ID:        fmt.Sprintf("t%d", m.nextID),
		OwnerID:   owner,
		Name:      tone.Name,
		Amp:       tone.Amp,
		Cab:       tone.Cab,
		Guitar:    tone.Guitar,
		Pedals:    tone.Pedals,
		Notes:     tone.Notes,
		Tags:      tone.Tags,
		CreatedAt: m.clock,
	}
	m.rows = append(m.rows, rec)
	return rec
}

// gateList blocks ListFor for owner until release is called.
func (m *memStore) gateList(owner string) (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.listGates[owner] = ch
	m.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			m.mu.Lock()
			delete(m.listGates, owner)
			m.mu.Unlock()
			close(ch)
		})
	}
}

// gateInsert blocks Insert until release is called.
func (m *memStore) gateInsert() (release func()) {
	ch := make(chan struct{})
	m.mu.Lock()
	m.insertGate = ch
	m.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(ch) }) }
}

func (m *memStore) lists(owner string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.listCalls[owner]
}

func (m *memStore) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

func (m *memStore) ListFor(ctx context.Context, ownerID string) ([]domain.ToneRecord, error) {
	m.mu.Lock()
	gate := m.listGates[ownerID]
	m.listCalls[ownerID]++
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	out := []domain.ToneRecord{}
	for _, r := range m.rows {
		if r.OwnerID == ownerID {
			out = append(out, r)
		}
	}
	out = domain.CloneRecords(out)
	records.SortNewestFirst(out)
	return out, nil
}

func (m *memStore) Insert(ctx context.Context, ownerID string, draft domain.Draft) (*domain.ToneRecord, error) {
	m.mu.Lock()
	gate := m.insertGate
	m.inserts++
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return nil, m.insertErr
	}
	if err := draft.ValidateForCommit(); err != nil {
		return nil, err
	}
	rec := m.add(ownerID, draft.Normalize())
	return &rec, nil
}

func (m *memStore) Delete(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, r := range m.rows {
		if r.ID == id && r.OwnerID == ownerID {
			m.rows = append(m.rows[:i], m.rows[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("delete record: %w", domain.ErrNotFound)
}
