package rest

import (
	"sync"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/tonesync"
)

// fakeCore records intents and serves snapshots set by the test.
type fakeCore struct {
	mu       sync.Mutex
	snap     tonesync.Snapshot
	watchers map[int]func(tonesync.Snapshot)
	next     int
	calls    []string
}

func newFakeCore(snap tonesync.Snapshot) *fakeCore {
	return &fakeCore{snap: snap, watchers: make(map[int]func(tonesync.Snapshot))}
}

func startedCore() *fakeCore {
	return newFakeCore(tonesync.Snapshot{Version: 1, Phase: tonesync.PhaseUnauthenticated, Records: []domain.ToneRecord{}})
}

func (f *fakeCore) Snapshot() tonesync.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeCore) Watch(fn func(tonesync.Snapshot)) func() {
	f.mu.Lock()
	id := f.next
	f.next++
	f.watchers[id] = fn
	f.mu.Unlock()
	return func() {
		f.mu.Lock()
		delete(f.watchers, id)
		f.mu.Unlock()
	}
}

func (f *fakeCore) watching() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.watchers)
}

func (f *fakeCore) publish(s tonesync.Snapshot) {
	f.mu.Lock()
	f.snap = s
	fns := make([]func(tonesync.Snapshot), 0, len(f.watchers))
	for _, fn := range f.watchers {
		fns = append(fns, fn)
	}
	f.mu.Unlock()
	for _, fn := range fns {
		fn(s)
	}
}

func (f *fakeCore) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeCore) recorded() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeCore) SetField(name, value string) error {
	if _, err := domain.ParseDraftField(name); err != nil {
		return err
	}
	f.record("set_field " + name + "=" + value)
	return nil
}

func (f *fakeCore) CommitDraft()               { f.record("commit") }
func (f *fakeCore) RequestSignIn(email string) { f.record("sign_in " + email) }
func (f *fakeCore) RequestSignOut()            { f.record("sign_out") }
func (f *fakeCore) CompleteSignIn(code string) { f.record("complete_sign_in " + code) }
func (f *fakeCore) DeleteRecord(id string)     { f.record("delete " + id) }
func (f *fakeCore) Reload()                    { f.record("reload") }
