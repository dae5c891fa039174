package tonesync

import (
	"context"
	"sync"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/session"
)

var _ sessionManager = &sessionManagerMock{}

type sessionManagerMock struct {
	OnChangeFunc       func(fn func(session.Change)) func()
	ProbeFunc          func(ctx context.Context) (*domain.Identity, error)
	RequestSignInFunc  func(ctx context.Context, email string) session.Outcome
	RequestSignOutFunc func(ctx context.Context) error
	CompleteSignInFunc func(ctx context.Context, code string) error

	calls struct {
		OnChange      []struct{ Fn func(session.Change) }
		Probe         []struct{ Ctx context.Context }
		RequestSignIn []struct {
			Ctx   context.Context
			Email string
		}
		RequestSignOut []struct{ Ctx context.Context }
		CompleteSignIn []struct {
			Ctx  context.Context
			Code string
		}
	}
	lockOnChange       sync.RWMutex
	lockProbe          sync.RWMutex
	lockRequestSignIn  sync.RWMutex
	lockRequestSignOut sync.RWMutex
	lockCompleteSignIn sync.RWMutex
}

func (mock *sessionManagerMock) OnChange(fn func(session.Change)) func() {
	if mock.OnChangeFunc == nil {
		panic("sessionManagerMock.OnChangeFunc: method is nil but sessionManager.OnChange was just called")
	}
	mock.lockOnChange.Lock()
	mock.calls.OnChange = append(mock.calls.OnChange, struct{ Fn func(session.Change) }{Fn: fn})
	mock.lockOnChange.Unlock()
	return mock.OnChangeFunc(fn)
}

func (mock *sessionManagerMock) OnChangeCalls() []struct{ Fn func(session.Change) } {
	mock.lockOnChange.RLock()
	calls := mock.calls.OnChange
	mock.lockOnChange.RUnlock()
	return calls
}

func (mock *sessionManagerMock) Probe(ctx context.Context) (*domain.Identity, error) {
	if mock.ProbeFunc == nil {
		panic("sessionManagerMock.ProbeFunc: method is nil but sessionManager.Probe was just called")
	}
	mock.lockProbe.Lock()
	mock.calls.Probe = append(mock.calls.Probe, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockProbe.Unlock()
	return mock.ProbeFunc(ctx)
}

func (mock *sessionManagerMock) ProbeCalls() []struct{ Ctx context.Context } {
	mock.lockProbe.RLock()
	calls := mock.calls.Probe
	mock.lockProbe.RUnlock()
	return calls
}

func (mock *sessionManagerMock) RequestSignIn(ctx context.Context, email string) session.Outcome {
	if mock.RequestSignInFunc == nil {
		panic("sessionManagerMock.RequestSignInFunc: method is nil but sessionManager.RequestSignIn was just called")
	}
	callInfo := struct {
		Ctx   context.Context
		Email string
	}{Ctx: ctx, Email: email}
	mock.lockRequestSignIn.Lock()
	mock.calls.RequestSignIn = append(mock.calls.RequestSignIn, callInfo)
	mock.lockRequestSignIn.Unlock()
	return mock.RequestSignInFunc(ctx, email)
}

func (mock *sessionManagerMock) RequestSignInCalls() []struct {
	Ctx   context.Context
	Email string
} {
	mock.lockRequestSignIn.RLock()
	calls := mock.calls.RequestSignIn
	mock.lockRequestSignIn.RUnlock()
	return calls
}

func (mock *sessionManagerMock) RequestSignOut(ctx context.Context) error {
	if mock.RequestSignOutFunc == nil {
		panic("sessionManagerMock.RequestSignOutFunc: method is nil but sessionManager.RequestSignOut was just called")
	}
	mock.lockRequestSignOut.Lock()
	mock.calls.RequestSignOut = append(mock.calls.RequestSignOut, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockRequestSignOut.Unlock()
	return mock.RequestSignOutFunc(ctx)
}

func (mock *sessionManagerMock) RequestSignOutCalls() []struct{ Ctx context.Context } {
	mock.lockRequestSignOut.RLock()
	calls := mock.calls.RequestSignOut
	mock.lockRequestSignOut.RUnlock()
	return calls
}

func (mock *sessionManagerMock) CompleteSignIn(ctx context.Context, code string) error {
	if mock.CompleteSignInFunc == nil {
		panic("sessionManagerMock.CompleteSignInFunc: method is nil but sessionManager.CompleteSignIn was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Code string
	}{Ctx: ctx, Code: code}
	mock.lockCompleteSignIn.Lock()
	mock.calls.CompleteSignIn = append(mock.calls.CompleteSignIn, callInfo)
	mock.lockCompleteSignIn.Unlock()
	return mock.CompleteSignInFunc(ctx, code)
}

func (mock *sessionManagerMock) CompleteSignInCalls() []struct {
	Ctx  context.Context
	Code string
} {
	mock.lockCompleteSignIn.RLock()
	calls := mock.calls.CompleteSignIn
	mock.lockCompleteSignIn.RUnlock()
	return calls
}
