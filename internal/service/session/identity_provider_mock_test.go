package session

import (
	"context"
	"sync"

	"github.com/heartmarshall/tonememory/internal/domain"
)

var _ identityProvider = &identityProviderMock{}

type identityProviderMock struct {
	SendPasswordlessLinkFunc func(ctx context.Context, email, redirectTo string) error
	SignOutFunc              func(ctx context.Context) error
	ExchangeCodeFunc         func(ctx context.Context, code string) error
	CurrentSessionFunc       func(ctx context.Context) (*domain.Identity, error)
	SubscribeFunc            func(fn func(*domain.Identity)) func()

	calls struct {
		SendPasswordlessLink []struct {
			Ctx        context.Context
			Email      string
			RedirectTo string
		}
		SignOut      []struct{ Ctx context.Context }
		ExchangeCode []struct {
			Ctx  context.Context
			Code string
		}
		CurrentSession []struct{ Ctx context.Context }
		Subscribe      []struct{ Fn func(*domain.Identity) }
	}
	lockSendPasswordlessLink sync.RWMutex
	lockSignOut              sync.RWMutex
	lockExchangeCode         sync.RWMutex
	lockCurrentSession       sync.RWMutex
	lockSubscribe            sync.RWMutex
}

func (mock *identityProviderMock) SendPasswordlessLink(ctx context.Context, email, redirectTo string) error {
	if mock.SendPasswordlessLinkFunc == nil {
		panic("identityProviderMock.SendPasswordlessLinkFunc: method is nil but identityProvider.SendPasswordlessLink was just called")
	}
	callInfo := struct {
		Ctx        context.Context
		Email      string
		RedirectTo string
	}{Ctx: ctx, Email: email, RedirectTo: redirectTo}
	mock.lockSendPasswordlessLink.Lock()
	mock.calls.SendPasswordlessLink = append(mock.calls.SendPasswordlessLink, callInfo)
	mock.lockSendPasswordlessLink.Unlock()
	return mock.SendPasswordlessLinkFunc(ctx, email, redirectTo)
}

func (mock *identityProviderMock) SendPasswordlessLinkCalls() []struct {
	Ctx        context.Context
	Email      string
	RedirectTo string
} {
	mock.lockSendPasswordlessLink.RLock()
	calls := mock.calls.SendPasswordlessLink
	mock.lockSendPasswordlessLink.RUnlock()
	return calls
}

func (mock *identityProviderMock) SignOut(ctx context.Context) error {
	if mock.SignOutFunc == nil {
		panic("identityProviderMock.SignOutFunc: method is nil but identityProvider.SignOut was just called")
	}
	mock.lockSignOut.Lock()
	mock.calls.SignOut = append(mock.calls.SignOut, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockSignOut.Unlock()
	return mock.SignOutFunc(ctx)
}

func (mock *identityProviderMock) SignOutCalls() []struct{ Ctx context.Context } {
	mock.lockSignOut.RLock()
	calls := mock.calls.SignOut
	mock.lockSignOut.RUnlock()
	return calls
}

func (mock *identityProviderMock) ExchangeCode(ctx context.Context, code string) error {
	if mock.ExchangeCodeFunc == nil {
		panic("identityProviderMock.ExchangeCodeFunc: method is nil but identityProvider.ExchangeCode was just called")
	}
	callInfo := struct {
		Ctx  context.Context
		Code string
	}{Ctx: ctx, Code: code}
	mock.lockExchangeCode.Lock()
	mock.calls.ExchangeCode = append(mock.calls.ExchangeCode, callInfo)
	mock.lockExchangeCode.Unlock()
	return mock.ExchangeCodeFunc(ctx, code)
}

func (mock *identityProviderMock) ExchangeCodeCalls() []struct {
	Ctx  context.Context
	Code string
} {
	mock.lockExchangeCode.RLock()
	calls := mock.calls.ExchangeCode
	mock.lockExchangeCode.RUnlock()
	return calls
}

func (mock *identityProviderMock) CurrentSession(ctx context.Context) (*domain.Identity, error) {
	if mock.CurrentSessionFunc == nil {
		panic("identityProviderMock.CurrentSessionFunc: method is nil but identityProvider.CurrentSession was just called")
	}
	mock.lockCurrentSession.Lock()
	mock.calls.CurrentSession = append(mock.calls.CurrentSession, struct{ Ctx context.Context }{Ctx: ctx})
	mock.lockCurrentSession.Unlock()
	return mock.CurrentSessionFunc(ctx)
}

func (mock *identityProviderMock) CurrentSessionCalls() []struct{ Ctx context.Context } {
	mock.lockCurrentSession.RLock()
	calls := mock.calls.CurrentSession
	mock.lockCurrentSession.RUnlock()
	return calls
}

func (mock *identityProviderMock) Subscribe(fn func(*domain.Identity)) func() {
	if mock.SubscribeFunc == nil {
		panic("identityProviderMock.SubscribeFunc: method is nil but identityProvider.Subscribe was just called")
	}
	mock.lockSubscribe.Lock()
	mock.calls.Subscribe = append(mock.calls.Subscribe, struct{ Fn func(*domain.Identity) }{Fn: fn})
	mock.lockSubscribe.Unlock()
	return mock.SubscribeFunc(fn)
}

func (mock *identityProviderMock) SubscribeCalls() []struct{ Fn func(*domain.Identity) } {
	mock.lockSubscribe.RLock()
	calls := mock.calls.Subscribe
	mock.lockSubscribe.RUnlock()
	return calls
}
