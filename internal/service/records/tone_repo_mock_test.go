package records

import (
	"context"
	"sync"

	"github.com/heartmarshall/tonememory/internal/domain"
)

var _ toneRepo = &toneRepoMock{}

type toneRepoMock struct {
	ListFunc   func(ctx context.Context, ownerID string) ([]domain.ToneRecord, error)
	InsertFunc func(ctx context.Context, ownerID string, tone domain.NewTone) (*domain.ToneRecord, error)
	DeleteFunc func(ctx context.Context, ownerID, id string) error

	calls struct {
		List []struct {
			Ctx     context.Context
			OwnerID string
		}
		Insert []struct {
			Ctx     context.Context
			OwnerID string
			Tone    domain.NewTone
		}
		Delete []struct {
			Ctx     context.Context
			OwnerID string
			ID      string
		}
	}
	lockList   sync.RWMutex
	lockInsert sync.RWMutex
	lockDelete sync.RWMutex
}

func (mock *toneRepoMock) List(ctx context.Context, ownerID string) ([]domain.ToneRecord, error) {
	if mock.ListFunc == nil {
		panic("toneRepoMock.ListFunc: method is nil but toneRepo.List was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		OwnerID string
	}{Ctx: ctx, OwnerID: ownerID}
	mock.lockList.Lock()
	mock.calls.List = append(mock.calls.List, callInfo)
	mock.lockList.Unlock()
	return mock.ListFunc(ctx, ownerID)
}

func (mock *toneRepoMock) ListCalls() []struct {
	Ctx     context.Context
	OwnerID string
} {
	mock.lockList.RLock()
	calls := mock.calls.List
	mock.lockList.RUnlock()
	return calls
}

func (mock *toneRepoMock) Insert(ctx context.Context, ownerID string, tone domain.NewTone) (*domain.ToneRecord, error) {
	if mock.InsertFunc == nil {
		panic("toneRepoMock.InsertFunc: method is nil but toneRepo.Insert was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		OwnerID string
		Tone    domain.NewTone
	}{Ctx: ctx, OwnerID: ownerID, Tone: tone}
	mock.lockInsert.Lock()
	mock.calls.Insert = append(mock.calls.Insert, callInfo)
	mock.lockInsert.Unlock()
	return mock.InsertFunc(ctx, ownerID, tone)
}

func (mock *toneRepoMock) InsertCalls() []struct {
	Ctx     context.Context
	OwnerID string
	Tone    domain.NewTone
} {
	mock.lockInsert.RLock()
	calls := mock.calls.Insert
	mock.lockInsert.RUnlock()
	return calls
}

func (mock *toneRepoMock) Delete(ctx context.Context, ownerID, id string) error {
	if mock.DeleteFunc == nil {
		panic("toneRepoMock.DeleteFunc: method is nil but toneRepo.Delete was just called")
	}
	callInfo := struct {
		Ctx     context.Context
		OwnerID string
		ID      string
	}{Ctx: ctx, OwnerID: ownerID, ID: id}
	mock.lockDelete.Lock()
	mock.calls.Delete = append(mock.calls.Delete, callInfo)
	mock.lockDelete.Unlock()
	return mock.DeleteFunc(ctx, ownerID, id)
}

func (mock *toneRepoMock) DeleteCalls() []struct {
	Ctx     context.Context
	OwnerID string
	ID      string
} {
	mock.lockDelete.RLock()
	calls := mock.calls.Delete
	mock.lockDelete.RUnlock()
	return calls
}
