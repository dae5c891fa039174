package tonesync

import (
	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/internal/service/session"
)

// event is anything processed by the Run loop: user intents, identity
// notifications and completions of remote calls.
type event interface {
	name() string
}

// Intents.

type setFieldEvent struct {
	field domain.DraftField
	value string
}

type commitEvent struct{}

type signInEvent struct{ email string }

type signOutEvent struct{}

type completeSignInEvent struct{ code string }

type deleteEvent struct{ id string }

type reloadEvent struct{}

// Notifications.

type identityEvent struct{ identity *domain.Identity }

// Completions. owner and seq identify the request that produced them.

type probeDone struct {
	seq      uint64
	identity *domain.Identity
	err      error
}

type fetchDone struct {
	owner   string
	seq     uint64
	records []domain.ToneRecord
	err     error
}

type insertDone struct {
	owner  string
	seq    uint64
	record *domain.ToneRecord
	err    error
}

type deleteDone struct {
	owner string
	id    string
	err   error
}

type signInDone struct{ outcome session.Outcome }

type signOutDone struct{ err error }

type completeSignInDone struct{ err error }

func (setFieldEvent) name() string       { return "set_field" }
func (commitEvent) name() string         { return "commit" }
func (signInEvent) name() string         { return "sign_in" }
func (signOutEvent) name() string        { return "sign_out" }
func (completeSignInEvent) name() string { return "complete_sign_in" }
func (deleteEvent) name() string         { return "delete" }
func (reloadEvent) name() string         { return "reload" }
func (identityEvent) name() string       { return "identity" }
func (probeDone) name() string           { return "probe_done" }
func (fetchDone) name() string           { return "fetch_done" }
func (insertDone) name() string          { return "insert_done" }
func (deleteDone) name() string          { return "delete_done" }
func (signInDone) name() string          { return "sign_in_done" }
func (signOutDone) name() string         { return "sign_out_done" }
func (completeSignInDone) name() string  { return "complete_sign_in_done" }
