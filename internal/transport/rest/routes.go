package rest

import (
	"net/http"

	"github.com/heartmarshall/tonememory/internal/transport/middleware"
)

// Handlers groups the REST handlers mounted by Register.
type Handlers struct {
	Health  *HealthHandler
	State   *StateHandler
	Draft   *DraftHandler
	Auth    *AuthHandler
	Records *RecordsHandler
}

// Register mounts every route on mux. limitSignIn wraps the sign-in intent
// and requireToken wraps every /api route. Health checks and the magic-link
// callback stay open.
func (h Handlers) Register(mux *http.ServeMux, limitSignIn, requireToken middleware.Middleware) {
	mux.HandleFunc("GET /live", h.Health.Live)
	mux.HandleFunc("GET /ready", h.Health.Ready)
	mux.HandleFunc("GET /health", h.Health.Health)
	mux.HandleFunc("GET /auth/callback", h.Auth.Callback)

	api := func(pattern string, fn http.HandlerFunc, mws ...middleware.Middleware) {
		mux.Handle(pattern, middleware.Chain(append([]middleware.Middleware{requireToken}, mws...)...)(fn))
	}

	api("GET /api/state", h.State.State)
	api("GET /api/state/stream", h.State.Stream)

	api("PUT /api/draft/fields/{field}", h.Draft.SetField)
	api("POST /api/draft/commit", h.Draft.Commit)

	api("POST /api/auth/sign-in", h.Auth.SignIn, limitSignIn)
	api("POST /api/auth/sign-out", h.Auth.SignOut)

	api("DELETE /api/records/{id}", h.Records.Delete)
	api("POST /api/records/reload", h.Records.Reload)
}
