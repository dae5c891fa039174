package rest

import (
	"log/slog"
	"net/http"
)

type sessionIntents interface {
	RequestSignIn(email string)
	RequestSignOut()
	CompleteSignIn(code string)
}

// AuthHandler serves sign-in and sign-out intents and the magic-link callback.
type AuthHandler struct {
	core sessionIntents
	log  *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(core sessionIntents, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{core: core, log: logger.With("handler", "auth")}
}

type signInRequest struct {
	Email string `json:"email"`
}

// SignIn handles POST /api/auth/sign-in. Blank emails are reported on the
// state's lastError like any other sign-in failure.
func (h *AuthHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req signInRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.core.RequestSignIn(req.Email)
	accepted(w)
}

// SignOut handles POST /api/auth/sign-out.
func (h *AuthHandler) SignOut(w http.ResponseWriter, r *http.Request) {
	h.core.RequestSignOut()
	accepted(w)
}

// Callback handles GET /auth/callback, the magic-link landing URL.
// It always redirects to the application root; exchange failures are logged.
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if code := q.Get("code"); code != "" {
		h.core.CompleteSignIn(code)
	} else {
		h.log.WarnContext(r.Context(), "callback without code",
			slog.String("error", q.Get("error")),
			slog.String("error_description", q.Get("error_description")),
		)
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}
