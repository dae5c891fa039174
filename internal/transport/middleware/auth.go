package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// AccessTokenParam is the query parameter accepted in place of the
// Authorization header, for clients such as EventSource that cannot set it.
const AccessTokenParam = "access_token"

// Auth returns middleware that rejects requests not carrying token, either
// as a bearer token or in the access_token query parameter.
func Auth(token string) Middleware {
	want := []byte(token)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got := extractBearerToken(r)
			if got == "" {
				got = r.URL.Query().Get(AccessTokenParam)
			}
			if len(want) == 0 || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				w.Header().Set("WWW-Authenticate", "Bearer")
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func extractBearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	if !strings.HasPrefix(auth, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(auth, "Bearer ")
}
