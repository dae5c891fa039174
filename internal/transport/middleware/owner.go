package middleware

import (
	"net/http"

	"github.com/heartmarshall/tonememory/internal/domain"
	"github.com/heartmarshall/tonememory/pkg/ctxutil"
)

type identitySource interface {
	Current() *domain.Identity
}

// Owner attaches the signed-in identity's id to the request context so
// request logs can be attributed. Anonymous requests pass through unchanged.
func Owner(src identitySource) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := src.Current()
			if id == nil {
				next.ServeHTTP(w, r)
				return
			}
			ctx := ctxutil.WithOwnerID(r.Context(), id.ID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
