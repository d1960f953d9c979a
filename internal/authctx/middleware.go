package authctx

import (
	"context"
	"net/http"

	"github.com/aliavon/ExpenseBuddy-sub001/internal/authz"
	"github.com/aliavon/ExpenseBuddy-sub001/internal/utils"
)

// ctxKey is unexported to prevent collisions.
type ctxKey string

const ctxKeyAuth ctxKey = "authContext"

// Middleware runs Enhance exactly once per request and attaches the result
// to the request context. Unauthenticated requests pass through; guard
// functions downstream decide what each handler requires.
func Middleware(e *Enhancer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authCtx, err := e.Enhance(r.Context(), r)
			if err != nil {
				utils.HandleAppError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyAuth, authCtx)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromContext returns the AuthContext attached by Middleware, or an
// anonymous one when the middleware did not run.
func FromContext(ctx context.Context) *authz.AuthContext {
	if authCtx, ok := ctx.Value(ctxKeyAuth).(*authz.AuthContext); ok && authCtx != nil {
		return authCtx
	}
	return authz.Anonymous("")
}
