package http

import (
	"context"
	"net/http"
)

// TokenHeader carries the opaque session token on authenticated requests.
const TokenHeader = "X-Token"

type userIDKey struct{}

// TokenResolver resolves a session token to a user id. Implemented by
// filecab.AuthService.
type TokenResolver interface {
	ResolveUser(ctx context.Context, token string) (string, error)
}

// RequireAuth rejects requests whose X-Token does not resolve to a live
// session and stores the resolved user id in the request context.
func RequireAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, err := resolver.ResolveUser(r.Context(), r.Header.Get(TokenHeader))
			if err != nil {
				HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(withUserID(r.Context(), userID)))
		})
	}
}

// OptionalAuth resolves X-Token when present but lets the request through
// either way. Used by the content endpoint, where public files are readable
// without a session.
func OptionalAuth(resolver TokenResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if token := r.Header.Get(TokenHeader); token != "" {
				if userID, err := resolver.ResolveUser(ctx, token); err == nil {
					ctx = withUserID(ctx, userID)
				}
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func withUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext returns the authenticated user id, or "" when the
// request carried no valid session.
func UserIDFromContext(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey{}).(string)
	return userID
}
