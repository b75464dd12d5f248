package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/campusmart/campusmart/internal/auth"
	"github.com/campusmart/campusmart/internal/model"
)

// SessionResolver resolves a session cookie value into an identity.
// A guest request resolves to (nil, nil).
type SessionResolver interface {
	SessionFromToken(ctx context.Context, token string) (*model.Identity, error)
}

// SessionConfig holds configuration for the session middleware.
type SessionConfig struct {
	Logger     *slog.Logger
	Resolver   SessionResolver
	CookieName string
}

// Session returns a middleware that resolves the session cookie on every
// request and, when valid, places the identity and raw token on the request
// context. Guests pass through with no identity; this middleware never
// rejects a request.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(cfg.CookieName)
			if err != nil || cookie.Value == "" {
				next.ServeHTTP(w, r)
				return
			}

			identity, err := cfg.Resolver.SessionFromToken(r.Context(), cookie.Value)
			if err != nil {
				// Session store unavailable: treat as guest rather than
				// failing the whole page.
				cfg.Logger.Warn("session resolution failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				next.ServeHTTP(w, r)
				return
			}
			if identity == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := auth.ContextWithIdentity(r.Context(), identity)
			ctx = auth.ContextWithSessionToken(ctx, cookie.Value)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
