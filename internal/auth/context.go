package auth

import (
	"context"

	"github.com/campusmart/campusmart/internal/model"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// identityContextKey is the context key for storing the Identity.
	identityContextKey contextKey = "identity"
	// sessionTokenContextKey is the context key for the raw session token.
	sessionTokenContextKey contextKey = "session_token"
)

// ContextWithIdentity adds the authenticated Identity to the context.
func ContextWithIdentity(ctx context.Context, id *model.Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, id)
}

// IdentityFromContext retrieves the Identity from the context.
// Returns nil for guest (unauthenticated) requests.
func IdentityFromContext(ctx context.Context) *model.Identity {
	id, ok := ctx.Value(identityContextKey).(*model.Identity)
	if !ok {
		return nil
	}
	return id
}

// ContextWithSessionToken stores the raw session token on the context so the
// logout handler can revoke exactly the session that authenticated the request.
func ContextWithSessionToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, sessionTokenContextKey, token)
}

// SessionTokenFromContext retrieves the raw session token from the context.
// Returns empty string for guest requests.
func SessionTokenFromContext(ctx context.Context) string {
	token, ok := ctx.Value(sessionTokenContextKey).(string)
	if !ok {
		return ""
	}
	return token
}

// UserIDFromContext is a convenience function to get the user ID.
// Returns empty string if not authenticated.
func UserIDFromContext(ctx context.Context) string {
	id := IdentityFromContext(ctx)
	if id == nil {
		return ""
	}
	return id.UserID
}
