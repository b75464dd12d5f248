// Package model defines domain entities for the application.
package model

// Identity is the authenticated user mirrored onto a request once the
// session middleware has resolved the session cookie. It is a transient,
// non-authoritative copy of the user record; the users table stays the
// source of truth.
type Identity struct {
	UserID   string `json:"user_id"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// DisplayName returns the name shown in the account header.
func (i *Identity) DisplayName() string {
	if i.Username != "" {
		return i.Username
	}
	return i.Email
}
