// Package model defines domain entities for the application.
package model

import "time"

// User represents a registered marketplace user.
// PasswordHash is the Argon2id hash in PHC string format and is never
// serialized.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	Bio          string    `json:"bio,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// DisplayName returns the name shown in the account header.
// Falls back to the email address when no username was provided,
// matching the signup flow where username is optional metadata.
func (u *User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return u.Email
}
