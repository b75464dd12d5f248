package model

import "testing"

func TestUserDisplayName(t *testing.T) {
	t.Parallel()

	u := &User{Email: "jo@campus.edu", Username: "jo"}
	if got := u.DisplayName(); got != "jo" {
		t.Errorf("DisplayName() = %q, want username", got)
	}

	u.Username = ""
	if got := u.DisplayName(); got != "jo@campus.edu" {
		t.Errorf("DisplayName() = %q, want email fallback", got)
	}
}

func TestIdentityDisplayName(t *testing.T) {
	t.Parallel()

	i := &Identity{Email: "jo@campus.edu"}
	if got := i.DisplayName(); got != "jo@campus.edu" {
		t.Errorf("DisplayName() = %q, want email fallback", got)
	}

	i.Username = "jo"
	if got := i.DisplayName(); got != "jo" {
		t.Errorf("DisplayName() = %q, want username", got)
	}
}
