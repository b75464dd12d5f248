package auth

import (
	"strings"
	"testing"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("campus-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$") {
		t.Errorf("hash not in PHC format: %s", hash)
	}

	// Salting must make identical passwords hash differently.
	hash2, err := HashPassword("campus-secret")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if hash == hash2 {
		t.Error("two hashes of the same password are identical")
	}
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse")
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	ok, err := VerifyPassword("correct horse", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if !ok {
		t.Error("correct password rejected")
	}

	ok, err = VerifyPassword("wrong horse", hash)
	if err != nil {
		t.Fatalf("VerifyPassword: %v", err)
	}
	if ok {
		t.Error("wrong password accepted")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	cases := []string{
		"",
		"not-a-hash",
		"$argon2i$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=18$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=65536,t=3,p=4$!!!$aGFzaA",
	}
	for _, encoded := range cases {
		if _, err := VerifyPassword("pw", encoded); err == nil {
			t.Errorf("expected error for hash %q", encoded)
		}
	}
}

func TestQuickHash(t *testing.T) {
	t.Parallel()

	h := QuickHash("st_abc")
	if len(h) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(h))
	}
	if h != QuickHash("st_abc") {
		t.Error("QuickHash is not deterministic")
	}
	if h == QuickHash("st_abd") {
		t.Error("different inputs produced the same digest")
	}
}
