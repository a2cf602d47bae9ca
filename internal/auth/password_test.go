package auth

import (
	"strings"
	"testing"
)

func TestHasher_Hash(t *testing.T) {
	h := NewHasher(nil)

	hash, err := h.Hash("changeme")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}
	if hash == "" || hash == "changeme" {
		t.Fatalf("Hash returned %q", hash)
	}
	if !strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$") {
		t.Errorf("unexpected hash prefix: %s", hash)
	}

	again, _ := h.Hash("changeme")
	if again == hash {
		t.Error("two hashes of the same password should differ (random salt)")
	}
}

func TestHasher_Verify(t *testing.T) {
	tests := []struct {
		name     string
		pepper   []byte
		password string
		attempt  string
		want     bool
	}{
		{"correct without pepper", nil, "changeme", "changeme", true},
		{"wrong without pepper", nil, "changeme", "wrongpassword", false},
		{"correct with pepper", []byte("pepper-key"), "changeme", "changeme", true},
		{"wrong with pepper", []byte("pepper-key"), "changeme", "changeme!", false},
		{"empty attempt", nil, "changeme", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHasher(tt.pepper)
			hash, err := h.Hash(tt.password)
			if err != nil {
				t.Fatalf("Hash error: %v", err)
			}
			got, err := h.Verify(tt.attempt, hash)
			if err != nil {
				t.Fatalf("Verify error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Verify(%q) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestHasher_PepperMismatch(t *testing.T) {
	hash, err := NewHasher([]byte("one")).Hash("changeme")
	if err != nil {
		t.Fatalf("Hash error: %v", err)
	}

	ok, err := NewHasher([]byte("two")).Verify("changeme", hash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if ok {
		t.Fatal("hash verified under a different pepper")
	}
}

func TestHasher_LegacyParameters(t *testing.T) {
	// Hash of "changeme" produced with m=65536,t=1,p=4 and no pepper.
	dbHash := "$argon2id$v=19$m=65536,t=1,p=4$mucMvOaS6lZ2LWNS1OEFKw$UYEWv8cvCOO6l2zGeqv3JPVe1nyy0x9GXBfYEuDM544"
	h := NewHasher(nil)

	valid, err := h.Verify("changeme", dbHash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if !valid {
		t.Fatal("legacy hash rejected correct password")
	}

	valid, err = h.Verify("wrongpassword", dbHash)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if valid {
		t.Fatal("legacy hash accepted wrong password")
	}

	if !NeedsRehash(dbHash) {
		t.Error("NeedsRehash(legacy) = false, want true")
	}
}

func TestNeedsRehash_Current(t *testing.T) {
	hash, _ := NewHasher(nil).Hash("x")
	if NeedsRehash(hash) {
		t.Error("NeedsRehash(current) = true, want false")
	}
}

func TestHasher_VerifyMalformed(t *testing.T) {
	h := NewHasher(nil)
	for _, bad := range []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=x$m=1,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1,t=1,p=1$!!!$aGFzaA",
	} {
		if ok, err := h.Verify("changeme", bad); err == nil || ok {
			t.Errorf("Verify(%q) = %v, %v; want false with error", bad, ok, err)
		}
	}
}
