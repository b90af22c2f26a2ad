package token

import (
	"strings"
	"testing"
)

func TestNewShareCode(t *testing.T) {
	code := NewShareCode()
	if len(code) != ShareCodeLen {
		t.Fatalf("length = %d, want %d", len(code), ShareCodeLen)
	}
	for _, c := range code {
		if !strings.ContainsRune(alphabet, c) {
			t.Fatalf("share code %q contains %q outside the alphabet", code, c)
		}
	}
}

func TestNewVoteToken(t *testing.T) {
	tok := NewVoteToken()
	if len(tok) != VoteTokenLen {
		t.Fatalf("length = %d, want %d", len(tok), VoteTokenLen)
	}
}

func TestTokensUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		tok := NewVoteToken()
		if seen[tok] {
			t.Fatalf("duplicate token after %d generations", i)
		}
		seen[tok] = true
	}
}

func TestSHA256Hex(t *testing.T) {
	// Known vector for the empty string.
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := SHA256Hex(""); got != want {
		t.Fatalf("SHA256Hex(\"\") = %q, want %q", got, want)
	}
}

func TestHashIP(t *testing.T) {
	a := HashIP("203.0.113.7", "salt-1")
	b := HashIP("203.0.113.7", "salt-1")
	if a != b {
		t.Fatal("hash must be stable for the same IP and salt")
	}
	if len(a) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(a))
	}

	if HashIP("203.0.113.7", "salt-2") == a {
		t.Fatal("different salts must produce different hashes")
	}
	if HashIP("203.0.113.8", "salt-1") == a {
		t.Fatal("different IPs must produce different hashes")
	}
	if strings.Contains(a, "203") {
		t.Fatal("hash must not leak the raw address")
	}
}
