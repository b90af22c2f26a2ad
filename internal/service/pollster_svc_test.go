package service

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/Sirlahm/vm-poll/internal/model"
)

func newPollsterReq(email, phone, name string) model.CreatePollsterRequest {
	return model.CreatePollsterRequest{Email: email, Phone: phone, Name: name}
}

func TestBuildPollster(t *testing.T) {
	p, err := buildPollster("poll-1", newPollsterReq("  Jo@Example.COM  ", "555-0100", " Jo "))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if p.Email != "jo@example.com" {
		t.Errorf("email = %q, want lowercased and trimmed", p.Email)
	}
	if p.Name != "Jo" || p.Phone != "555-0100" {
		t.Errorf("name/phone = %q/%q, want trimmed values", p.Name, p.Phone)
	}
	if len(p.VoteToken) != 32 {
		t.Errorf("vote token length = %d, want 32", len(p.VoteToken))
	}
	if p.HasVoted {
		t.Error("new pollster must not be marked as voted")
	}
}

func TestBuildPollster_InvalidEmail(t *testing.T) {
	for _, email := range []string{"", "   ", "not-an-email"} {
		if _, err := buildPollster("poll-1", newPollsterReq(email, "", "")); !IsValidation(err) {
			t.Errorf("email %q: err = %v, want validation error", email, err)
		}
	}
}

func TestBuildPollster_TokensUnique(t *testing.T) {
	a, _ := buildPollster("poll-1", newPollsterReq("a@example.com", "", ""))
	b, _ := buildPollster("poll-1", newPollsterReq("b@example.com", "", ""))
	if a.VoteToken == b.VoteToken {
		t.Fatal("two pollsters must never share a vote token")
	}
}

func TestPollsterInvite_CarriesToken(t *testing.T) {
	p, err := buildPollster("poll-1", newPollsterReq("jo@example.com", "", "Jo"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The creation response must surface the token; a closed poll is
	// unvotable without it.
	invite, err := json.Marshal(model.NewPollsterInvite(p))
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if !strings.Contains(string(invite), p.VoteToken) {
		t.Fatal("invite response must include the vote token")
	}

	// The plain pollster view stays masked for listings.
	listing, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal error: %v", err)
	}
	if strings.Contains(string(listing), p.VoteToken) {
		t.Fatal("pollster listing must not leak the vote token")
	}
}

func TestLooksLikeHeader(t *testing.T) {
	cases := []struct {
		record []string
		want   bool
	}{
		{[]string{"email", "phone", "name"}, true},
		{[]string{" Email ", "Phone"}, true},
		{[]string{"jo@example.com", "555-0100", "Jo"}, false},
		{[]string{}, false},
	}
	for _, tc := range cases {
		if got := looksLikeHeader(tc.record); got != tc.want {
			t.Errorf("looksLikeHeader(%v) = %v, want %v", tc.record, got, tc.want)
		}
	}
}

func TestField_OutOfRange(t *testing.T) {
	record := []string{"a", "b"}
	if field(record, 1) != "b" {
		t.Error("in-range field lookup failed")
	}
	if field(record, 5) != "" {
		t.Error("out-of-range field must be empty")
	}
}
