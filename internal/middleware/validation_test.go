package middleware

import (
	"strings"
	"testing"
)

func TestValidatePollID(t *testing.T) {
	cases := []struct {
		name   string
		in     string
		wantOK bool
	}{
		{"valid", "a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", true},
		{"uppercase normalized", "A1B2C3D4-E5F6-4A7B-8C9D-0E1F2A3B4C5D", true},
		{"padded", "  a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d  ", true},
		{"empty", "", false},
		{"not a uuid", "poll-123", false},
		{"sql injection", "'; DROP TABLE polls;--", false},
	}

	for _, tc := range cases {
		id, errMsg := ValidatePollID(tc.in)
		if tc.wantOK && errMsg != "" {
			t.Errorf("%s: unexpected error %q", tc.name, errMsg)
		}
		if !tc.wantOK && errMsg == "" {
			t.Errorf("%s: expected an error for %q", tc.name, tc.in)
		}
		if tc.wantOK && id != strings.ToLower(strings.TrimSpace(tc.in)) {
			t.Errorf("%s: id = %q, want normalized input", tc.name, id)
		}
	}
}

func TestValidateShareCode(t *testing.T) {
	if _, errMsg := ValidateShareCode("Ab3dEf9h"); errMsg != "" {
		t.Errorf("valid code rejected: %s", errMsg)
	}
	for _, bad := range []string{"", "short", "waytoolongcode", "has space", "bad/char"} {
		if _, errMsg := ValidateShareCode(bad); errMsg == "" {
			t.Errorf("expected rejection for %q", bad)
		}
	}
}

func TestValidateVoteToken(t *testing.T) {
	// Empty is valid: open polls take no token.
	if _, errMsg := ValidateVoteToken(""); errMsg != "" {
		t.Errorf("empty token rejected: %s", errMsg)
	}

	valid := strings.Repeat("Ab1", 10) + "Zz"
	if len(valid) != VoteTokenLen {
		t.Fatalf("test fixture length = %d, want %d", len(valid), VoteTokenLen)
	}
	if _, errMsg := ValidateVoteToken(valid); errMsg != "" {
		t.Errorf("valid token rejected: %s", errMsg)
	}

	for _, bad := range []string{"short", strings.Repeat("x", 33), strings.Repeat("x", 31) + "!"} {
		if _, errMsg := ValidateVoteToken(bad); errMsg == "" {
			t.Errorf("expected rejection for %q", bad)
		}
	}
}

func TestValidateVoterName(t *testing.T) {
	name, errMsg := ValidateVoterName("  Jo  ")
	if errMsg != "" || name != "Jo" {
		t.Errorf("got (%q, %q), want trimmed name", name, errMsg)
	}

	if _, errMsg := ValidateVoterName(strings.Repeat("x", MaxVoterNameLen+1)); errMsg == "" {
		t.Error("expected rejection for an oversized name")
	}
}

func TestValidateUserAgent_Truncates(t *testing.T) {
	ua := ValidateUserAgent(strings.Repeat("x", MaxUserAgentLen+50))
	if len(ua) != MaxUserAgentLen {
		t.Fatalf("length = %d, want truncated to %d", len(ua), MaxUserAgentLen)
	}
}

func TestSanitizePath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/api/polls/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d/votes", "/api/polls/:pollId/votes"},
		{"/api/polls/share/Ab3dEf9h", "/api/polls/share/:shareCode"},
		{"/api/polls/id/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", "/api/polls/id/:pollId"},
		{"/api/polls/mine", "/api/polls/mine"},
		{"/api/stats", "/api/stats"},
	}
	for _, tc := range cases {
		if got := sanitizePath(tc.in); got != tc.want {
			t.Errorf("sanitizePath(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
