package handler

import "testing"

func TestSanitizeEndpoint(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"/api/polls/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d/votes", "/api/polls/:pollId/votes"},
		{"/api/polls/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d/pollsters/import", "/api/polls/:pollId/pollsters/import"},
		{"/api/polls/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", "/api/polls/:pollId"},
		{"/api/polls/share/Ab3dEf9h", "/api/polls/share/:shareCode"},
		{"/api/polls/id/a1b2c3d4-e5f6-4a7b-8c9d-0e1f2a3b4c5d", "/api/polls/id/:pollId"},
		{"/api/polls/mine", "/api/polls/mine"},
		{"/api/stats", "/api/stats"},
		{"/health/ready", "/health/ready"},
	}
	for _, tc := range cases {
		if got := sanitizeEndpoint(tc.in); got != tc.want {
			t.Errorf("sanitizeEndpoint(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
