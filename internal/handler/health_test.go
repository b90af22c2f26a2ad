package handler

import "testing"

func TestOverallStatus(t *testing.T) {
	cases := []struct {
		name   string
		checks []checkResult
		want   string
	}{
		{"all up", []checkResult{{Status: "up"}, {Status: "up"}}, "healthy"},
		{"db down", []checkResult{{Status: "down"}, {Status: "up"}}, "degraded"},
		{"redis down", []checkResult{{Status: "up"}, {Status: "down"}}, "degraded"},
		{"redis disabled", []checkResult{{Status: "up"}, {Status: "disabled"}}, "healthy"},
	}
	for _, tc := range cases {
		if got := overallStatus(tc.checks...); got != tc.want {
			t.Errorf("%s: overallStatus = %q, want %q", tc.name, got, tc.want)
		}
	}
}
