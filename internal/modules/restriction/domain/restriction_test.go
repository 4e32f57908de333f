package domain

import (
	"testing"
	"time"
)

func TestConfigurationEnforced(t *testing.T) {
	t.Parallel()
	start := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	blocked := []string{"instagram", "tiktok"}
	cfg := NewConfiguration(start, 25*time.Minute, blocked)
	blocked[0] = "mutated"

	tests := []struct {
		name string
		app  string
		at   time.Time
		want bool
	}{
		{name: "before window", app: "instagram", at: start.Add(-time.Second), want: false},
		{name: "window start", app: "instagram", at: start, want: true},
		{name: "inside window", app: "tiktok", at: start.Add(10 * time.Minute), want: true},
		{name: "not listed", app: "youtube", at: start.Add(time.Minute), want: false},
		{name: "window end is exclusive", app: "instagram", at: start.Add(25 * time.Minute), want: false},
	}
	for _, tc := range tests {
		if got := cfg.Enforced(tc.app, tc.at); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
	if (Configuration{}).Enforced("instagram", start) {
		t.Fatalf("empty configuration must not block")
	}
}
