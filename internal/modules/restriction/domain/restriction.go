package domain

import (
	"slices"
	"time"
)

// CapabilityName is the permission capability that guards every
// restriction change.
const CapabilityName = "restriction"

type Schedule struct {
	Start time.Time
	End   time.Time
}

// Configuration is what the restriction provider enforces. The zero value
// lifts every restriction.
type Configuration struct {
	Schedule Schedule
	Blocked  []string
}

func NewConfiguration(now time.Time, d time.Duration, blocked []string) Configuration {
	return Configuration{
		Schedule: Schedule{Start: now, End: now.Add(d)},
		Blocked:  slices.Clone(blocked),
	}
}

func (c Configuration) Empty() bool {
	return len(c.Blocked) == 0
}

// Enforced reports whether appID is blocked at instant now.
func (c Configuration) Enforced(appID string, now time.Time) bool {
	if c.Empty() || now.Before(c.Schedule.Start) || !now.Before(c.Schedule.End) {
		return false
	}
	return slices.Contains(c.Blocked, appID)
}

type Notice struct {
	ID    string
	Title string
	Body  string
	DueAt time.Time
}
