package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

const DefaultDuration = 25 * time.Minute

// RestrictionCapability is the permission a session needs before it can
// start.
const RestrictionCapability = "restriction"

// Presets are the durations offered by the session picker.
var Presets = []time.Duration{
	25 * time.Minute,
	45 * time.Minute,
	60 * time.Minute,
	90 * time.Minute,
	120 * time.Minute,
}

type State string

const (
	StateIdle      State = "idle"
	StateRunning   State = "running"
	StateCompleted State = "completed"
	StateCancelled State = "cancelled"
)

// Startable reports whether a new session may begin from this state.
// Completed and cancelled sessions rest like idle ones.
func (s State) Startable() bool {
	return s != StateRunning
}

type Session struct {
	ID        string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Remaining time.Duration
	State     State
	BlockList []string
	Coins     int
	Message   string
	Reason    string
}

// Tick counts step off the remaining time, never going below zero, and
// reports whether the session has run out.
func (s *Session) Tick(step time.Duration) bool {
	if s.Remaining <= step {
		s.Remaining = 0
		return true
	}
	s.Remaining -= step
	return false
}

// SnapshotBlockList trims ids and drops blanks and duplicates, keeping the
// first occurrence of each.
func SnapshotBlockList(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func (s Session) Clone() Session {
	s.BlockList = slices.Clone(s.BlockList)
	return s
}

type EventKind string

const (
	EventStarted   EventKind = "started"
	EventTick      EventKind = "tick"
	EventRewarded  EventKind = "rewarded"
	EventCompleted EventKind = "completed"
	EventCancelled EventKind = "cancelled"
	EventWarning   EventKind = "warning"
)

type Event struct {
	Kind    EventKind
	At      time.Time
	Session Session
	Coins   int
	Message string
}

// FormatRemaining renders d as MM:SS, or H:MM:SS from one hour up.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Round(time.Second) / time.Second)
	h, m, s := total/3600, (total%3600)/60, total%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
