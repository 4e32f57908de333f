package dto

import "time"

type StartInput struct {
	Duration time.Duration
	// BlockList overrides the saved block list when non-nil.
	BlockList []string
}

type SessionOutput struct {
	ID        string
	State     string
	StartedAt time.Time
	EndedAt   time.Time
	Duration  time.Duration
	Remaining time.Duration
	Countdown string
	BlockList []string
	Coins     int
	Message   string
	Reason    string
}

type EventOutput struct {
	Kind    string
	At      time.Time
	Session SessionOutput
	Coins   int
	Message string
}

type PresetOutput struct {
	Label     string
	Duration  time.Duration
	Countdown string
}
