package domain

import (
	"fmt"
	"time"

	apperrors "neurofade/internal/platform/errors"
)

type Capability string

const (
	CapabilityHealth      Capability = "health"
	CapabilityRestriction Capability = "restriction"
)

var Capabilities = []Capability{CapabilityHealth, CapabilityRestriction}

func ParseCapability(raw string) (Capability, error) {
	for _, c := range Capabilities {
		if string(c) == raw {
			return c, nil
		}
	}
	return "", fmt.Errorf("%w: unknown capability %q", apperrors.ErrInvalidInput, raw)
}

type Status string

const (
	StatusUnknown    Status = "unknown"
	StatusRequesting Status = "requesting"
	StatusAuthorized Status = "authorized"
	StatusDenied     Status = "denied"
)

// State is the last known authorization of one capability. Message carries
// the user-visible reason for a denial.
type State struct {
	Capability Capability
	Status     Status
	Message    string
	UpdatedAt  time.Time
}

func (s State) Authorized() bool {
	return s.Status == StatusAuthorized
}
