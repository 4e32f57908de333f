package dto

import "time"

type StateOutput struct {
	Capability string
	Status     string
	Message    string
	UpdatedAt  time.Time
}
