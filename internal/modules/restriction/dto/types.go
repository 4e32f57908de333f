package dto

import "time"

type ConfigurationOutput struct {
	Blocked []string
	Start   time.Time
	End     time.Time
	Active  bool
}
