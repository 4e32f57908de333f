package dto

import "time"

type ReadingOutput struct {
	At     time.Time
	Alpha  float64
	Beta   float64
	HRV    float64
	Label  string
	Stress string
}

type ObservationOutput struct {
	Reading ReadingOutput
	Err     error
}
