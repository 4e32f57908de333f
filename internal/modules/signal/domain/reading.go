package domain

import "time"

// Label is the attention state derived from the EEG channels.
type Label string

const (
	LabelCalm       Label = "Calm"
	LabelFocused    Label = "Focused"
	LabelDistracted Label = "Distracted"
)

// Stress is the state derived from heart rate variability.
type Stress string

const (
	StressRelaxed  Stress = "Relaxed"
	StressStressed Stress = "Stressed"
)

const (
	MetricAlpha = "eeg.alpha"
	MetricBeta  = "eeg.beta"
	MetricHRV   = "hrv"
)

// Metrics lists the channels a device sensor must provide, in query order.
var Metrics = []string{MetricAlpha, MetricBeta, MetricHRV}

type Range struct {
	Min float64
	Max float64
}

var (
	AlphaRange = Range{Min: 0.3, Max: 2.0}
	BetaRange  = Range{Min: 0.2, Max: 1.5}
	HRVRange   = Range{Min: 30, Max: 90}
)

const (
	CalmAlphaThreshold   = 1.5
	FocusedBetaThreshold = 1.0
	RelaxedHRVThreshold  = 60.0
)

type Reading struct {
	At     time.Time
	Alpha  float64
	Beta   float64
	HRV    float64
	Label  Label
	Stress Stress
}

func NewReading(at time.Time, alpha, beta, hrv float64) Reading {
	return Reading{
		At:     at,
		Alpha:  alpha,
		Beta:   beta,
		HRV:    hrv,
		Label:  Classify(alpha, beta),
		Stress: ClassifyStress(hrv),
	}
}

// Classify applies the thresholds in priority order; the first strict match
// wins, so a high alpha beats a high beta.
func Classify(alpha, beta float64) Label {
	switch {
	case alpha > CalmAlphaThreshold:
		return LabelCalm
	case beta > FocusedBetaThreshold:
		return LabelFocused
	default:
		return LabelDistracted
	}
}

func ClassifyStress(hrv float64) Stress {
	if hrv > RelaxedHRVThreshold {
		return StressRelaxed
	}
	return StressStressed
}

// Observation is one tick of an observer: a reading or the reason there is none.
type Observation struct {
	Reading Reading
	Err     error
}
