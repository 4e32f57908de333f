package out

import (
	"context"
	"fmt"

	"neurofade/internal/modules/signal/domain"
	signalout "neurofade/internal/modules/signal/port/out"
)

// SimulatedSensor stands in for a health provider when no device plugin is
// configured. It always grants access and draws values from the channel ranges.
type SimulatedSensor struct {
	random signalout.Random
}

func NewSimulatedSensor(random signalout.Random) signalout.Sensor {
	return &SimulatedSensor{random: random}
}

func (s *SimulatedSensor) RequestAuthorization(context.Context, []string) (bool, error) {
	return true, nil
}

func (s *SimulatedSensor) AuthorizationStatus(context.Context) (bool, error) {
	return true, nil
}

func (s *SimulatedSensor) QueryLatest(_ context.Context, metric string) (float64, error) {
	r, ok := metricRanges[metric]
	if !ok {
		return 0, fmt.Errorf("unknown metric %q", metric)
	}
	return s.random.Uniform(r.Min, r.Max), nil
}

var metricRanges = map[string]domain.Range{
	domain.MetricAlpha: domain.AlphaRange,
	domain.MetricBeta:  domain.BetaRange,
	domain.MetricHRV:   domain.HRVRange,
}
