package service

import (
	"context"
	"fmt"

	"neurofade/internal/modules/signal/domain"
	signalout "neurofade/internal/modules/signal/port/out"
	"neurofade/internal/platform/clock"
	apperrors "neurofade/internal/platform/errors"
)

// Source produces one labeled reading per call.
type Source interface {
	Sample(ctx context.Context) (domain.Reading, error)
}

type SimulatedSource struct {
	clock  clock.Clock
	random signalout.Random
}

func NewSimulatedSource(clk clock.Clock, random signalout.Random) *SimulatedSource {
	return &SimulatedSource{clock: clk, random: random}
}

func (s *SimulatedSource) Sample(context.Context) (domain.Reading, error) {
	alpha := s.random.Uniform(domain.AlphaRange.Min, domain.AlphaRange.Max)
	beta := s.random.Uniform(domain.BetaRange.Min, domain.BetaRange.Max)
	hrv := s.random.Uniform(domain.HRVRange.Min, domain.HRVRange.Max)
	return domain.NewReading(s.clock.Now(), alpha, beta, hrv), nil
}

type DeviceSource struct {
	clock  clock.Clock
	sensor signalout.Sensor
}

func NewDeviceSource(clk clock.Clock, sensor signalout.Sensor) *DeviceSource {
	return &DeviceSource{clock: clk, sensor: sensor}
}

func (s *DeviceSource) Sample(ctx context.Context) (domain.Reading, error) {
	values := make(map[string]float64, len(domain.Metrics))
	for _, metric := range domain.Metrics {
		v, err := s.sensor.QueryLatest(ctx, metric)
		if err != nil {
			return domain.Reading{}, fmt.Errorf("%w: query %s: %w", apperrors.ErrSignalUnavailable, metric, err)
		}
		values[metric] = v
	}
	return domain.NewReading(s.clock.Now(), values[domain.MetricAlpha], values[domain.MetricBeta], values[domain.MetricHRV]), nil
}
