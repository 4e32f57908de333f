package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/hashicorp/go-plugin"

	sensorrpc "neurofade/internal/modules/signal/adapter/out/rpc"
)

// Reference health provider. It simulates a paired wearable; set
// NEUROFADE_SENSOR_UNPAIRED=1 or NEUROFADE_SENSOR_DENY=1 to exercise the
// failure paths of the host.
type server struct {
	paired bool
	deny   bool
}

var ranges = map[string][2]float64{
	"eeg.alpha": {0.3, 2.0},
	"eeg.beta":  {0.2, 1.5},
	"hrv":       {30, 90},
}

func (s *server) GetMetadata(_ context.Context, _ *sensorrpc.Empty) (*sensorrpc.Metadata, error) {
	metrics := make([]string, 0, len(ranges))
	for metric := range ranges {
		metrics = append(metrics, metric)
	}
	return &sensorrpc.Metadata{
		Name:    "reference-sensor",
		Version: "1.0.0",
		Metrics: metrics,
		Paired:  s.paired,
	}, nil
}

func (s *server) RequestAuthorization(_ context.Context, in *sensorrpc.AuthorizationRequest) (*sensorrpc.AuthorizationResponse, error) {
	if s.deny {
		return &sensorrpc.AuthorizationResponse{Granted: false, Reason: "health data access was declined"}, nil
	}
	for _, metric := range in.Metrics {
		if _, ok := ranges[metric]; !ok {
			return &sensorrpc.AuthorizationResponse{Granted: false, Reason: fmt.Sprintf("metric %s is not provided", metric)}, nil
		}
	}
	return &sensorrpc.AuthorizationResponse{Granted: true}, nil
}

func (s *server) QueryLatest(_ context.Context, in *sensorrpc.QueryRequest) (*sensorrpc.QueryResponse, error) {
	r, ok := ranges[in.Metric]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", in.Metric)
	}
	if !s.paired {
		return nil, fmt.Errorf("no wearable paired")
	}
	return &sensorrpc.QueryResponse{
		Metric:    in.Metric,
		Value:     r[0] + rand.Float64()*(r[1]-r[0]),
		SampledAt: time.Now().Unix(),
	}, nil
}

func main() {
	plugin.Serve(&plugin.ServeConfig{
		HandshakeConfig: sensorrpc.HandshakeConfig,
		Plugins: sensorrpc.PluginMap(&server{
			paired: os.Getenv("NEUROFADE_SENSOR_UNPAIRED") == "",
			deny:   os.Getenv("NEUROFADE_SENSOR_DENY") != "",
		}),
		GRPCServer: plugin.DefaultGRPCServer,
	})
}
