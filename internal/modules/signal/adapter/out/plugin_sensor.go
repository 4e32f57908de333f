package out

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	hclog "github.com/hashicorp/go-hclog"
	"github.com/hashicorp/go-plugin"

	sensorrpc "neurofade/internal/modules/signal/adapter/out/rpc"
	signalout "neurofade/internal/modules/signal/port/out"
)

const (
	defaultStartTimeout = 3 * time.Second
	defaultCallTimeout  = 2 * time.Second
)

var errNotPaired = errors.New("no wearable is paired with the health provider; pair a watch to collect heart rate and HRV")

type dialFunc func() (sensorrpc.SensorClient, func(), error)

// PluginSensor talks to an external health-provider binary over go-plugin
// gRPC. The plugin process is started on first use and kept until Close.
type PluginSensor struct {
	dial dialFunc

	mu      sync.Mutex
	client  sensorrpc.SensorClient
	kill    func()
	granted bool
}

func NewPluginSensor(binary string) *PluginSensor {
	return &PluginSensor{dial: func() (sensorrpc.SensorClient, func(), error) {
		return launch(binary, defaultStartTimeout)
	}}
}

var _ signalout.Sensor = (*PluginSensor)(nil)

func (s *PluginSensor) RequestAuthorization(ctx context.Context, metrics []string) (bool, error) {
	client, err := s.connect()
	if err != nil {
		return false, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()

	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return false, fmt.Errorf("get sensor metadata: %w", err)
	}
	resp, err := client.RequestAuthorization(callCtx, &sensorrpc.AuthorizationRequest{Metrics: metrics})
	if err != nil {
		return false, fmt.Errorf("request health authorization: %w", err)
	}
	if !resp.Granted {
		s.mu.Lock()
		s.granted = false
		s.mu.Unlock()
		if strings.TrimSpace(resp.Reason) != "" {
			return false, errors.New(resp.Reason)
		}
		return false, nil
	}
	if !meta.Paired {
		return false, errNotPaired
	}
	s.mu.Lock()
	s.granted = true
	s.mu.Unlock()
	return true, nil
}

// AuthorizationStatus holds while the last request was granted and the
// wearable is still paired.
func (s *PluginSensor) AuthorizationStatus(ctx context.Context) (bool, error) {
	s.mu.Lock()
	granted := s.granted
	s.mu.Unlock()
	if !granted {
		return false, nil
	}
	client, err := s.connect()
	if err != nil {
		return false, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()
	meta, err := client.GetMetadata(callCtx)
	if err != nil {
		return false, fmt.Errorf("get sensor metadata: %w", err)
	}
	if !meta.Paired {
		s.mu.Lock()
		s.granted = false
		s.mu.Unlock()
	}
	return meta.Paired, nil
}

func (s *PluginSensor) QueryLatest(ctx context.Context, metric string) (float64, error) {
	client, err := s.connect()
	if err != nil {
		return 0, err
	}
	callCtx, cancel := callContext(ctx, defaultCallTimeout)
	defer cancel()

	resp, err := client.QueryLatest(callCtx, &sensorrpc.QueryRequest{Metric: metric})
	if err != nil {
		if callCtx.Err() == context.DeadlineExceeded {
			return 0, fmt.Errorf("query %s: timed out after %s", metric, defaultCallTimeout)
		}
		s.reset()
		return 0, fmt.Errorf("query %s: %w", metric, err)
	}
	return resp.Value, nil
}

// Close stops the plugin process if one is running.
func (s *PluginSensor) Close() error {
	s.reset()
	return nil
}

func (s *PluginSensor) connect() (sensorrpc.SensorClient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.client != nil {
		return s.client, nil
	}
	client, kill, err := s.dial()
	if err != nil {
		return nil, err
	}
	s.client = client
	s.kill = kill
	return client, nil
}

// reset drops the connection so the next call relaunches the plugin.
func (s *PluginSensor) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.kill != nil {
		s.kill()
	}
	s.client = nil
	s.kill = nil
}

func launch(binary string, startTimeout time.Duration) (sensorrpc.SensorClient, func(), error) {
	client := plugin.NewClient(&plugin.ClientConfig{
		HandshakeConfig:  sensorrpc.HandshakeConfig,
		AllowedProtocols: []plugin.Protocol{plugin.ProtocolGRPC},
		Plugins:          sensorrpc.PluginMap(nil),
		Cmd:              exec.Command(binary),
		Managed:          true,
		StartTimeout:     startTimeout,
		Logger:           hclog.New(&hclog.LoggerOptions{Output: io.Discard, Level: hclog.NoLevel}),
	})
	closeFn := func() { client.Kill() }

	rpcClient, err := client.Client()
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("start sensor plugin: %w", err)
	}
	raw, err := rpcClient.Dispense(sensorrpc.PluginMapKey)
	if err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("dispense sensor plugin: %w", err)
	}
	typed, ok := raw.(sensorrpc.SensorClient)
	if !ok {
		closeFn()
		return nil, nil, fmt.Errorf("sensor rpc client type mismatch")
	}
	return typed, closeFn, nil
}

func callContext(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if _, ok := parent.Deadline(); ok {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, timeout)
}
