package rpc

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hashicorp/go-plugin"
	"google.golang.org/grpc"
	"google.golang.org/grpc/encoding"
)

const (
	PluginMapKey               = "sensor"
	serviceName                = "neurofade.sensor.v1.Sensor"
	jsonCodecName              = "json"
	methodGetMetadata          = "/" + serviceName + "/GetMetadata"
	methodRequestAuthorization = "/" + serviceName + "/RequestAuthorization"
	methodQueryLatest          = "/" + serviceName + "/QueryLatest"
)

var HandshakeConfig = plugin.HandshakeConfig{
	ProtocolVersion:  1,
	MagicCookieKey:   "NEUROFADE_SENSOR_PLUGIN",
	MagicCookieValue: "neurofade",
}

type jsonCodec struct{}

func (jsonCodec) Marshal(v any) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return jsonCodecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}

type Empty struct{}

type Metadata struct {
	Name    string   `json:"name"`
	Version string   `json:"version"`
	Metrics []string `json:"metrics"`
	// Paired reports whether a wearable is paired with the provider.
	Paired bool `json:"paired"`
}

type AuthorizationRequest struct {
	Metrics []string `json:"metrics"`
}

type AuthorizationResponse struct {
	Granted bool   `json:"granted"`
	Reason  string `json:"reason"`
}

type QueryRequest struct {
	Metric string `json:"metric"`
}

type QueryResponse struct {
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
	SampledAt int64   `json:"sampled_at"`
}

type SensorServer interface {
	GetMetadata(ctx context.Context, in *Empty) (*Metadata, error)
	RequestAuthorization(ctx context.Context, in *AuthorizationRequest) (*AuthorizationResponse, error)
	QueryLatest(ctx context.Context, in *QueryRequest) (*QueryResponse, error)
}

type SensorClient interface {
	GetMetadata(ctx context.Context) (*Metadata, error)
	RequestAuthorization(ctx context.Context, in *AuthorizationRequest) (*AuthorizationResponse, error)
	QueryLatest(ctx context.Context, in *QueryRequest) (*QueryResponse, error)
}

type sensorClient struct {
	conn grpc.ClientConnInterface
}

func NewSensorClient(conn grpc.ClientConnInterface) SensorClient {
	return &sensorClient{conn: conn}
}

func (c *sensorClient) GetMetadata(ctx context.Context) (*Metadata, error) {
	out := &Metadata{}
	if err := c.conn.Invoke(ctx, methodGetMetadata, &Empty{}, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorClient) RequestAuthorization(ctx context.Context, in *AuthorizationRequest) (*AuthorizationResponse, error) {
	out := &AuthorizationResponse{}
	if err := c.conn.Invoke(ctx, methodRequestAuthorization, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *sensorClient) QueryLatest(ctx context.Context, in *QueryRequest) (*QueryResponse, error) {
	out := &QueryResponse{}
	if err := c.conn.Invoke(ctx, methodQueryLatest, in, out, grpc.CallContentSubtype(jsonCodecName)); err != nil {
		return nil, err
	}
	return out, nil
}

func RegisterSensorServer(server grpc.ServiceRegistrar, impl SensorServer) {
	server.RegisterService(&grpc.ServiceDesc{
		ServiceName: serviceName,
		HandlerType: (*SensorServer)(nil),
		Methods: []grpc.MethodDesc{
			{
				MethodName: "GetMetadata",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &Empty{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.GetMetadata(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodGetMetadata}
					handler := func(ctx context.Context, req any) (any, error) {
						empty, ok := req.(*Empty)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.GetMetadata(ctx, empty)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "RequestAuthorization",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &AuthorizationRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.RequestAuthorization(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodRequestAuthorization}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*AuthorizationRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.RequestAuthorization(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
			{
				MethodName: "QueryLatest",
				Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
					in := &QueryRequest{}
					if err := dec(in); err != nil {
						return nil, err
					}
					if interceptor == nil {
						return impl.QueryLatest(ctx, in)
					}
					info := &grpc.UnaryServerInfo{Server: srv, FullMethod: methodQueryLatest}
					handler := func(ctx context.Context, req any) (any, error) {
						inReq, ok := req.(*QueryRequest)
						if !ok {
							return nil, fmt.Errorf("invalid request type")
						}
						return impl.QueryLatest(ctx, inReq)
					}
					return interceptor(ctx, in, info, handler)
				},
			},
		},
		Streams:  []grpc.StreamDesc{},
		Metadata: "schemas/sensor-rpc-v1.proto",
	}, impl)
}

type GRPCPlugin struct {
	plugin.NetRPCUnsupportedPlugin
	Impl SensorServer
}

func (p *GRPCPlugin) GRPCServer(_ *plugin.GRPCBroker, server *grpc.Server) error {
	RegisterSensorServer(server, p.Impl)
	return nil
}

func (p *GRPCPlugin) GRPCClient(_ context.Context, _ *plugin.GRPCBroker, conn *grpc.ClientConn) (any, error) {
	return NewSensorClient(conn), nil
}

func PluginMap(impl SensorServer) map[string]plugin.Plugin {
	return map[string]plugin.Plugin{
		PluginMapKey: &GRPCPlugin{Impl: impl},
	}
}
