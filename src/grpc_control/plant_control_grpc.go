package grpc_control

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Messages are google.protobuf.Struct in both directions, so no generated
// message types are needed; this file plays the role of the _grpc.pb.go stub.

const (
	ServiceName = "windfarm.PlantControl"

	PlantControl_GetStatus_FullMethodName         = "/windfarm.PlantControl/GetStatus"
	PlantControl_GetMetricsSummary_FullMethodName = "/windfarm.PlantControl/GetMetricsSummary"
	PlantControl_GetTurbineStatus_FullMethodName  = "/windfarm.PlantControl/GetTurbineStatus"
)

// -----------------------------------------------------------------------------
// Server API
// -----------------------------------------------------------------------------

type PlantControlServer interface {
	GetStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetMetricsSummary(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTurbineStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// -----------------------------------------------------------------------------

func RegisterPlantControlServer(s grpc.ServiceRegistrar, srv PlantControlServer) {
	s.RegisterService(&PlantControl_ServiceDesc, srv)
}

// -----------------------------------------------------------------------------

// unaryHandler adapts one PlantControlServer method to a grpc.MethodDesc handler
func unaryHandler(fullMethod string, call func(PlantControlServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(PlantControlServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(PlantControlServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// -----------------------------------------------------------------------------

var PlantControl_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PlantControlServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "GetStatus",
			Handler:    unaryHandler(PlantControl_GetStatus_FullMethodName, PlantControlServer.GetStatus),
		},
		{
			MethodName: "GetMetricsSummary",
			Handler:    unaryHandler(PlantControl_GetMetricsSummary_FullMethodName, PlantControlServer.GetMetricsSummary),
		},
		{
			MethodName: "GetTurbineStatus",
			Handler:    unaryHandler(PlantControl_GetTurbineStatus_FullMethodName, PlantControlServer.GetTurbineStatus),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "windfarm/plant_control.proto",
}

// -----------------------------------------------------------------------------
// Client API
// -----------------------------------------------------------------------------

type PlantControlClient interface {
	GetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetMetricsSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetTurbineStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type plantControlClient struct {
	cc grpc.ClientConnInterface
}

func NewPlantControlClient(cc grpc.ClientConnInterface) PlantControlClient {
	return &plantControlClient{cc}
}

// -----------------------------------------------------------------------------

func (c *plantControlClient) invoke(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *plantControlClient) GetStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlantControl_GetStatus_FullMethodName, in, opts...)
}

func (c *plantControlClient) GetMetricsSummary(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlantControl_GetMetricsSummary_FullMethodName, in, opts...)
}

func (c *plantControlClient) GetTurbineStatus(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, PlantControl_GetTurbineStatus_FullMethodName, in, opts...)
}
