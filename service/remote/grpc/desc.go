package grpc

import (
	"context"

	ggrpc "google.golang.org/grpc"

	"github.com/viant/remotely/service/remote"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "remotely.Agent"

const (
	inspectMethod = "/" + ServiceName + "/Inspect"
	executeMethod = "/" + ServiceName + "/Execute"
	upgradeMethod = "/" + ServiceName + "/Upgrade"

	// establishedKey is sent as response header once the upgrade stream is established
	establishedKey = "remotely-upgrade"
)

var serviceDesc = ggrpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*remote.Service)(nil),
	Methods: []ggrpc.MethodDesc{
		{MethodName: "Inspect", Handler: inspectHandler},
		{MethodName: "Execute", Handler: executeHandler},
	},
	Streams: []ggrpc.StreamDesc{
		{StreamName: "Upgrade", Handler: upgradeHandler, ServerStreams: true},
	},
	Metadata: "remotely/agent",
}

func inspectHandler(srv any, ctx context.Context, dec func(any) error, interceptor ggrpc.UnaryServerInterceptor) (any, error) {
	in := new(remote.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	service := srv.(remote.Service)
	handler := func(ctx context.Context, req any) (any, error) {
		return service.Inspect(ctx)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &ggrpc.UnaryServerInfo{Server: srv, FullMethod: inspectMethod}, handler)
}

func executeHandler(srv any, ctx context.Context, dec func(any) error, interceptor ggrpc.UnaryServerInterceptor) (any, error) {
	in := new(remote.ExecuteRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	service := srv.(remote.Service)
	handler := func(ctx context.Context, req any) (any, error) {
		return service.Execute(ctx, req.(*remote.ExecuteRequest).Command)
	}
	if interceptor == nil {
		return handler(ctx, in)
	}
	return interceptor(ctx, in, &ggrpc.UnaryServerInfo{Server: srv, FullMethod: executeMethod}, handler)
}

func upgradeHandler(srv any, stream ggrpc.ServerStream) error {
	in := new(remote.Empty)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return forwardUpgrade(srv.(remote.Service), stream)
}
