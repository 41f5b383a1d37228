package grpc

import (
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/go-logr/logr"
	ggrpc "google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/viant/remotely/service/remote"
	"github.com/viant/remotely/tracing"
)

// Server exposes a remote.Service over gRPC
type Server struct {
	server        *ggrpc.Server
	logger        logr.Logger
	serverOptions []ggrpc.ServerOption
}

// Serve accepts connections on listener until Stop is called
func (s *Server) Serve(listener net.Listener) error {
	s.logger.Info("serving", "address", listener.Addr().String(), "service", ServiceName)
	err := s.server.Serve(listener)
	if errors.Is(err, ggrpc.ErrServerStopped) {
		return nil
	}
	return err
}

// Stop stops the server, pending upgrade streams are cancelled
func (s *Server) Stop() {
	s.server.Stop()
}

// GracefulStop stops accepting new calls and waits for pending ones
func (s *Server) GracefulStop() {
	s.server.GracefulStop()
}

func (s *Server) unaryInterceptor(ctx context.Context, req any, info *ggrpc.UnaryServerInfo, handler ggrpc.UnaryHandler) (any, error) {
	started := time.Now()
	ctx, span := tracing.Start(ctx, info.FullMethod, tracing.KindServer)
	resp, err := handler(ctx, req)
	span.End(err)
	s.logCall(info.FullMethod, started, err)
	return resp, err
}

func (s *Server) streamInterceptor(srv any, stream ggrpc.ServerStream, info *ggrpc.StreamServerInfo, handler ggrpc.StreamHandler) error {
	started := time.Now()
	ctx, span := tracing.Start(stream.Context(), info.FullMethod, tracing.KindServer)
	err := handler(srv, &serverStream{ServerStream: stream, ctx: ctx})
	span.End(err)
	s.logCall(info.FullMethod, started, err)
	return err
}

func (s *Server) logCall(method string, started time.Time, err error) {
	code := status.Code(err)
	if err != nil {
		s.logger.Error(err, "call failed", "method", method, "code", code.String(), "elapsed", time.Since(started).String())
		return
	}
	s.logger.V(1).Info("call completed", "method", method, "code", code.String(), "elapsed", time.Since(started).String())
}

type serverStream struct {
	ggrpc.ServerStream
	ctx context.Context
}

func (s *serverStream) Context() context.Context {
	return s.ctx
}

// forwardUpgrade relays the backing upgrade stream; the header marks the stream as established.
func forwardUpgrade(service remote.Service, stream ggrpc.ServerStream) error {
	upgrade, err := service.Upgrade(stream.Context())
	if err != nil {
		return err
	}
	if err = stream.SendHeader(metadata.Pairs(establishedKey, "true")); err != nil {
		return err
	}
	for {
		progress, err := upgrade.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if err = stream.SendMsg(progress); err != nil {
			return err
		}
	}
}

// Register registers service with a gRPC service registrar
func Register(registrar ggrpc.ServiceRegistrar, service remote.Service) {
	registrar.RegisterService(&serviceDesc, service)
}

// NewServer creates a gRPC server with logging and tracing interceptors exposing service
func NewServer(service remote.Service, options ...Option) *Server {
	ret := &Server{logger: logr.Discard()}
	for _, option := range options {
		option(ret)
	}
	serverOptions := append([]ggrpc.ServerOption{
		ggrpc.ChainUnaryInterceptor(ret.unaryInterceptor),
		ggrpc.ChainStreamInterceptor(ret.streamInterceptor),
	}, ret.serverOptions...)
	ret.server = ggrpc.NewServer(serverOptions...)
	Register(ret.server, service)
	return ret
}
