package grpc

import (
	"github.com/go-logr/logr"
	ggrpc "google.golang.org/grpc"
)

// Option represents server option
type Option func(s *Server)

// WithLogger sets server logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithServerOptions appends raw gRPC server options, e.g. TLS credentials
func WithServerOptions(options ...ggrpc.ServerOption) Option {
	return func(s *Server) {
		s.serverOptions = append(s.serverOptions, options...)
	}
}
