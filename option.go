package remotely

import (
	"github.com/go-logr/logr"
	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	ggrpc "google.golang.org/grpc"

	"github.com/viant/remotely/service/agent"
	"github.com/viant/remotely/service/remote"
	"github.com/viant/remotely/service/runner"
)

// Option represents service option
type Option func(s *Service)

// WithConfig sets the config
func WithConfig(config *Config) Option {
	return func(s *Service) {
		s.config = config
	}
}

// WithLogger sets the logger passed down to the runner, agent and server
func WithLogger(logger logr.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithRemote sets the remote service used by Run instead of dialing client.url
func WithRemote(service remote.Service) Option {
	return func(s *Service) {
		s.remote = service
	}
}

// WithDialOptions appends gRPC dial options used when dialing client.url
func WithDialOptions(options ...ggrpc.DialOption) Option {
	return func(s *Service) {
		s.dialOptions = append(s.dialOptions, options...)
	}
}

// WithRunnerOptions appends runner options
func WithRunnerOptions(options ...runner.Option) Option {
	return func(s *Service) {
		s.runnerOptions = append(s.runnerOptions, options...)
	}
}

// WithAgentOptions appends options of the agent started by Serve
func WithAgentOptions(options ...agent.Option) Option {
	return func(s *Service) {
		s.agentOptions = append(s.agentOptions, options...)
	}
}

// WithFs sets the file system used for batches and reports
func WithFs(fs afs.Service) Option {
	return func(s *Service) {
		s.fs = fs
	}
}

// WithMetaBaseURL sets the base URL resolving relative batch locations
func WithMetaBaseURL(URL string) Option {
	return func(s *Service) {
		s.metaBaseURL = URL
	}
}

// WithTracingExporter installs a custom span exporter, e.g. OTLP, in place of the stdout one.
// The first installed provider wins.
func WithTracingExporter(exporter sdktrace.SpanExporter) Option {
	return func(s *Service) {
		s.exporter = exporter
	}
}
