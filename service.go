package remotely

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"

	"github.com/go-logr/logr"
	"github.com/viant/afs"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	ggrpc "google.golang.org/grpc"

	"github.com/viant/remotely/model"
	"github.com/viant/remotely/service/agent"
	"github.com/viant/remotely/service/meta"
	"github.com/viant/remotely/service/parser"
	"github.com/viant/remotely/service/remote"
	rgrpc "github.com/viant/remotely/service/remote/grpc"
	"github.com/viant/remotely/service/report"
	"github.com/viant/remotely/service/runner"
	"github.com/viant/remotely/tracing"
)

// Service wires parsing, the remote client, the runner and report rendering together
type Service struct {
	config        *Config
	logger        logr.Logger
	fs            afs.Service
	metaService   *meta.Service
	metaBaseURL   string
	remote        remote.Service
	closer        io.Closer
	dialOptions   []ggrpc.DialOption
	runnerOptions []runner.Option
	agentOptions  []agent.Option
	exporter      sdktrace.SpanExporter
}

// Config returns service config
func (s *Service) Config() *Config {
	return s.config
}

// LoadBatch downloads and parses a batch document, "-" is not resolved here and must be read by the caller
func (s *Service) LoadBatch(ctx context.Context, location string) (*model.Batch, error) {
	data, err := s.metaService.Download(ctx, location)
	if err != nil {
		return nil, err
	}
	batch, err := parser.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("invalid batch %v: %w", location, err)
	}
	return batch, nil
}

// Run executes batch against the configured agent, the partial report is returned along with a transport error
func (s *Service) Run(ctx context.Context, batch *model.Batch) (*report.Report, error) {
	service, err := s.ensureRemote()
	if err != nil {
		return nil, err
	}
	if timeout := s.config.Client.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	options := append([]runner.Option{
		runner.WithLogger(s.logger),
		runner.WithFailOnNonZeroExit(s.config.Runner.FailOnNonZeroExit),
		runner.WithFailOnUpgradeFailure(s.config.Runner.FailOnUpgradeFailure),
	}, s.runnerOptions...)
	return runner.New(service, options...).Run(ctx, batch)
}

// RunText parses text (either batch form) and runs it
func (s *Service) RunText(ctx context.Context, text string) (*report.Report, error) {
	batch, err := parser.Parse(text)
	if err != nil {
		return nil, err
	}
	return s.Run(ctx, batch)
}

// Render writes report in the configured markup
func (s *Service) Render(writer io.Writer, aReport *report.Report) error {
	renderer, err := s.renderer()
	if err != nil {
		return err
	}
	return renderer.Render(writer, aReport)
}

// Publish renders report to report.url, or to writer when no URL is configured
func (s *Service) Publish(ctx context.Context, writer io.Writer, aReport *report.Report) error {
	URL := s.config.Report.URL
	if URL == "" {
		return s.Render(writer, aReport)
	}
	renderer, err := s.renderer()
	if err != nil {
		return err
	}
	if err = report.Upload(ctx, s.fs, s.metaService.URL(URL), renderer, aReport); err != nil {
		return err
	}
	s.logger.Info("report published", "url", URL, "entries", aReport.Len())
	return nil
}

// RenderString returns rendered report
func (s *Service) RenderString(aReport *report.Report) (string, error) {
	buffer := &bytes.Buffer{}
	if err := s.Render(buffer, aReport); err != nil {
		return "", err
	}
	return buffer.String(), nil
}

// Serve starts the agent and serves it on server.address:server.port until ctx is done
func (s *Service) Serve(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Server.Endpoint())
	if err != nil {
		return fmt.Errorf("failed to listen on %v: %w", s.config.Server.Endpoint(), err)
	}
	return s.ServeListener(ctx, listener)
}

// ServeListener serves the agent on listener until ctx is done
func (s *Service) ServeListener(ctx context.Context, listener net.Listener) error {
	options := append([]agent.Option{agent.WithLogger(s.logger)}, s.agentOptions...)
	agentConfig := s.config.Agent
	anAgent, err := agent.New(&agentConfig, options...)
	if err != nil {
		return err
	}
	defer anAgent.Close()
	server := rgrpc.NewServer(anAgent, rgrpc.WithLogger(s.logger))
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			server.GracefulStop()
		case <-done:
		}
	}()
	s.logger.Info("agent listening", "address", listener.Addr().String(), "host", agentConfig.HostURL)
	return server.Serve(listener)
}

// Close releases the dialed client and flushes tracing
func (s *Service) Close() error {
	var err error
	if s.closer != nil {
		err = s.closer.Close()
		s.closer = nil
		s.remote = nil
	}
	if s.config.Tracing.Enabled || s.exporter != nil {
		if shutdownErr := tracing.Shutdown(context.Background()); err == nil {
			err = shutdownErr
		}
	}
	return err
}

func (s *Service) renderer() (report.Renderer, error) {
	markup, err := report.ParseMarkup(s.config.Report.Markup)
	if err != nil {
		return nil, err
	}
	return report.NewRenderer(markup)
}

func (s *Service) ensureRemote() (remote.Service, error) {
	if s.remote != nil {
		return s.remote, nil
	}
	client, err := rgrpc.Dial(s.config.Client.URL, s.dialOptions...)
	if err != nil {
		return nil, err
	}
	s.remote = client
	s.closer = client
	return client, nil
}

func (s *Service) serviceName() string {
	if s.config != nil && s.config.Tracing.ServiceName != "" {
		return s.config.Tracing.ServiceName
	}
	return "remotely"
}

func (s *Service) init(options []Option) error {
	for _, option := range options {
		option(s)
	}
	if s.config == nil {
		s.config = DefaultConfig()
	}
	if err := s.config.Validate(); err != nil {
		return err
	}
	if s.fs == nil {
		s.fs = afs.New()
	}
	s.metaService = meta.New(s.fs, s.metaBaseURL)
	if err := s.initTracing(); err != nil {
		return fmt.Errorf("failed to init tracing: %w", err)
	}
	return nil
}

func (s *Service) initTracing() error {
	if s.exporter != nil {
		return tracing.InitWithExporter(s.serviceName(), Version, s.exporter)
	}
	if !s.config.Tracing.Enabled {
		return nil
	}
	return tracing.Init(s.serviceName(), Version, s.config.Tracing.Output)
}

// New creates a service
func New(options ...Option) (*Service, error) {
	ret := &Service{logger: logr.Discard()}
	if err := ret.init(options); err != nil {
		return nil, err
	}
	return ret, nil
}
