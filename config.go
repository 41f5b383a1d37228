package remotely

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/viant/afs"

	"github.com/viant/remotely/service/agent"
	"github.com/viant/remotely/service/meta"
	"github.com/viant/remotely/service/report"
)

// Config is a serialisable representation of client, report, agent and tracing settings.
type Config struct {
	Client  ClientConfig  `json:"client" yaml:"client"`
	Runner  RunnerConfig  `json:"runner" yaml:"runner"`
	Report  ReportConfig  `json:"report" yaml:"report"`
	Server  ServerConfig  `json:"server" yaml:"server"`
	Agent   agent.Config  `json:"agent" yaml:"agent"`
	Tracing TracingConfig `json:"tracing" yaml:"tracing"`
}

// ClientConfig describes how to reach an agent
type ClientConfig struct {
	// URL is the agent address (host:port or any gRPC target)
	URL string `json:"url" yaml:"url"`
	// Timeout bounds a whole batch run, zero disables it
	Timeout time.Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

// RunnerConfig controls how remote outcomes map onto report statuses
type RunnerConfig struct {
	FailOnNonZeroExit    bool `json:"failOnNonZeroExit,omitempty" yaml:"failOnNonZeroExit,omitempty"`
	FailOnUpgradeFailure bool `json:"failOnUpgradeFailure,omitempty" yaml:"failOnUpgradeFailure,omitempty"`
}

// ReportConfig controls report rendering
type ReportConfig struct {
	Markup string `json:"markup" yaml:"markup"`
	// URL is the report destination, empty means the caller supplied writer
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// ServerConfig controls the agent gRPC listener
type ServerConfig struct {
	Address string `json:"address" yaml:"address"`
	Port    int    `json:"port" yaml:"port"`
}

// TracingConfig controls OpenTelemetry export
type TracingConfig struct {
	Enabled     bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
	Output      string `json:"output,omitempty" yaml:"output,omitempty"`
	ServiceName string `json:"serviceName,omitempty" yaml:"serviceName,omitempty"`
}

const (
	DefaultAddress = "127.0.0.1"
	DefaultPort    = 50051
)

// Endpoint returns server listen address
func (c *ServerConfig) Endpoint() string {
	return net.JoinHostPort(c.Address, strconv.Itoa(c.Port))
}

// DefaultConfig returns a Config with default values; callers may modify it before passing it to New.
func DefaultConfig() *Config {
	return &Config{
		Client: ClientConfig{URL: net.JoinHostPort(DefaultAddress, strconv.Itoa(DefaultPort))},
		Report: ReportConfig{Markup: string(report.MarkupYAML)},
		Server: ServerConfig{Address: DefaultAddress, Port: DefaultPort},
		Agent:  agent.Config{HostURL: agent.LocalHostURL},
		Tracing: TracingConfig{
			ServiceName: "remotely",
		},
	}
}

// Validate returns an error describing the first invalid setting or nil.
func (c *Config) Validate() error {
	if c == nil {
		return nil
	}
	if c.Client.URL == "" {
		return fmt.Errorf("client.url was empty")
	}
	if c.Client.Timeout < 0 {
		return fmt.Errorf("client.timeout must be >= 0")
	}
	if _, err := report.ParseMarkup(c.Report.Markup); err != nil {
		return fmt.Errorf("report.markup: %w", err)
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 0..65535")
	}
	if err := c.Agent.Validate(); err != nil {
		return err
	}
	return nil
}

// LoadConfig loads YAML or JSON config from URL on top of DefaultConfig
func LoadConfig(ctx context.Context, URL string) (*Config, error) {
	ret := DefaultConfig()
	if URL == "" {
		return ret, nil
	}
	if err := meta.New(afs.New(), "").Load(ctx, URL, ret); err != nil {
		return nil, err
	}
	return ret, ret.Validate()
}
