package agent

import (
	"fmt"
	"time"

	"github.com/viant/afs/url"
)

const (
	// LocalHostURL runs commands on the agent machine
	LocalHostURL = "bash://localhost/"

	defaultCommandTimeout  = time.Minute
	defaultMinUpgradeDelay = 500 * time.Millisecond
	defaultMaxUpgradeDelay = 2 * time.Second
)

// Config represents agent config
type Config struct {
	// HostURL selects where commands run: bash://localhost/ or ssh://host[:port]
	HostURL string `json:"host,omitempty" yaml:"host,omitempty"`
	// Credentials is a scy secret resource holding SSH credentials
	Credentials string            `json:"credentials,omitempty" yaml:"credentials,omitempty"`
	Env         map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	// CommandTimeout bounds a single Execute call
	CommandTimeout time.Duration `json:"commandTimeout,omitempty" yaml:"commandTimeout,omitempty"`
	// UpgradeDelay is the pause before each progress message, random in [500ms, 2s) when zero
	UpgradeDelay time.Duration `json:"upgradeDelay,omitempty" yaml:"upgradeDelay,omitempty"`
}

// Init sets defaults
func (c *Config) Init() {
	if c.HostURL == "" {
		c.HostURL = LocalHostURL
	}
	if c.CommandTimeout == 0 {
		c.CommandTimeout = defaultCommandTimeout
	}
}

// Validate checks config
func (c *Config) Validate() error {
	if c.CommandTimeout < 0 {
		return fmt.Errorf("agent.commandTimeout must be >= 0")
	}
	if c.UpgradeDelay < 0 {
		return fmt.Errorf("agent.upgradeDelay must be >= 0")
	}
	if !c.IsLocal() && url.Host(c.HostURL) == "" {
		return fmt.Errorf("agent.host: invalid URL %q", c.HostURL)
	}
	return nil
}

// IsLocal returns true if commands run on the agent machine
func (c *Config) IsLocal() bool {
	if c.HostURL == "" {
		return true
	}
	host := url.Host(c.HostURL)
	return host == "localhost" || host == "127.0.0.1"
}
