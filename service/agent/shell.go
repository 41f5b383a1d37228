package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/viant/afs/url"
	"github.com/viant/gosh"
	"github.com/viant/gosh/runner"
	"github.com/viant/gosh/runner/local"
	rssh "github.com/viant/gosh/runner/ssh"
	"github.com/viant/scy/cred/secret"
	"golang.org/x/crypto/ssh"
)

// Shell runs commands in a shell session
type Shell interface {
	Run(ctx context.Context, command string, options ...runner.Option) (string, int, error)
	Close() error
}

// NewShell opens a gosh session on the configured host
func NewShell(ctx context.Context, config *Config) (Shell, error) {
	var options []runner.Option
	if len(config.Env) > 0 {
		options = append(options, runner.WithEnvironment(config.Env))
	}
	if config.IsLocal() {
		service, err := gosh.New(ctx, local.New(options...))
		if err != nil {
			return nil, fmt.Errorf("failed to open local session: %w", err)
		}
		return service, nil
	}
	sshConfig, err := sshClientConfig(ctx, config.Credentials)
	if err != nil {
		return nil, fmt.Errorf("failed to get SSH config: %w", err)
	}
	host := url.Host(config.HostURL)
	if !strings.Contains(host, ":") {
		host += ":22"
	}
	service, err := gosh.New(ctx, rssh.New(host, sshConfig, options...))
	if err != nil {
		return nil, fmt.Errorf("failed to open SSH session to %v: %w", host, err)
	}
	return service, nil
}

func sshClientConfig(ctx context.Context, credentials string) (*ssh.ClientConfig, error) {
	if credentials == "" {
		credentials = "localhost"
	}
	generic, err := secret.New().GetCredentials(ctx, credentials)
	if err != nil {
		return nil, err
	}
	return generic.SSH.Config(ctx)
}
