package agent

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-logr/logr"
	"github.com/viant/gosh/runner"

	"github.com/viant/remotely/service/remote"
)

const (
	kernelVersionCommand = "uname -r"
	uptimeCommand        = "cat /proc/uptime"
)

// Service implements remote.Service by running commands in a shell session.
// Calls are serialised; an upgrade holds the agent until its stream ends.
type Service struct {
	config   *Config
	logger   logr.Logger
	shell    Shell
	newShell func(ctx context.Context, config *Config) (Shell, error)
	lock     chan struct{}
	rnd      *rand.Rand
	rndMux   sync.Mutex
	shellMux sync.Mutex
}

// Inspect returns kernel version and uptime of the host
func (s *Service) Inspect(ctx context.Context) (*remote.MachineInfo, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	shell, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	kernelVersion, err := s.query(ctx, shell, kernelVersionCommand)
	if err != nil {
		return nil, err
	}
	uptime, err := s.query(ctx, shell, uptimeCommand)
	if err != nil {
		return nil, err
	}
	seconds, err := parseUptime(uptime)
	if err != nil {
		return nil, err
	}
	return &remote.MachineInfo{KernelVersion: kernelVersion, SystemUptime: seconds}, nil
}

// Execute runs command, a failing command is reported through the reply code
func (s *Service) Execute(ctx context.Context, command string) (*remote.ExecuteReply, error) {
	if strings.TrimSpace(command) == "" {
		return nil, fmt.Errorf("command was empty")
	}
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	defer s.release()
	shell, err := s.session(ctx)
	if err != nil {
		return nil, err
	}
	started := time.Now()
	stdout, code, err := shell.Run(ctx, command, runner.WithTimeout(int(s.config.CommandTimeout.Milliseconds())))
	s.logger.V(1).Info("executed", "command", command, "code", code, "elapsed", time.Since(started).String())
	reply := &remote.ExecuteReply{Code: int32(code), Stdout: stdout}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		if reply.Code == 0 {
			reply.Code = -1
		}
		reply.Stderr = err.Error()
	}
	return reply, nil
}

// Upgrade streams a simulated upgrade: Running messages at random positions up to 100, then Success
func (s *Service) Upgrade(ctx context.Context) (remote.UpgradeStream, error) {
	if err := s.acquire(ctx); err != nil {
		return nil, err
	}
	s.rndMux.Lock()
	positions := randomProgression(s.rnd)
	delay := s.upgradeDelay()
	s.rndMux.Unlock()

	items := make(chan remote.StreamItem)
	go func() {
		defer s.release()
		defer close(items)
		send := func(progress *remote.Progress) bool {
			select {
			case <-ctx.Done():
				return false
			case <-time.After(delay):
			}
			select {
			case <-ctx.Done():
				return false
			case items <- remote.StreamItem{Progress: progress}:
				return true
			}
		}
		for _, position := range positions {
			if !send(&remote.Progress{Status: remote.ProgressRunning, Position: position}) {
				s.logger.Info("upgrade cancelled", "position", position)
				return
			}
		}
		send(&remote.Progress{Status: remote.ProgressSuccess, Position: 100})
	}()
	return remote.NewChanStream(ctx, items), nil
}

// Close releases the shell session
func (s *Service) Close() error {
	s.shellMux.Lock()
	defer s.shellMux.Unlock()
	if s.shell == nil {
		return nil
	}
	err := s.shell.Close()
	s.shell = nil
	return err
}

func (s *Service) upgradeDelay() time.Duration {
	if s.config.UpgradeDelay > 0 {
		return s.config.UpgradeDelay
	}
	return defaultMinUpgradeDelay + time.Duration(s.rnd.Int63n(int64(defaultMaxUpgradeDelay-defaultMinUpgradeDelay)))
}

func (s *Service) acquire(ctx context.Context) error {
	select {
	case s.lock <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Service) release() {
	<-s.lock
}

func (s *Service) session(ctx context.Context) (Shell, error) {
	s.shellMux.Lock()
	defer s.shellMux.Unlock()
	if s.shell != nil {
		return s.shell, nil
	}
	shell, err := s.newShell(ctx, s.config)
	if err != nil {
		return nil, err
	}
	s.shell = shell
	return shell, nil
}

func (s *Service) query(ctx context.Context, shell Shell, command string) (string, error) {
	stdout, code, err := shell.Run(ctx, command, runner.WithTimeout(int(s.config.CommandTimeout.Milliseconds())))
	if err != nil {
		return "", fmt.Errorf("failed to run %q: %w", command, err)
	}
	if code != 0 {
		return "", fmt.Errorf("failed to run %q: exit code %d: %s", command, code, strings.TrimSpace(stdout))
	}
	return strings.TrimSpace(stdout), nil
}

// parseUptime parses /proc/uptime content: "<uptime seconds> <idle seconds>"
func parseUptime(content string) (uint64, error) {
	fields := strings.Fields(content)
	if len(fields) == 0 {
		return 0, errors.New("empty uptime")
	}
	value, err := strconv.ParseFloat(fields[0], 64)
	if err != nil || value < 0 {
		return 0, fmt.Errorf("invalid uptime %q", fields[0])
	}
	return uint64(value), nil
}

// New creates an agent service
func New(config *Config, options ...Option) (*Service, error) {
	if config == nil {
		config = &Config{}
	}
	config.Init()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Service{
		config:   config,
		logger:   logr.Discard(),
		newShell: NewShell,
		lock:     make(chan struct{}, 1),
		rnd:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, option := range options {
		option(ret)
	}
	return ret, nil
}

var _ remote.Service = (*Service)(nil)
