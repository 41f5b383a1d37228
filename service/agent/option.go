package agent

import (
	"context"
	"math/rand"

	"github.com/go-logr/logr"
)

// Option represents agent option
type Option func(s *Service)

// WithLogger sets agent logger
func WithLogger(logger logr.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// WithShell uses supplied shell instead of opening a gosh session
func WithShell(shell Shell) Option {
	return func(s *Service) {
		s.newShell = func(context.Context, *Config) (Shell, error) { return shell, nil }
	}
}

// WithSeed makes the upgrade progression deterministic
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.rnd = rand.New(rand.NewSource(seed))
	}
}
