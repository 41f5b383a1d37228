package runner

import (
	"github.com/go-logr/logr"

	"github.com/viant/remotely/service/event"
	"github.com/viant/remotely/service/report"
)

// Option represents runner option
type Option func(r *Runner)

// WithLogger sets runner logger
func WithLogger(logger logr.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithFailOnNonZeroExit records Failure for Execute commands exiting with a non-zero code
func WithFailOnNonZeroExit(flag bool) Option {
	return func(r *Runner) {
		r.failOnNonZeroExit = flag
	}
}

// WithFailOnUpgradeFailure records Failure when the upgrade stream ends with a Failure message
func WithFailOnUpgradeFailure(flag bool) Option {
	return func(r *Runner) {
		r.failOnUpgradeFailure = flag
	}
}

// WithPublisher publishes an event for every appended report entry
func WithPublisher(publisher *event.Publisher[report.Entry]) Option {
	return func(r *Runner) {
		r.publisher = publisher
	}
}
