package core

import (
	"github.com/rs/zerolog"
	"github.com/toejough/proxable/internal/config"
)

// Option configures handle construction.
type Option func(*options)

// WithEnabled forces wrapping on or off regardless of the process policy.
func WithEnabled(enabled bool) Option {
	return func(o *options) {
		o.policy = config.Policy{Production: !enabled, LogLevel: o.policy.LogLevel}
	}
}

// WithLogger sets the logger that receives install and restore events.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// WithName sets the base of the handle's display name. The handle is still
// suffixed with "Proxy".
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithPolicy decides wrapping from the given policy instead of the process one.
func WithPolicy(policy config.Policy) Option {
	return func(o *options) {
		o.policy = policy
	}
}

type options struct {
	policy config.Policy
	logger *zerolog.Logger
	name   string
}

func newOptions(opts []Option) options {
	o := options{policy: config.Default()}

	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func (o options) resolveLogger() zerolog.Logger {
	if o.logger != nil {
		return *o.logger
	}

	return o.policy.Logger()
}
