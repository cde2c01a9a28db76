// Package config decides whether functions created through proxable get wrapped.
//
// The decision comes from process configuration: a production flag that turns
// wrapping off by default, and an explicit override flag that forces it back on.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"
)

// Environment variables consulted by FromEnv.
const (
	EnvMode     = "GO_ENV"
	EnvProxable = "PROXABLE"
	EnvLogLevel = "PROXABLE_LOG_LEVEL"
)

// ProductionMode is the EnvMode value that disables wrapping by default.
const ProductionMode = "production"

// Policy is the "should wrap?" decision handed to handle construction.
type Policy struct {
	// Production disables wrapping unless Force is set.
	Production bool
	// Force enables wrapping even in production.
	Force bool
	// LogLevel is the level for the default handle logger. Empty means no logging.
	LogLevel string
}

// ShouldWrap reports whether new handles get a swappable indirection.
func (p Policy) ShouldWrap() bool {
	return !p.Production || p.Force
}

// Logger builds the default handle logger for this policy.
// An empty or unparseable level yields a no-op logger.
func (p Policy) Logger() zerolog.Logger {
	if p.LogLevel == "" {
		return zerolog.Nop()
	}

	level, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(p.LogLevel)))
	if err != nil {
		return zerolog.Nop()
	}

	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().
		Timestamp().
		Str("component", "proxable").
		Logger()
}

// Default returns the process policy, read from the environment on first use.
func Default() Policy {
	return processPolicy()
}

// FromEnv builds a policy from environment lookups.
func FromEnv(lookup func(string) (string, bool)) Policy {
	var policy Policy

	applyEnv(&policy, lookup)

	return policy
}

// Load reads a TOML policy file, then applies environment overrides on top.
// A variable that is present replaces the file's value, truthy or not.
// A missing file is not an error; the environment alone decides.
func Load(path string, lookup func(string) (string, bool)) (Policy, error) {
	var policy Policy

	var raw fileConfig

	_, err := toml.DecodeFile(path, &raw)

	switch {
	case err == nil:
		policy.Production = raw.Env == ProductionMode
		policy.Force = ParseFlag(raw.Proxable)
		policy.LogLevel = raw.LogLevel
	case errors.Is(err, os.ErrNotExist):
	default:
		return Policy{}, fmt.Errorf("failed to load %s: %w", path, err)
	}

	applyEnv(&policy, lookup)

	return policy, nil
}

// ParseFlag reports whether v is one of the recognized truthy spellings:
// the strings "true" and "1", or the boolean true.
func ParseFlag(v any) bool {
	switch flag := v.(type) {
	case bool:
		return flag
	case string:
		return flag == "true" || flag == "1"
	default:
		return false
	}
}

// unexported variables.
var (
	//nolint:gochecknoglobals // Process policy is decided once at startup
	processPolicy = sync.OnceValue(func() Policy {
		return FromEnv(os.LookupEnv)
	})
)

type fileConfig struct {
	Env      string `toml:"env"`
	Proxable any    `toml:"proxable"`
	LogLevel string `toml:"log_level"`
}

func applyEnv(policy *Policy, lookup func(string) (string, bool)) {
	if lookup == nil {
		return
	}

	if mode, ok := lookup(EnvMode); ok {
		policy.Production = mode == ProductionMode
	}

	if flag, ok := lookup(EnvProxable); ok {
		policy.Force = ParseFlag(flag)
	}

	if level, ok := lookup(EnvLogLevel); ok {
		policy.LogLevel = level
	}
}
