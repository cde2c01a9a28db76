// Package proxable makes a function's implementation swappable at runtime
// without touching its call sites.
//
// Wrap a function once, call it through the handle's Func, and let tests
// install stubs, spies or failures that are later restored:
//
//	var fetchUser = proxable.MustCreate(fetchUserFromDB)
//
//	func Greeting(id int) string { return "hi " + fetchUser.Func()(id).Name }
//
//	func TestGreeting(t *testing.T) {
//	    proxable.Stub(t, fetchUser, User{Name: "ann"})
//	    ...
//	}
//
// Wrapping follows the process policy: outside production it is on; with
// GO_ENV=production it is off (Func returns the original itself) unless
// PROXABLE is "true" or "1".
//
// This is the public API entry point. Implementation lives in internal/core.
package proxable

import (
	"github.com/rs/zerolog"
	"github.com/toejough/proxable/internal/config"
	"github.com/toejough/proxable/internal/core"
)

// Call is one recorded invocation of a spied handle.
type Call = core.Call

// Handle is a swappable indirection around a function of type F.
type Handle[F any] = core.Handle[F]

// Option configures handle creation.
type Option = core.Option

// Policy is the "should wrap?" decision consulted by Create.
type Policy = config.Policy

// Recorder collects the calls made through a spied handle.
type Recorder = core.Recorder

// TestReporter is the minimal interface the test-scoped helpers need from
// test frameworks.
type TestReporter = core.TestReporter

// Errors re-exported from internal/core.
var (
	// ErrNotProxable is returned when the target was never wrapped.
	ErrNotProxable = core.ErrNotProxable
	// ErrInvalidArgument is returned for an unusable mapping function or stub.
	ErrInvalidArgument = core.ErrInvalidArgument
	// ErrNotAFunction is returned by Create for non-function originals.
	ErrNotAFunction = core.ErrNotAFunction
)

// Create wraps original in a handle according to the policy.
func Create[F any](original F, opts ...Option) (*Handle[F], error) {
	return core.New(original, opts...)
}

// DefaultPolicy returns the process policy, read from the environment once.
func DefaultPolicy() Policy {
	return config.Default()
}

// Fail makes every call through handle panic with value until the test completes.
func Fail[F any](t TestReporter, handle *Handle[F], value any) F {
	t.Helper()

	return core.Fail(t, handle, value)
}

// InstallOverride installs the function mapFn builds from the original.
func InstallOverride[F any](handle *Handle[F], mapFn func(F) F) (F, error) {
	return handle.InstallOverride(mapFn)
}

// InstallStub installs stub, either a function or a constant result.
func InstallStub[F any](handle *Handle[F], stub any) (F, error) {
	return handle.InstallStub(stub)
}

// LoadPolicy reads a TOML policy file and applies environment overrides.
func LoadPolicy(path string, lookup func(string) (string, bool)) (Policy, error) {
	return config.Load(path, lookup)
}

// MustCreate is like Create but panics if original cannot be wrapped.
func MustCreate[F any](original F, opts ...Option) *Handle[F] {
	return core.MustNew(original, opts...)
}

// Override installs mapFn's result until the test completes.
func Override[F any](t TestReporter, handle *Handle[F], mapFn func(F) F) F {
	t.Helper()

	return core.Override(t, handle, mapFn)
}

// RestoreOriginal clears any override installed on handle.
func RestoreOriginal[F any](handle *Handle[F]) error {
	return handle.Restore()
}

// Spy records calls through handle until the test completes.
func Spy[F any](t TestReporter, handle *Handle[F]) *Recorder {
	t.Helper()

	return core.Spy(t, handle)
}

// Stub installs stub until the test completes.
func Stub[F any](t TestReporter, handle *Handle[F], stub any) F {
	t.Helper()

	return core.Stub(t, handle, stub)
}

// Swap installs stub and returns a function that restores the original.
func Swap[F any](handle *Handle[F], stub any) (func(), error) {
	return core.Swap(handle, stub)
}

// WithEnabled forces wrapping on or off regardless of the process policy.
func WithEnabled(enabled bool) Option {
	return core.WithEnabled(enabled)
}

// WithLogger sets the logger that receives install and restore events.
func WithLogger(logger zerolog.Logger) Option {
	return core.WithLogger(logger)
}

// WithName sets the base of the handle's display name.
func WithName(name string) Option {
	return core.WithName(name)
}

// WithPolicy decides wrapping from policy instead of the process policy.
func WithPolicy(policy Policy) Option {
	return core.WithPolicy(policy)
}
