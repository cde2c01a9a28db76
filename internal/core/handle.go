// Package core provides the internal implementation of proxable handles:
// a stable callable whose implementation can be swapped at runtime.
package core

import (
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Handle is a swappable indirection around a function of type F.
//
// Callers hold the function returned by Func. Every call through it dispatches
// to the installed override if there is one, else to the original.
// A Handle must not be copied after creation.
type Handle[F any] struct {
	original F
	override atomic.Pointer[F]
	dispatch F
	name     string
	marked   bool
	logger   zerolog.Logger
}

// New wraps original in a handle. When the policy disables wrapping, the
// returned handle is a passthrough: Func returns original itself and every
// administrative operation fails with ErrNotProxable.
func New[F any](original F, opts ...Option) (*Handle[F], error) {
	fnType := reflect.TypeFor[F]()
	if fnType.Kind() != reflect.Func {
		return nil, fmt.Errorf("%w: %v", ErrNotAFunction, fnType)
	}

	originalValue := reflect.ValueOf(original)
	if originalValue.IsNil() {
		return nil, fmt.Errorf("%w: nil %v", ErrNotAFunction, fnType)
	}

	cfg := newOptions(opts)

	base := cfg.name
	if base == "" {
		base = funcName(originalValue)
	}

	if !cfg.policy.ShouldWrap() {
		return &Handle[F]{
			original: original,
			dispatch: original,
			name:     base,
			logger:   zerolog.Nop(),
		}, nil
	}

	handle := &Handle[F]{
		original: original,
		name:     displayName(base),
		marked:   true,
		logger:   cfg.resolveLogger(),
	}

	dispatch, ok := reflect.MakeFunc(fnType, handle.call).Interface().(F)
	if !ok {
		return nil, fmt.Errorf("%w: cannot build dispatcher for %v", ErrNotAFunction, fnType)
	}

	handle.dispatch = dispatch

	return handle, nil
}

// MustNew is like New but panics if original cannot be wrapped.
// It simplifies package-level declarations:
//
//	var fetchUser = proxable.MustNew(fetchUserFromDB)
func MustNew[F any](original F, opts ...Option) *Handle[F] {
	handle, err := New(original, opts...)
	if err != nil {
		panic(fmt.Sprintf("proxable: %v", err))
	}

	return handle
}

// Func returns the stable callable. It is the same value for the life of the handle.
func (h *Handle[F]) Func() F {
	return h.dispatch
}

// InstallOverride calls mapFn with the original implementation and installs
// the function it returns. It returns that function, not the handle.
func (h *Handle[F]) InstallOverride(mapFn func(F) F) (F, error) {
	var zero F

	if !h.Proxied() {
		return zero, ErrNotProxable
	}

	if mapFn == nil {
		return zero, fmt.Errorf("%w: mapFn is not a function", ErrInvalidArgument)
	}

	impl := mapFn(h.original)
	if reflect.ValueOf(impl).IsNil() {
		return zero, fmt.Errorf("%w: mapFn does not return a function", ErrInvalidArgument)
	}

	h.override.Store(&impl)
	h.logger.Debug().Str("handle", h.name).Msg("override installed")

	return impl, nil
}

// InstallStub installs stub as the implementation. A function of type F (or
// convertible to it) is installed verbatim; any other value becomes a
// constant result returned for every call.
func (h *Handle[F]) InstallStub(stub any) (F, error) {
	var zero F

	if !h.Proxied() {
		return zero, ErrNotProxable
	}

	impl, err := stubFunc[F](stub)
	if err != nil {
		return zero, err
	}

	return h.InstallOverride(func(F) F { return impl })
}

// Name returns the display name used in diagnostics.
func (h *Handle[F]) Name() string {
	if h == nil {
		return ""
	}

	return h.name
}

// Original returns the function the handle was created from.
func (h *Handle[F]) Original() F {
	return h.original
}

// Overridden reports whether an override is currently installed.
func (h *Handle[F]) Overridden() bool {
	return h.Proxied() && h.override.Load() != nil
}

// Proxied reports whether the handle was created with wrapping enabled.
func (h *Handle[F]) Proxied() bool {
	return h != nil && h.marked
}

// Restore clears any installed override. Restoring when nothing is installed
// is a no-op.
func (h *Handle[F]) Restore() error {
	if !h.Proxied() {
		return ErrNotProxable
	}

	if h.override.Swap(nil) != nil {
		h.logger.Debug().Str("handle", h.name).Msg("original restored")
	}

	return nil
}

// String implements fmt.Stringer.
func (h *Handle[F]) String() string {
	return h.Name()
}

// active returns the implementation calls currently dispatch to.
func (h *Handle[F]) active() F {
	if override := h.override.Load(); override != nil {
		return *override
	}

	return h.original
}

func (h *Handle[F]) call(args []reflect.Value) []reflect.Value {
	impl := reflect.ValueOf(h.active())

	if impl.Type().IsVariadic() {
		return impl.CallSlice(args)
	}

	return impl.Call(args)
}
