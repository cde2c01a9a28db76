package core

import "reflect"

// TestReporter is the minimal interface the test-scoped helpers need from a
// test framework. *testing.T and *testing.B satisfy it.
type TestReporter interface {
	Helper()
	Fatalf(format string, args ...any)
	Cleanup(cleanupFunc func())
}

// Fail installs an implementation that panics with value on every call, and
// restores the original when the test completes.
func Fail[F any](t TestReporter, handle *Handle[F], value any) F {
	t.Helper()

	return Override(t, handle, func(original F) F {
		impl, _ := reflect.MakeFunc(reflect.TypeOf(original), func([]reflect.Value) []reflect.Value {
			panic(value)
		}).Interface().(F)

		return impl
	})
}

// Override installs mapFn's result for the duration of the test.
func Override[F any](t TestReporter, handle *Handle[F], mapFn func(F) F) F {
	t.Helper()

	impl, err := handle.InstallOverride(mapFn)
	if err != nil {
		t.Fatalf("failed to override %s: %v", handle.Name(), err)

		return impl
	}

	t.Cleanup(func() { _ = handle.Restore() })

	return impl
}

// Spy records calls through handle for the duration of the test.
func Spy[F any](t TestReporter, handle *Handle[F]) *Recorder {
	t.Helper()

	recorder, err := handle.Spy()
	if err != nil {
		t.Fatalf("failed to spy on %s: %v", handle.Name(), err)

		return nil
	}

	t.Cleanup(func() { _ = handle.Restore() })

	return recorder
}

// Stub installs stub for the duration of the test.
func Stub[F any](t TestReporter, handle *Handle[F], stub any) F {
	t.Helper()

	impl, err := handle.InstallStub(stub)
	if err != nil {
		t.Fatalf("failed to stub %s: %v", handle.Name(), err)

		return impl
	}

	t.Cleanup(func() { _ = handle.Restore() })

	return impl
}

// Swap installs stub and returns a function that restores the original.
// It suits callers without a TestReporter:
//
//	restore, err := proxable.Swap(handle, stub)
//	if err != nil { ... }
//	defer restore()
func Swap[F any](handle *Handle[F], stub any) (func(), error) {
	_, err := handle.InstallStub(stub)
	if err != nil {
		return nil, err
	}

	return func() { _ = handle.Restore() }, nil
}
