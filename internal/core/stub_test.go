package core_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega"
	"github.com/toejough/proxable/internal/core"
	"pgregory.net/rapid"
)

func TestInstallStub_Function(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	calledOriginal := false
	handle := core.MustNew(func() string {
		calledOriginal = true

		return "original"
	}, core.WithEnabled(true))

	impl, err := handle.InstallStub(func() string { return "stub function" })

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(impl()).To(Equal("stub function"))
	g.Expect(handle.Func()()).To(Equal("stub function"))
	g.Expect(calledOriginal).To(BeFalse())
}

func TestInstallStub_Value(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(greet, core.WithEnabled(true))

	_, err := handle.InstallStub("stub value")

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(handle.Func()("anyone")).To(Equal("stub value"))
	g.Expect(handle.Func()("else")).To(Equal("stub value"))
}

// TestInstallStub_Value_Property proves a constant stub ignores its arguments.
func TestInstallStub_Value_Property(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(rt *rapid.T) {
		handle := core.MustNew(func(a, b string) string { return a + b }, core.WithEnabled(true))
		value := rapid.String().Draw(rt, "value")

		if _, err := handle.InstallStub(value); err != nil {
			rt.Fatalf("stub failed: %v", err)
		}

		a := rapid.String().Draw(rt, "a")
		b := rapid.String().Draw(rt, "b")

		if got := handle.Func()(a, b); got != value {
			rt.Fatalf("handle(%q, %q) = %q, want %q", a, b, got, value)
		}
	})
}

func TestInstallStub_ValueFillsFirstMatchingResult(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(func(string) (int, error) { return 1, nil }, core.WithEnabled(true))

	_, err := handle.InstallStub(7)
	g.Expect(err).NotTo(HaveOccurred())

	n, callErr := handle.Func()("x")
	g.Expect(n).To(Equal(7))
	g.Expect(callErr).NotTo(HaveOccurred())

	errInjected := errors.New("injected")

	_, err = handle.InstallStub(errInjected)
	g.Expect(err).NotTo(HaveOccurred())

	n, callErr = handle.Func()("x")
	g.Expect(n).To(BeZero())
	g.Expect(callErr).To(BeIdenticalTo(errInjected))
}

func TestInstallStub_NumericConversion(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(func() int64 { return 0 }, core.WithEnabled(true))

	_, err := handle.InstallStub(42)

	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(handle.Func()()).To(Equal(int64(42)))
}

func TestInstallStub_NilReturnsZeroValues(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(func() (string, error) { return "original", nil }, core.WithEnabled(true))

	_, err := handle.InstallStub(nil)
	g.Expect(err).NotTo(HaveOccurred())

	s, callErr := handle.Func()()
	g.Expect(s).To(BeEmpty())
	g.Expect(callErr).NotTo(HaveOccurred())

	var nilImpl func() (string, error)

	_, err = handle.InstallStub(nilImpl)
	g.Expect(err).NotTo(HaveOccurred())

	s, _ = handle.Func()()
	g.Expect(s).To(BeEmpty())
}

func TestInstallStub_NoResults(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	calls := 0
	handle := core.MustNew(func() { calls++ }, core.WithEnabled(true))

	_, err := handle.InstallStub("ignored")

	g.Expect(err).NotTo(HaveOccurred())
	handle.Func()()
	g.Expect(calls).To(BeZero())
}

func TestInstallStub_ValueOfWrongType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(greet, core.WithEnabled(true))

	_, err := handle.InstallStub(struct{}{})

	g.Expect(err).To(MatchError(core.ErrInvalidArgument))
	g.Expect(handle.Overridden()).To(BeFalse())
	g.Expect(handle.Func()("x")).To(Equal("hello x"))
}

func TestInstallStub_FunctionOfWrongType(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(func() any { return "original" }, core.WithEnabled(true))

	_, err := handle.InstallStub(func() string { return "stub" })

	g.Expect(err).To(MatchError(core.ErrInvalidArgument))
	g.Expect(err).To(MatchError(ContainSubstring("does not match")))
	g.Expect(handle.Overridden()).To(BeFalse())
	g.Expect(handle.Func()()).To(Equal("original"))
}

func TestInstallStub_ReplacesEarlierStub(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	handle := core.MustNew(func() string { return "original" }, core.WithEnabled(true))

	_, err := handle.InstallStub(func() string { return "stub function" })
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(handle.Func()()).To(Equal("stub function"))

	_, err = handle.InstallStub("stub value")
	g.Expect(err).NotTo(HaveOccurred())
	g.Expect(handle.Func()()).To(Equal("stub value"))
}
