// Package match provides matchers for asserting on calls recorded by proxable spies.
// This package is designed to be dot-imported alongside gomega matchers:
//
//	import (
//	    . "github.com/onsi/gomega"
//	    . "github.com/toejough/proxable/match"
//	)
//
//	recorder := proxable.Spy(t, fetchUser)
//	...
//	g.Expect(recorder).To(HaveBeenCalledWith(BeNumerically(">", 0)))
package match

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/toejough/proxable/internal/core"
)

// Matcher defines the interface for flexible value matching.
// Compatible with gomega.GomegaMatcher via duck typing - any type
// implementing Match and FailureMessage will work.
type Matcher interface {
	Match(actual any) (success bool, err error)
	FailureMessage(actual any) string
}

// BeAny is a matcher that matches any value.
// Useful when you don't care about a particular argument.
//
//nolint:gochecknoglobals // Intentional exported constant-like value
var BeAny Matcher = anyMatcher{}

// HaveBeenCalled succeeds when the recorder holds at least one call.
func HaveBeenCalled() *CallMatcher {
	return &CallMatcher{
		description: "to have been called",
		check: func(calls []core.Call) error {
			if len(calls) == 0 {
				return errNoCalls
			}

			return nil
		},
	}
}

// HaveBeenCalledTimes succeeds when the recorder holds exactly count calls.
func HaveBeenCalledTimes(count int) *CallMatcher {
	return &CallMatcher{
		description: fmt.Sprintf("to have been called %d time(s)", count),
		check: func(calls []core.Call) error {
			if len(calls) != count {
				return fmt.Errorf("%w: got %d call(s)", errCallCount, len(calls))
			}

			return nil
		},
	}
}

// HaveBeenCalledWith succeeds when any recorded call's arguments match
// expected, position by position. Each expected value is either a Matcher or
// compared with reflect.DeepEqual.
func HaveBeenCalledWith(expected ...any) *CallMatcher {
	return &CallMatcher{
		description: fmt.Sprintf("to have been called with %v", expected),
		check: func(calls []core.Call) error {
			if len(calls) == 0 {
				return errNoCalls
			}

			var lastErr error

			for _, call := range calls {
				lastErr = matchArgs(call.Args, expected)
				if lastErr == nil {
					return nil
				}
			}

			return fmt.Errorf("no call matched (last mismatch: %w)", lastErr)
		},
	}
}

// Satisfies returns a matcher that uses a predicate function to check for a match.
// The predicate should return nil if the value matches, or an error describing
// the mismatch if it does not.
//
// Example:
//
//	g.Expect(recorder).To(HaveBeenCalledWith(Satisfies(func(x int) error {
//	    if x < 0 { return fmt.Errorf("expected positive, got %d", x) }
//	    return nil
//	})))
func Satisfies[T any](predicate func(T) error) Matcher {
	return &satisfyMatcher[T]{predicate: predicate}
}

// CallMatcher matches a *core.Recorder (proxable.Recorder) against its calls.
// It satisfies gomega's GomegaMatcher interface.
type CallMatcher struct {
	description string
	check       func([]core.Call) error
	lastErr     error
}

// FailureMessage describes why the recorder did not match.
func (m *CallMatcher) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("expected %s %s: %v", describe(actual), m.description, m.lastErr)
	}

	return fmt.Sprintf("expected %s %s", describe(actual), m.description)
}

// Match checks the recorded calls. actual must be a *proxable.Recorder.
func (m *CallMatcher) Match(actual any) (bool, error) {
	recorder, ok := actual.(*core.Recorder)
	if !ok || recorder == nil {
		return false, fmt.Errorf("%w: expected *proxable.Recorder, got %T", errTypeMismatch, actual)
	}

	m.lastErr = m.check(recorder.Calls())

	return m.lastErr == nil, nil
}

// NegatedFailureMessage describes an unexpected match.
func (m *CallMatcher) NegatedFailureMessage(actual any) string {
	return fmt.Sprintf("expected %s not %s", describe(actual), m.description)
}

// unexported variables.
var (
	errArgCount     = errors.New("argument count mismatch")
	errArgMismatch  = errors.New("argument mismatch")
	errCallCount    = errors.New("call count mismatch")
	errNoCalls      = errors.New("no calls recorded")
	errTypeMismatch = errors.New("type mismatch")
)

// anyMatcher is the implementation of the BeAny matcher.
type anyMatcher struct{}

// FailureMessage returns an empty string since BeAny always matches.
func (anyMatcher) FailureMessage(any) string {
	return ""
}

// Match always returns true - matches any value.
func (anyMatcher) Match(any) (bool, error) {
	return true, nil
}

type satisfyMatcher[T any] struct {
	predicate func(T) error
	lastErr   error
}

func (m *satisfyMatcher[T]) FailureMessage(actual any) string {
	if m.lastErr != nil {
		return fmt.Sprintf("value %v does not satisfy predicate: %v", actual, m.lastErr)
	}

	return fmt.Sprintf("value %v does not satisfy predicate", actual)
}

func (m *satisfyMatcher[T]) Match(actual any) (bool, error) {
	val, ok := actual.(T)

	if !ok {
		return false, fmt.Errorf("%w: expected %T, got %T", errTypeMismatch, *new(T), actual)
	}

	m.lastErr = m.predicate(val)

	return m.lastErr == nil, nil
}

func describe(actual any) string {
	if recorder, ok := actual.(*core.Recorder); ok && recorder != nil {
		return fmt.Sprintf("spy with %d call(s)", recorder.Count())
	}

	return fmt.Sprintf("%T", actual)
}

// matchArgs compares a call's arguments with the expected values.
func matchArgs(actual, expected []any) error {
	if len(actual) != len(expected) {
		return fmt.Errorf("%w: got %d, want %d", errArgCount, len(actual), len(expected))
	}

	for i := range expected {
		ok, msg := matchValue(actual[i], expected[i])
		if !ok {
			return fmt.Errorf("%w at %d: %s", errArgMismatch, i, msg)
		}
	}

	return nil
}

// matchValue checks if actual matches expected.
// If expected implements the Matcher interface, uses its Match method.
// Otherwise, uses reflect.DeepEqual for comparison.
// Returns (success, errorMessage). If success is true, errorMessage is empty.
func matchValue(actual, expected any) (bool, string) {
	if matcher, ok := expected.(Matcher); ok {
		success, err := matcher.Match(actual)
		if err != nil {
			return false, err.Error()
		}

		if !success {
			return false, matcher.FailureMessage(actual)
		}

		return true, ""
	}

	if reflect.DeepEqual(actual, expected) {
		return true, ""
	}

	return false, fmt.Sprintf("expected %v, got %v", expected, actual)
}
