package core

import (
	"reflect"
	"sync"
)

// Call is one recorded invocation of a spied handle.
type Call struct {
	Args     []any
	Results  []any
	Panicked any
}

// Recorder collects the calls made through a spied handle.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	calls []Call
}

// Calls returns a copy of the recorded calls, oldest first.
func (r *Recorder) Calls() []Call {
	r.mu.Lock()
	defer r.mu.Unlock()

	calls := make([]Call, len(r.calls))
	copy(calls, r.calls)

	return calls
}

// Count returns the number of recorded calls.
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.calls)
}

// Last returns the most recent call.
func (r *Recorder) Last() (Call, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.calls) == 0 {
		return Call{}, false
	}

	return r.calls[len(r.calls)-1], true
}

// Reset discards the recorded calls.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = nil
}

func (r *Recorder) record(call Call) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls = append(r.calls, call)
}

// Spy installs an override that calls through to the original and records
// every call's arguments, results and panic value. A panic from the original
// is recorded, then re-raised unchanged.
func (h *Handle[F]) Spy() (*Recorder, error) {
	recorder := &Recorder{}

	_, err := h.InstallOverride(func(original F) F {
		return spyOn(original, recorder)
	})
	if err != nil {
		return nil, err
	}

	return recorder, nil
}

func spyOn[F any](original F, recorder *Recorder) F {
	target := reflect.ValueOf(original)
	fnType := target.Type()

	spy, _ := reflect.MakeFunc(fnType, func(args []reflect.Value) (results []reflect.Value) {
		call := Call{Args: flattenArgs(fnType, args)}

		defer func() {
			if recovered := recover(); recovered != nil {
				call.Panicked = recovered
				recorder.record(call)
				panic(recovered)
			}

			call.Results = toInterfaces(results)
			recorder.record(call)
		}()

		if fnType.IsVariadic() {
			return target.CallSlice(args)
		}

		return target.Call(args)
	}).Interface().(F)

	return spy
}

// flattenArgs returns the call's arguments, expanding a variadic tail so that
// Args lists what the caller wrote.
func flattenArgs(fnType reflect.Type, args []reflect.Value) []any {
	if !fnType.IsVariadic() || len(args) == 0 {
		return toInterfaces(args)
	}

	fixed := args[:len(args)-1]
	tail := args[len(args)-1]

	flat := toInterfaces(fixed)
	for i := range tail.Len() {
		flat = append(flat, tail.Index(i).Interface())
	}

	return flat
}

func toInterfaces(values []reflect.Value) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value.Interface())
	}

	return out
}
