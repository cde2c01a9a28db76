package core

import (
	"fmt"
	"reflect"
	"slices"
)

// stubFunc turns a stub into an implementation of F. Functions of type F, or
// of a func type convertible to F, are returned as-is; other non-nil functions
// are rejected rather than returned as values. Anything else becomes
// a function that ignores its arguments and returns the stub as a constant.
func stubFunc[F any](stub any) (F, error) {
	var zero F

	if impl, ok := stub.(F); ok && !reflect.ValueOf(impl).IsNil() {
		return impl, nil
	}

	fnType := reflect.TypeFor[F]()

	stubValue := reflect.ValueOf(stub)
	if stubValue.Kind() == reflect.Func && !stubValue.IsNil() {
		if !stubValue.Type().ConvertibleTo(fnType) {
			return zero, fmt.Errorf("%w: stub function of type %v does not match %v",
				ErrInvalidArgument, stubValue.Type(), fnType)
		}

		impl, _ := stubValue.Convert(fnType).Interface().(F)

		return impl, nil
	}

	results, err := constantResults(fnType, stub)
	if err != nil {
		return zero, err
	}

	impl, _ := reflect.MakeFunc(fnType, func([]reflect.Value) []reflect.Value {
		return slices.Clone(results)
	}).Interface().(F)

	return impl, nil
}

// constantResults builds the fixed result list for a constant stub. The value
// fills the first result it fits; the others stay zero. A nil stub, including a
// nil function, leaves every result zero.
func constantResults(fnType reflect.Type, stub any) ([]reflect.Value, error) {
	results := make([]reflect.Value, fnType.NumOut())
	for i := range results {
		results[i] = reflect.Zero(fnType.Out(i))
	}

	stubValue := reflect.ValueOf(stub)
	if !stubValue.IsValid() || isNilFunc(stubValue) || fnType.NumOut() == 0 {
		return results, nil
	}

	for i := range results {
		if fitted, ok := fit(stubValue, fnType.Out(i)); ok {
			results[i] = fitted

			return results, nil
		}
	}

	return nil, fmt.Errorf("%w: stub value of type %v cannot be returned by %v",
		ErrInvalidArgument, stubValue.Type(), fnType)
}

// fit adapts value to target by assignment, or by conversion between numeric kinds.
func fit(value reflect.Value, target reflect.Type) (reflect.Value, bool) {
	if value.Type().AssignableTo(target) {
		fitted := reflect.New(target).Elem()
		fitted.Set(value)

		return fitted, true
	}

	if isNumeric(value.Kind()) && isNumeric(target.Kind()) && value.Type().ConvertibleTo(target) {
		return value.Convert(target), true
	}

	return reflect.Value{}, false
}

func isNilFunc(value reflect.Value) bool {
	return value.Kind() == reflect.Func && value.IsNil()
}

func isNumeric(kind reflect.Kind) bool {
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return true
	default:
		return false
	}
}
