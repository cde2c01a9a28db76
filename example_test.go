package proxable_test

import (
	"errors"
	"fmt"

	"github.com/toejough/proxable"
)

func ExampleCreate() {
	lookup := proxable.MustCreate(func(key string) (string, error) {
		return "value for " + key, nil
	}, proxable.WithEnabled(true))

	fmt.Println(lookup.Func()("a"))

	_, _ = proxable.InstallStub(lookup, errors.New("unavailable"))

	value, err := lookup.Func()("a")
	fmt.Printf("%q %v\n", value, err)

	_ = proxable.RestoreOriginal(lookup)
	fmt.Println(lookup.Func()("a"))
	// Output:
	// value for a <nil>
	// "" unavailable
	// value for a <nil>
}

func ExampleInstallOverride() {
	double := proxable.MustCreate(func(n int) int { return n * 2 }, proxable.WithEnabled(true))

	_, _ = proxable.InstallOverride(double, func(original func(int) int) func(int) int {
		return func(n int) int { return original(n) + 1 }
	})

	fmt.Println(double.Func()(5))
	// Output: 11
}
