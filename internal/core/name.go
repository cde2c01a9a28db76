package core

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

const (
	proxySuffix   = "Proxy"
	anonymousName = "proxy"
)

// unexported variables.
var (
	//nolint:gochecknoglobals // Compiled once
	closureSegment = regexp.MustCompile(`^(func\d+|\d+)$`)
)

// displayName returns "<base>Proxy", or "proxy" when there is no usable base.
func displayName(base string) string {
	if base == "" {
		return anonymousName
	}

	return base + proxySuffix
}

// funcName returns the declared name of fn, or "" for closures and
// reflect-built functions.
func funcName(fn reflect.Value) string {
	if fn.Kind() != reflect.Func || fn.IsNil() {
		return ""
	}

	info := runtime.FuncForPC(fn.Pointer())
	if info == nil {
		return ""
	}

	return baseName(info.Name())
}

// baseName reduces a runtime symbol such as "example.com/pkg.(*T).Method-fm"
// to its final identifier.
func baseName(symbol string) string {
	if strings.HasPrefix(symbol, "reflect.") {
		return ""
	}

	if slash := strings.LastIndex(symbol, "/"); slash >= 0 {
		symbol = symbol[slash+1:]
	}

	symbol = strings.TrimSuffix(symbol, "-fm")

	symbol = strings.ReplaceAll(symbol, "[...]", "")

	segments := strings.Split(symbol, ".")
	if len(segments) < 2 {
		return ""
	}

	// Any closure segment after the package name marks an anonymous function.
	for _, segment := range segments[1:] {
		if closureSegment.MatchString(segment) {
			return ""
		}
	}

	return segments[len(segments)-1]
}
