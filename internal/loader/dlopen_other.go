//go:build !(darwin || linux || freebsd || windows)

package loader

import (
	"fmt"
	"runtime"
)

// Native returns a Dlopener that always fails: no dynamic loading support
// is wired for this platform.
func Native() Dlopener {
	return DlopenFunc(func(name string) (Handle, error) {
		return 0, fmt.Errorf("loading %s: dynamic libraries unsupported on %s", name, runtime.GOOS)
	})
}
