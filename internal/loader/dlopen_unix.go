//go:build darwin || linux || freebsd

package loader

import (
	"fmt"

	"github.com/ebitengine/purego"
)

// Native returns the dlopen-backed Dlopener. Libraries are bound eagerly
// and their symbols made globally visible.
func Native() Dlopener {
	return DlopenFunc(func(name string) (Handle, error) {
		h, err := purego.Dlopen(name, purego.RTLD_NOW|purego.RTLD_GLOBAL)
		if err != nil {
			return 0, fmt.Errorf("dlopen %s: %w", name, err)
		}
		return Handle(h), nil
	})
}
