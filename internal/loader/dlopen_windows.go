//go:build windows

package loader

import (
	"fmt"

	"golang.org/x/sys/windows"
)

// Native returns the LoadLibrary-backed Dlopener.
func Native() Dlopener {
	return DlopenFunc(func(name string) (Handle, error) {
		h, err := windows.LoadLibrary(name)
		if err != nil {
			return 0, fmt.Errorf("LoadLibrary %s: %w", name, err)
		}
		return Handle(h), nil
	})
}
