package platform

import (
	"os"
	"runtime"
)

// ExecutableMode is applied to executables copied out of a build directory.
const ExecutableMode os.FileMode = 0755

// Chmod sets file permissions. On Windows this is a no-op because Windows
// does not support Unix-style permission bits.
func Chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}

// MarkExecutable makes path runnable by everyone and writable by its owner.
func MarkExecutable(path string) error {
	return Chmod(path, ExecutableMode)
}
