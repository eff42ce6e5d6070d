package loader

// Handle is an opaque library handle returned by the platform linker.
type Handle uintptr

// Dlopener maps a shared library into the process. A bare file name is
// resolved through the platform's library search path; a path is opened
// as-is.
type Dlopener interface {
	Open(name string) (Handle, error)
}

// DlopenFunc adapts a function to the Dlopener interface.
type DlopenFunc func(name string) (Handle, error)

func (f DlopenFunc) Open(name string) (Handle, error) { return f(name) }
