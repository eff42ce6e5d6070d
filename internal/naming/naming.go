package naming

import (
	"path"
	"path/filepath"
	"strings"

	"github.com/agentx-labs/cargonative/internal/platform"
)

// Namer applies the naming rules of one platform.
type Namer struct {
	Platform platform.Identity
}

// New returns a Namer for the given platform.
func New(id platform.Identity) Namer {
	return Namer{Platform: id}
}

// ForCurrent returns a Namer for the running process.
func ForCurrent() Namer {
	return New(platform.Current())
}

// Resolved groups the three names derived for one library.
type Resolved struct {
	LoadName     string // platform file name, e.g. libmy_lib.so
	ResourcePath string // slash-separated path inside a bundle
	CachePath    string // absolute extraction destination
}

// Prefix returns the shared library file-name prefix.
func (n Namer) Prefix() string {
	if n.Platform.IsWindows() {
		return ""
	}
	return "lib"
}

// Suffix returns the shared library file extension.
func (n Namer) Suffix() string {
	switch {
	case n.Platform.IsWindows():
		return ".dll"
	case n.Platform.IsMacOS():
		return ".dylib"
	default:
		return ".so"
	}
}

// Normalize turns a logical name into the form cargo gives its outputs.
func Normalize(name string) string {
	return strings.ReplaceAll(name, "-", "_")
}

// StripKnownSuffix converts a decorated file name back to a logical name:
// a trailing platform suffix is removed, then a leading "lib" unless the
// platform is Windows. The result may be empty.
func (n Namer) StripKnownSuffix(raw string) string {
	name := strings.TrimSuffix(raw, n.Suffix())
	if !n.Platform.IsWindows() {
		name = strings.TrimPrefix(name, "lib")
	}
	return name
}

// StripPlatformTag removes a trailing "-{os}-{arch}" tag, so that a flat
// resource name minus its suffix normalizes back to a load name.
func (n Namer) StripPlatformTag(name string) string {
	return strings.TrimSuffix(name, "-"+n.Platform.Tag())
}

// LoadNameWithoutSuffix returns "{prefix}{normalized name}".
func (n Namer) LoadNameWithoutSuffix(name string) string {
	return n.Prefix() + Normalize(name)
}

// CanonicalLoadName returns "{prefix}{normalized name}{suffix}".
func (n Namer) CanonicalLoadName(name string) string {
	return n.LoadNameWithoutSuffix(name) + n.Suffix()
}

// ResourcePath returns the slash-separated location of the library inside
// a bundle. prefix may be empty.
func (n Namer) ResourcePath(prefix, name string, withPlatformDir bool) string {
	var rel string
	if withPlatformDir {
		rel = n.Platform.Tag() + "/" + n.CanonicalLoadName(name)
	} else {
		rel = n.LoadNameWithoutSuffix(name) + "-" + n.Platform.Tag() + n.Suffix()
	}
	return joinPrefix(prefix, rel)
}

// CachePath returns the absolute path the library is extracted to. Names
// and prefixes that would leave tmpDir are rejected with a *NameError.
func (n Namer) CachePath(tmpDir, prefix, name string, withPlatformDir bool) (string, error) {
	if err := ValidateName(name); err != nil {
		return "", err
	}
	if err := ValidatePrefix(prefix); err != nil {
		return "", err
	}
	rel := filepath.FromSlash(n.ResourcePath(prefix, name, withPlatformDir))
	return filepath.Abs(filepath.Join(tmpDir, rel))
}

// Resolve derives all names for one library in a single call. It fails
// with ErrInvalidName for names that are not plain file-name stems.
func (n Namer) Resolve(tmpDir, prefix, name string, withPlatformDir bool) (Resolved, error) {
	cache, err := n.CachePath(tmpDir, prefix, name, withPlatformDir)
	if err != nil {
		return Resolved{}, err
	}
	return Resolved{
		LoadName:     n.CanonicalLoadName(name),
		ResourcePath: n.ResourcePath(prefix, name, withPlatformDir),
		CachePath:    cache,
	}, nil
}

// ExecutableName returns the file name cargo produces for a binary target.
func (n Namer) ExecutableName(name string) string {
	if n.Platform.IsWindows() {
		return name + ".exe"
	}
	return name
}

// ExecutableResourcePath names a copied executable. Nested layouts keep the
// produced file name; flat layouts embed the platform tag before ".exe".
func (n Namer) ExecutableResourcePath(name string, withPlatformDir bool) string {
	if withPlatformDir {
		return n.ExecutableName(name)
	}
	return n.ExecutableName(name + "-" + n.Platform.Tag())
}

func joinPrefix(prefix, rel string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return rel
	}
	return path.Join(prefix, rel)
}
