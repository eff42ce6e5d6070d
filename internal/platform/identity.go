package platform

import (
	"regexp"
	"runtime"
	"strings"
	"sync"
)

// Family is an operating system family with its own native naming rules.
type Family int

const (
	// Linux covers Linux and every OS that is not Windows or macOS.
	Linux Family = iota
	Windows
	MacOS
)

// String returns the token used in resource paths and platform directories.
func (f Family) String() string {
	switch f {
	case Windows:
		return "windows"
	case MacOS:
		return "osx"
	default:
		return "linux"
	}
}

// Identity is the immutable (OS family, architecture) pair of a host.
type Identity struct {
	OS   Family
	Arch string
}

// Tag returns "{os}-{arch}", the platform directory and file-name tag.
func (id Identity) Tag() string {
	return id.OS.String() + "-" + id.Arch
}

// String implements fmt.Stringer.
func (id Identity) String() string { return id.Tag() }

// IsWindows reports whether the identity uses Windows naming.
func (id Identity) IsWindows() bool { return id.OS == Windows }

// IsMacOS reports whether the identity uses macOS naming.
func (id Identity) IsMacOS() bool { return id.OS == MacOS }

// IsLinux reports whether the identity uses Linux (default) naming.
func (id Identity) IsLinux() bool { return id.OS == Linux }

// New classifies a reported OS name and architecture into an Identity.
func New(osName, arch string) Identity {
	return Identity{OS: Classify(osName), Arch: NormalizeArch(arch)}
}

var (
	currentOnce sync.Once
	current     Identity
)

// Current returns the identity of the running process. It is computed
// once and cached for the lifetime of the process.
func Current() Identity {
	currentOnce.Do(func() {
		current = New(runtime.GOOS, runtime.GOARCH)
	})
	return current
}

// Classify maps a reported OS name to a Family with a case-insensitive
// substring match. "darwin" contains "win", so macOS is matched first.
func Classify(osName string) Family {
	name := strings.ToLower(osName)
	switch {
	case strings.Contains(name, "mac"), strings.Contains(name, "darwin"), strings.Contains(name, "osx"):
		return MacOS
	case strings.Contains(name, "win"):
		return Windows
	default:
		return Linux
	}
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// archAliases maps normalized architecture names (Go GOARCH values and
// JVM os.arch values alike) to canonical tokens.
var archAliases = map[string]string{
	"amd64": "x86_64", "x8664": "x86_64", "x64": "x86_64", "ia32e": "x86_64", "em64t": "x86_64",
	"386": "x86_32", "x86": "x86_32", "x8632": "x86_32", "i386": "x86_32", "i486": "x86_32",
	"i586": "x86_32", "i686": "x86_32", "ia32": "x86_32", "x32": "x86_32",
	"arm64": "aarch_64", "aarch64": "aarch_64",
	"arm": "arm_32", "arm32": "arm_32",
	"ppc64le": "ppcle_64", "ppc64": "ppc_64",
	"ppc": "ppc_32", "ppc32": "ppc_32", "ppcle": "ppcle_32", "ppc32le": "ppcle_32",
	"s390x": "s390_64", "s390": "s390_32",
	"mips64le": "mipsel_64", "mips64el": "mipsel_64", "mips64": "mips_64",
	"mipsle": "mipsel_32", "mipsel": "mipsel_32", "mips32el": "mipsel_32",
	"mips": "mips_32", "mips32": "mips_32",
	"sparc": "sparc_32", "sparc32": "sparc_32", "sparc64": "sparc_64", "sparcv9": "sparc_64",
	"riscv64": "riscv64",
	"loong64": "loongarch_64", "loongarch64": "loongarch_64",
}

// NormalizeArch returns the canonical token for an architecture name.
// Unknown names pass through lower-cased with separators removed.
func NormalizeArch(arch string) string {
	key := nonAlnum.ReplaceAllString(strings.ToLower(arch), "")
	if canonical, ok := archAliases[key]; ok {
		return canonical
	}
	return key
}
