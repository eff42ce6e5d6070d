package toolchain

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"sync"

	"github.com/agentx-labs/cargonative/internal/branding"
	"github.com/kballard/go-shellquote"
)

// DefaultTool is the tool path used when none is configured; it is looked
// up in PATH.
const DefaultTool = "cargo"

// State is the cached availability of one tool path.
type State int

const (
	// Unknown means the path has not been probed yet.
	Unknown State = iota
	// NotInstalled means the tool could not be launched.
	NotInstalled
	// Installed means "--version" exited 0.
	Installed
	// Broken means the tool launched but "--version" failed.
	Broken
)

func (s State) String() string {
	switch s {
	case NotInstalled:
		return "not-installed"
	case Installed:
		return "installed"
	case Broken:
		return "broken"
	default:
		return "unknown"
	}
}

// ProbeFunc determines the availability of a tool path.
type ProbeFunc func(ctx context.Context, toolPath string) State

// Checker memoizes tool availability per literal tool path. Results are
// never invalidated: a tool installed mid-run is not re-probed.
type Checker struct {
	mu     sync.Mutex
	states map[string]State
	probe  ProbeFunc
}

// NewChecker returns a Checker that probes with "{tool} --version".
func NewChecker() *Checker {
	return NewCheckerWithProbe(VersionProbe)
}

// NewCheckerWithProbe returns a Checker using a custom probe.
func NewCheckerWithProbe(probe ProbeFunc) *Checker {
	return &Checker{
		states: make(map[string]State),
		probe:  probe,
	}
}

// VersionProbe runs "{toolPath} --version": exit 0 is Installed, any other
// exit is Broken, and a launch failure is NotInstalled.
func VersionProbe(ctx context.Context, toolPath string) State {
	err := exec.CommandContext(ctx, toolPath, "--version").Run()
	if err == nil {
		return Installed
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return Broken
	}
	return NotInstalled
}

// State returns the cached state for toolPath without probing.
func (c *Checker) State(toolPath string) State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.states[toolPath]
}

// Check returns nil when toolPath is installed. Otherwise it returns an
// error wrapping ErrBroken or ErrNotInstalled with an install pointer.
// A probe interrupted by ctx is not cached and returns the context error.
// Concurrent callers for an unknown path share a single probe.
func (c *Checker) Check(ctx context.Context, toolPath string) error {
	c.mu.Lock()
	state := c.states[toolPath]
	if state == Unknown {
		state = c.probe(ctx, toolPath)
		// A cancelled probe says nothing about the tool.
		if err := ctx.Err(); err != nil {
			c.mu.Unlock()
			return fmt.Errorf("probing %s: %w", toolPath, err)
		}
		c.states[toolPath] = state
	}
	c.mu.Unlock()

	switch state {
	case Installed:
		return nil
	case Broken:
		return brokenError(toolPath)
	default:
		return notInstalledError(toolPath)
	}
}

func brokenError(toolPath string) error {
	var b strings.Builder
	if toolPath == DefaultTool {
		b.WriteString("Rust's `cargo`")
	} else {
		b.WriteString("Rust's `cargo` at ")
		b.WriteString(shellquote.Join(toolPath))
	}
	b.WriteString(" is a broken install: Running `cargo --version` returned non-zero exit code")
	return &diagnosticError{msg: withInstallPointer(b.String()), kind: ErrBroken}
}

func notInstalledError(toolPath string) error {
	var b strings.Builder
	if toolPath == DefaultTool {
		b.WriteString("Rust's `cargo` not found in PATH=")
		b.WriteString(shellquote.Join(os.Getenv("PATH")))
	} else {
		b.WriteString("Rust's `cargo` not found at ")
		b.WriteString(shellquote.Join(toolPath))
	}
	return &diagnosticError{msg: withInstallPointer(b.String()), kind: ErrNotInstalled}
}

func withInstallPointer(msg string) string {
	return msg + ".\n\nSee " + branding.InstallURL()
}
