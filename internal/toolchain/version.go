package toolchain

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var versionPattern = regexp.MustCompile(`\bv?(\d+\.\d+\.\d+(?:-[0-9A-Za-z.-]+)?)`)

// ParseVersion extracts the first semantic version from "--version" output
// such as "cargo 1.78.0 (54d8815d0 2024-03-26)".
func ParseVersion(output string) (*semver.Version, error) {
	m := versionPattern.FindStringSubmatch(output)
	if m == nil {
		return nil, fmt.Errorf("no version found in %q", strings.TrimSpace(output))
	}
	return semver.NewVersion(m[1])
}

// Version runs "{toolPath} --version" and parses its output.
func Version(ctx context.Context, toolPath string) (*semver.Version, error) {
	out, err := exec.CommandContext(ctx, toolPath, "--version").Output()
	if err != nil {
		return nil, fmt.Errorf("running %s --version: %w", toolPath, err)
	}
	return ParseVersion(string(out))
}

// ParseConstraint accepts a Masterminds constraint (">= 1.70, < 2") or a
// bare version, which is treated as a minimum.
func ParseConstraint(expr string) (*semver.Constraints, error) {
	expr = strings.TrimSpace(expr)
	if _, err := semver.NewVersion(strings.TrimPrefix(expr, "v")); err == nil {
		expr = ">= " + strings.TrimPrefix(expr, "v")
	}
	c, err := semver.NewConstraint(expr)
	if err != nil {
		return nil, fmt.Errorf("parsing version constraint %q: %w", expr, err)
	}
	return c, nil
}

// CheckVersion reports whether v satisfies the constraint expression.
func CheckVersion(v *semver.Version, expr string) error {
	c, err := ParseConstraint(expr)
	if err != nil {
		return err
	}
	if ok, errs := c.Validate(v); !ok {
		reasons := make([]string, 0, len(errs))
		for _, e := range errs {
			reasons = append(reasons, e.Error())
		}
		return fmt.Errorf("version %s does not satisfy %q: %s", v, expr, strings.Join(reasons, "; "))
	}
	return nil
}

// RequireVersion fails unless the tool at toolPath reports a version
// satisfying constraint.
func RequireVersion(ctx context.Context, toolPath, constraint string) (*semver.Version, error) {
	v, err := Version(ctx, toolPath)
	if err != nil {
		return nil, err
	}
	if err := CheckVersion(v, constraint); err != nil {
		return v, err
	}
	return v, nil
}
