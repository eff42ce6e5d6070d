package crate

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agentx-labs/cargonative/internal/platform"
	"github.com/kballard/go-shellquote"
)

// CopyDir returns the directory artifacts are copied into, creating it if
// needed. The boolean is false when copying is disabled.
func (c *Crate) CopyDir() (string, bool, error) {
	dir := c.params.CopyToDir
	if dir == "" {
		return "", false, nil
	}
	if c.params.CopyWithPlatformDir {
		dir = filepath.Join(dir, c.namer.Platform.Tag())
	}

	if _, err := os.Lstat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", false, fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	info, err := os.Stat(dir)
	if err != nil {
		return "", false, fmt.Errorf("checking %s: %w", dir, err)
	}
	if !info.IsDir() {
		return "", false, fmt.Errorf("%s is not a directory", dir)
	}
	return dir, true, nil
}

// CopyName returns the file name an artifact gets in the copy directory.
// Nested layouts keep cargo's name; flat layouts embed the platform tag so
// the loader finds libraries under their logical name.
func (c *Crate) CopyName(a Artifact) string {
	if a.Kind == Executable {
		return c.namer.ExecutableResourcePath(a.Name, c.params.CopyWithPlatformDir)
	}
	raw := filepath.Base(a.Path)
	if c.params.CopyWithPlatformDir {
		return raw
	}
	return c.namer.ResourcePath("", c.namer.StripKnownSuffix(raw), false)
}

// CopyArtifacts copies every artifact into the copy directory, replacing
// existing files, and returns the destination paths. It is a no-op when no
// copy directory is configured. The first failure aborts the remaining
// copies; files already copied stay in place.
func (c *Crate) CopyArtifacts() ([]string, error) {
	dir, ok, err := c.CopyDir()
	if err != nil || !ok {
		return nil, err
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	c.log.Infof("Copying %s's artifacts to %s", filepath.Base(c.root), shellquote.Join(abs))

	var copied []string
	for _, a := range c.Artifacts() {
		name := c.CopyName(a)
		dst := filepath.Join(dir, name)
		c.log.Debugf("fileName: %s, destPath: %s", name, dst)
		if err := copyFile(a.Path, dst); err != nil {
			return copied, &CopyError{Src: a.Path, Dst: dir, Err: err}
		}
		if a.Kind == Executable {
			if err := platform.MarkExecutable(dst); err != nil {
				return copied, &CopyError{Src: a.Path, Dst: dir, Err: err}
			}
		}
		c.log.Infof("Copied %s", shellquote.Join(name))
		copied = append(copied, dst)
	}
	return copied, nil
}

// copyFile copies src to dst, replacing dst and preserving the source mode.
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	srcInfo, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, srcInfo.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
