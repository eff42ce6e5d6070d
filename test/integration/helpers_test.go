//go:build integration

package integration_test

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/agentx-labs/cargonative/internal/naming"
)

// testEnv holds paths to isolated test directories.
type testEnv struct {
	HomeDir   string // HOME, holds .cargonative/config.yaml
	CrateDir  string // the crate under test
	TargetDir string // cargo target root
	BundleDir string // artifact copy destination
	Cargo     string // fake cargo executable
}

// setupTestEnv creates isolated temp directories, points HOME at one of them
// and installs a fake cargo that fabricates build outputs.
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("the fake cargo is a shell script")
	}

	env := &testEnv{
		HomeDir:   t.TempDir(),
		CrateDir:  filepath.Join(t.TempDir(), "native-demo"),
		TargetDir: t.TempDir(),
		BundleDir: t.TempDir(),
	}
	t.Setenv("HOME", env.HomeDir)
	env.Cargo = writeFakeCargo(t)
	return env
}

// setupCrate writes a crate producing a cdylib "native-demo" and an
// executable "demo-cli".
func setupCrate(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, "Cargo.toml"), `[package]
name = "native-demo"
version = "0.1.0"
edition = "2021"

[lib]
crate-type = ["cdylib"]

[[bin]]
name = "demo-cli"
path = "src/main.rs"
`)
	writeFile(t, filepath.Join(dir, "src", "lib.rs"), "#[no_mangle]\npub extern \"C\" fn demo() {}\n")
	writeFile(t, filepath.Join(dir, "src", "main.rs"), "fn main() {}\n")
}

// writeFakeCargo creates a cargo stand-in. "--version" prints a version;
// build writes every artifact of the demo crate under --target-dir.
func writeFakeCargo(t *testing.T) string {
	t.Helper()
	namer := naming.ForCurrent()
	lib := namer.CanonicalLoadName("native-demo")
	exe := namer.ExecutableName("demo-cli")

	script := `#!/bin/sh
if [ "$1" = "--version" ]; then
  echo "cargo 1.79.0 (ffa9cf99a 2024-06-03)"
  exit 0
fi
CMD="$1"
PROFILE=debug
while [ $# -gt 0 ]; do
  case "$1" in
    --target-dir) TD="$2"; shift ;;
    --release) PROFILE=release ;;
  esac
  shift
done
echo "Compiling native-demo v0.1.0"
if [ "$CMD" = "build" ]; then
  mkdir -p "$TD/$PROFILE"
  echo "shared object" > "$TD/$PROFILE/` + lib + `"
  echo "executable" > "$TD/$PROFILE/` + exe + `"
fi
echo "Finished $PROFILE target(s)"
`
	path := filepath.Join(t.TempDir(), "cargo")
	if err := os.WriteFile(path, []byte(script), 0755); err != nil {
		t.Fatalf("writing fake cargo: %v", err)
	}
	return path
}

// writeFile creates a file at the given path with the given content.
func writeFile(t *testing.T, path, content string) {
	t.Helper()
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("creating dir %s: %v", dir, err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// assertFileExists fails the test if the file does not exist.
func assertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); err != nil {
		t.Errorf("expected file to exist: %s (error: %v)", path, err)
	}
}

// assertDirExists fails the test if the directory does not exist.
func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Errorf("expected directory to exist: %s (error: %v)", path, err)
		return
	}
	if !info.IsDir() {
		t.Errorf("expected %s to be a directory, but it is a file", path)
	}
}

// assertFileContains fails if the file doesn't exist or doesn't contain substr.
func assertFileContains(t *testing.T, path, substr string) {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Errorf("reading %s: %v", path, err)
		return
	}
	if !strings.Contains(string(data), substr) {
		t.Errorf("file %s does not contain %q.\nContents:\n%s", path, substr, string(data))
	}
}
