package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/agentx-labs/cargonative/internal/naming"
	"github.com/agentx-labs/cargonative/internal/platform"
	"github.com/spf13/viper"
)

// runCLI executes the root command in an isolated home directory.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("USERPROFILE", home)
	viper.Reset()
	t.Cleanup(viper.Reset)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func resetResolveFlags() {
	resolvePrefix, resolvePlatformDir, resolveTmpDir = "", false, ""
	resolveOS, resolveArch, resolveJSON = "", "", false
}

func TestResolveJSON(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		resource string
		loadName string
	}{
		{
			name:     "flat linux",
			args:     []string{"resolve", "my-lib", "--os", "linux", "--arch", "amd64", "--json"},
			resource: "libmy_lib-linux-x86_64.so",
			loadName: "libmy_lib.so",
		},
		{
			name:     "nested windows with prefix",
			args:     []string{"resolve", "my-lib", "--os", "Windows 11", "--arch", "x64", "--platform-dir", "--prefix", "natives", "--json"},
			resource: "natives/windows-x86_64/my_lib.dll",
			loadName: "my_lib.dll",
		},
		{
			name:     "darwin",
			args:     []string{"resolve", "demo", "--os", "Darwin", "--arch", "arm64", "--json"},
			resource: "libdemo-osx-aarch_64.dylib",
			loadName: "libdemo.dylib",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resetResolveFlags()
			tmp := t.TempDir()
			out, err := runCLI(t, append(tt.args, "--tmp-dir", tmp)...)
			if err != nil {
				t.Fatalf("resolve: %v\n%s", err, out)
			}

			var got map[string]string
			if err := json.Unmarshal([]byte(out), &got); err != nil {
				t.Fatalf("invalid JSON %q: %v", out, err)
			}
			if got["resource_path"] != tt.resource {
				t.Errorf("resource_path = %q, want %q", got["resource_path"], tt.resource)
			}
			if got["load_name"] != tt.loadName {
				t.Errorf("load_name = %q, want %q", got["load_name"], tt.loadName)
			}
			wantCache, _ := filepath.Abs(filepath.Join(tmp, filepath.FromSlash(tt.resource)))
			if got["cache_path"] != wantCache {
				t.Errorf("cache_path = %q, want %q", got["cache_path"], wantCache)
			}
		})
	}
}

func TestResolveRejectsPathInName(t *testing.T) {
	resetResolveFlags()
	out, err := runCLI(t, "resolve", "x/../../outside", "--tmp-dir", t.TempDir())
	if !errors.Is(err, naming.ErrInvalidName) {
		t.Fatalf("resolve error = %v, want ErrInvalidName\n%s", err, out)
	}
}

func TestTargetPlatformOverrides(t *testing.T) {
	current := platform.Current()
	if got := targetPlatform("", ""); got != current {
		t.Errorf("targetPlatform() = %v, want %v", got, current)
	}
	got := targetPlatform("Mac OS X", "")
	if got.OS != platform.MacOS || got.Arch != current.Arch {
		t.Errorf("targetPlatform(Mac OS X) = %v", got)
	}
}

func TestTmpDirPrecedence(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	if got := tmpDir(""); got != os.TempDir() {
		t.Errorf("tmpDir() = %q, want %q", got, os.TempDir())
	}
	viper.Set("tmp_dir", "/var/cache/natives")
	if got := tmpDir(""); got != "/var/cache/natives" {
		t.Errorf("tmpDir() = %q, want config value", got)
	}
	if got := tmpDir("/flag"); got != "/flag" {
		t.Errorf("tmpDir() = %q, want flag value", got)
	}
}

func writeDemoCrate(t *testing.T) string {
	t.Helper()
	root := filepath.Join(t.TempDir(), "demo")
	if err := os.MkdirAll(filepath.Join(root, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	toml := "[package]\nname = \"demo\"\nversion = \"0.1.0\"\n\n[lib]\ncrate-type = [\"cdylib\"]\n"
	if err := os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte(toml), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "src", "main.rs"), []byte("fn main() {}\n"), 0644); err != nil {
		t.Fatal(err)
	}
	return root
}

func TestArtifactsJSON(t *testing.T) {
	root := writeDemoCrate(t)
	target := t.TempDir()

	out, err := runCLI(t, "artifacts", root, "--target-dir", target, "--json")
	if err != nil {
		t.Fatalf("artifacts: %v\n%s", err, out)
	}

	var entries []artifactEntry
	if err := json.Unmarshal([]byte(out), &entries); err != nil {
		t.Fatalf("invalid JSON %q: %v", out, err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %+v, want library and executable", entries)
	}

	namer := naming.ForCurrent()
	lib := entries[0]
	if lib.Kind != "library" || lib.Name != "demo" {
		t.Errorf("library entry = %+v", lib)
	}
	if want := filepath.Join(target, "demo", "debug", namer.CanonicalLoadName("demo")); lib.Path != want {
		t.Errorf("library path = %q, want %q", lib.Path, want)
	}
	if lib.CopyName != namer.ResourcePath("", "demo", false) {
		t.Errorf("library copy name = %q", lib.CopyName)
	}
	if entries[1].Kind != "executable" || entries[1].Name != "demo" {
		t.Errorf("executable entry = %+v", entries[1])
	}
}

func TestBuildCopiesArtifacts(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes require a Unix shell")
	}
	namer := naming.ForCurrent()
	libFile := namer.CanonicalLoadName("demo")

	cargo := filepath.Join(t.TempDir(), "cargo")
	script := `#!/bin/sh
while [ $# -gt 0 ]; do
  if [ "$1" = "--target-dir" ]; then TD="$2"; fi
  shift
done
mkdir -p "$TD/release"
echo lib > "$TD/release/` + libFile + `"
echo exe > "$TD/release/demo"
`
	if err := os.WriteFile(cargo, []byte(script), 0755); err != nil {
		t.Fatal(err)
	}

	root := writeDemoCrate(t)
	dest := t.TempDir()
	out, err := runCLI(t, "build", root,
		"--cargo-path", cargo,
		"--target-dir", t.TempDir(),
		"--release",
		"--copy-to", dest,
		"--copy-with-platform-dir",
	)
	if err != nil {
		t.Fatalf("build: %v\n%s", err, out)
	}

	tagDir := filepath.Join(dest, namer.Platform.Tag())
	for _, name := range []string{libFile, "demo"} {
		if !strings.Contains(out, filepath.Join(tagDir, name)) {
			t.Errorf("output %q does not list %s", out, name)
		}
		if _, err := os.Stat(filepath.Join(tagDir, name)); err != nil {
			t.Errorf("%s not copied: %v", name, err)
		}
	}
}

func TestTestSkip(t *testing.T) {
	defer func() { skipTests = false }()
	if _, err := runCLI(t, "test", "/nonexistent/crate", "--skip-tests"); err != nil {
		t.Errorf("test --skip-tests: %v", err)
	}
}

func TestVersionShort(t *testing.T) {
	buildVersion = "1.2.3"
	defer func() { versionShort = false }()

	out, err := runCLI(t, "version", "--short")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "1.2.3" {
		t.Errorf("version --short = %q", out)
	}
}

func TestDoctorManifestCheck(t *testing.T) {
	root := writeDemoCrate(t)
	defer func() { checkManifest, doctorCargoPath = "", "" }()

	out, _ := runCLI(t, "doctor", "--check-manifest", filepath.Join(root, "Cargo.toml"), "--cargo-path", filepath.Join(t.TempDir(), "missing-cargo"))
	if !strings.Contains(out, "Valid manifest for package demo") {
		t.Errorf("doctor output %q lacks manifest result", out)
	}
	if !strings.Contains(out, "[FAIL]") || !strings.Contains(out, "not found at") {
		t.Errorf("doctor output %q lacks cargo diagnosis", out)
	}
}
