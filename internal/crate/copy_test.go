package crate

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"testing/fstest"

	"github.com/agentx-labs/cargonative/internal/loader"
)

const mixedToml = "[package]\nname = \"my-app\"\n\n[lib]\nname = \"my-lib\"\ncrate-type = [\"cdylib\"]\n"

// buildOutputs fakes a finished cargo build for c.
func buildOutputs(t *testing.T, c *Crate) {
	t.Helper()
	for _, a := range c.Artifacts() {
		if err := os.MkdirAll(filepath.Dir(a.Path), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(a.Path, []byte(a.Name), 0644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestCopyArtifactsDisabled(t *testing.T) {
	c := newCrate(t, writeCrate(t, "my-app", mixedToml, "src/main.rs"), Params{})
	copied, err := c.CopyArtifacts()
	if err != nil || copied != nil {
		t.Errorf("CopyArtifacts() = %q, %v, want nothing", copied, err)
	}
}

func TestCopyArtifactsFlat(t *testing.T) {
	dest := filepath.Join(t.TempDir(), "natives", "out")
	c := newCrate(t, writeCrate(t, "my-app", mixedToml, "src/main.rs"), Params{CopyToDir: dest})
	buildOutputs(t, c)

	copied, err := c.CopyArtifacts()
	if err != nil {
		t.Fatalf("CopyArtifacts: %v", err)
	}

	lib := filepath.Join(dest, "libmy_lib-linux-x86_64.so")
	exe := filepath.Join(dest, "my-app-linux-x86_64")
	if len(copied) != 2 || copied[0] != lib || copied[1] != exe {
		t.Fatalf("copied = %q, want [%s %s]", copied, lib, exe)
	}
	if data, _ := os.ReadFile(lib); string(data) != "my-lib" {
		t.Errorf("library content = %q", data)
	}
	if runtime.GOOS != "windows" {
		info, err := os.Stat(exe)
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm() != 0755 {
			t.Errorf("executable mode = %v, want 0755", info.Mode().Perm())
		}
	}
}

func TestCopyArtifactsNested(t *testing.T) {
	dest := t.TempDir()
	c := newCrate(t, writeCrate(t, "my-app", mixedToml, "src/main.rs"), Params{CopyToDir: dest, CopyWithPlatformDir: true})
	buildOutputs(t, c)

	if _, err := c.CopyArtifacts(); err != nil {
		t.Fatalf("CopyArtifacts: %v", err)
	}
	for _, name := range []string{"libmy_lib.so", "my-app"} {
		if _, err := os.Stat(filepath.Join(dest, "linux-x86_64", name)); err != nil {
			t.Errorf("%s not copied: %v", name, err)
		}
	}
}

func TestCopyArtifactsOverwrites(t *testing.T) {
	dest := t.TempDir()
	c := newCrate(t, writeCrate(t, "my-app", mixedToml), Params{CopyToDir: dest})
	buildOutputs(t, c)

	existing := filepath.Join(dest, "libmy_lib-linux-x86_64.so")
	if err := os.WriteFile(existing, []byte("previous build output"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := c.CopyArtifacts(); err != nil {
		t.Fatalf("CopyArtifacts: %v", err)
	}
	if data, _ := os.ReadFile(existing); string(data) != "my-lib" {
		t.Errorf("content = %q, want my-lib", data)
	}
}

func TestCopyArtifactsMissingArtifact(t *testing.T) {
	dest := t.TempDir()
	c := newCrate(t, writeCrate(t, "my-app", mixedToml, "src/main.rs"), Params{CopyToDir: dest})

	// Only the library exists; the executable copy must fail.
	lib := c.Artifacts()[0]
	if err := os.MkdirAll(filepath.Dir(lib.Path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(lib.Path, []byte("lib"), 0644); err != nil {
		t.Fatal(err)
	}

	copied, err := c.CopyArtifacts()
	var copyErr *CopyError
	if !errors.As(err, &copyErr) {
		t.Fatalf("error = %v, want *CopyError", err)
	}
	if copyErr.Src != c.Artifacts()[1].Path || !errors.Is(err, os.ErrNotExist) {
		t.Errorf("CopyError = %+v", copyErr)
	}
	if len(copied) != 1 {
		t.Errorf("copied = %q, want the library only", copied)
	}
	if _, err := os.Stat(copied[0]); err != nil {
		t.Errorf("earlier copy rolled back: %v", err)
	}
}

func TestCopyDirNotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(file, nil, 0644); err != nil {
		t.Fatal(err)
	}
	c := newCrate(t, writeCrate(t, "my-app", mixedToml), Params{CopyToDir: file})
	if _, err := c.CopyArtifacts(); err == nil {
		t.Error("expected error when the copy target is a file")
	}
}

func TestCopiedLibraryIsLoadable(t *testing.T) {
	for _, nested := range []bool{false, true} {
		dest := t.TempDir()
		c := newCrate(t, writeCrate(t, "my-app", mixedToml), Params{CopyToDir: dest, CopyWithPlatformDir: nested})
		buildOutputs(t, c)
		copied, err := c.CopyArtifacts()
		if err != nil {
			t.Fatal(err)
		}

		rel, err := filepath.Rel(dest, copied[0])
		if err != nil {
			t.Fatal(err)
		}
		bundle := fstest.MapFS{filepath.ToSlash(rel): &fstest.MapFile{Data: []byte("x")}}

		dl := loader.DlopenFunc(func(name string) (loader.Handle, error) {
			if filepath.IsAbs(name) {
				return 1, nil
			}
			return 0, errors.New("not on system path")
		})
		l := loader.New(
			loader.WithNamer(linuxNamer),
			loader.WithDlopener(dl),
			loader.WithResources(bundle),
			loader.WithTempDir(t.TempDir()),
		)
		outcome, err := l.LoadLibrary(loader.Request{Name: "my-lib", WithPlatformDir: nested})
		if err != nil || outcome != loader.ExtractedAndLoaded {
			t.Errorf("nested=%v: LoadLibrary = %v, %v", nested, outcome, err)
		}
	}
}
