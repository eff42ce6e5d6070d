package bundle

import (
	"archive/tar"
	"archive/zip"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// ErrUnsupportedFormat is returned for files that are not a known archive.
var ErrUnsupportedFormat = errors.New("unsupported bundle format")

// Bundle is a read-only resource context. Close releases any archive handle.
type Bundle struct {
	fs.FS
	// Path is the directory or archive the bundle was opened from.
	Path  string
	close func() error
}

// Close releases the underlying archive, if any.
func (b *Bundle) Close() error {
	if b.close == nil {
		return nil
	}
	return b.close()
}

// Open returns the resource context at p. Directories are served as-is;
// archives are recognized by extension.
func Open(p string) (*Bundle, error) {
	info, err := os.Stat(p)
	if err != nil {
		return nil, fmt.Errorf("opening bundle: %w", err)
	}
	if info.IsDir() {
		return &Bundle{FS: os.DirFS(p), Path: p}, nil
	}

	name := strings.ToLower(filepath.Base(p))
	switch {
	case strings.HasSuffix(name, ".zip"), strings.HasSuffix(name, ".jar"):
		return openZip(p)
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return openTar(p, gzipReader)
	case strings.HasSuffix(name, ".tar.xz"), strings.HasSuffix(name, ".txz"):
		return openTar(p, xzReader)
	case strings.HasSuffix(name, ".tar"):
		return openTar(p, nil)
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, p)
}

// Default returns the directory holding the running executable.
func Default() (*Bundle, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	dir := filepath.Dir(exe)
	return &Bundle{FS: os.DirFS(dir), Path: dir}, nil
}

func openZip(p string) (*Bundle, error) {
	r, err := zip.OpenReader(p)
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}
	return &Bundle{FS: r, Path: p, close: r.Close}, nil
}

type decompressor func(io.Reader) (io.Reader, error)

func gzipReader(r io.Reader) (io.Reader, error) {
	return gzip.NewReader(r)
}

func xzReader(r io.Reader) (io.Reader, error) {
	return xz.NewReader(r)
}

// openTar reads every regular file of the archive into memory.
func openTar(p string, decompress decompressor) (*Bundle, error) {
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	if decompress != nil {
		if r, err = decompress(f); err != nil {
			return nil, fmt.Errorf("creating decompressor: %w", err)
		}
	}

	mem := afero.NewMemMapFs()
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading tar entry: %w", err)
		}

		name, ok := entryName(hdr.Name)
		if !ok {
			continue
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			if err := mem.MkdirAll(name, 0755); err != nil {
				return nil, fmt.Errorf("creating %s: %w", name, err)
			}
		case tar.TypeReg:
			data, err := io.ReadAll(tr)
			if err != nil {
				return nil, fmt.Errorf("extracting %s: %w", name, err)
			}
			if err := afero.WriteFile(mem, name, data, hdr.FileInfo().Mode().Perm()); err != nil {
				return nil, fmt.Errorf("extracting %s: %w", name, err)
			}
		}
	}

	return &Bundle{FS: afero.NewIOFS(mem), Path: p}, nil
}

// entryName cleans an archive member name into an fs.FS path and rejects
// names escaping the archive root.
func entryName(name string) (string, bool) {
	name = path.Clean(strings.TrimLeft(filepath.ToSlash(name), "/"))
	if name == "." || !fs.ValidPath(name) {
		return "", false
	}
	return name, true
}
