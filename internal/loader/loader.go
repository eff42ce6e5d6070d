package loader

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentx-labs/cargonative/internal/bundle"
	"github.com/agentx-labs/cargonative/internal/logging"
	"github.com/agentx-labs/cargonative/internal/naming"
)

// Outcome tells how a load request was satisfied.
type Outcome int

const (
	// Failed means neither the system nor the bundle provided the library.
	Failed Outcome = iota
	// SystemLoaded means the dynamic linker found the library on its own.
	SystemLoaded
	// ExtractedAndLoaded means the library was copied out of the bundle.
	ExtractedAndLoaded
)

func (o Outcome) String() string {
	switch o {
	case SystemLoaded:
		return "system"
	case ExtractedAndLoaded:
		return "extracted"
	default:
		return "failed"
	}
}

// Request describes one library to load.
type Request struct {
	// Name is the logical library name, e.g. "my-lib".
	Name string
	// Prefix is an optional directory inside the bundle.
	Prefix string
	// WithPlatformDir selects the nested "{os}-{arch}/" layout.
	WithPlatformDir bool
	// Resources overrides the loader's resource context.
	Resources fs.FS
	// TempDir overrides the loader's extraction root.
	TempDir string
}

// Loader loads native libraries. All loads through one Loader are
// serialized. Repeated requests for the same library re-run the full
// sequence; the platform linker deduplicates the mapping itself.
type Loader struct {
	mu        sync.Mutex
	namer     naming.Namer
	dl        Dlopener
	resources fs.FS
	tempDir   string
	log       logging.Logger
}

// Option configures a Loader.
type Option func(*Loader)

// WithNamer overrides the naming rules, mainly to target another platform.
func WithNamer(n naming.Namer) Option {
	return func(l *Loader) { l.namer = n }
}

// WithDlopener overrides the platform linker.
func WithDlopener(d Dlopener) Option {
	return func(l *Loader) { l.dl = d }
}

// WithResources sets the default resource context.
func WithResources(fsys fs.FS) Option {
	return func(l *Loader) { l.resources = fsys }
}

// WithTempDir sets the default extraction root.
func WithTempDir(dir string) Option {
	return func(l *Loader) { l.tempDir = dir }
}

// WithLogger sets the logger.
func WithLogger(log logging.Logger) Option {
	return func(l *Loader) { l.log = log }
}

// New returns a Loader for the running platform. Without WithResources the
// directory of the running executable is searched.
func New(opts ...Option) *Loader {
	l := &Loader{
		namer:   naming.ForCurrent(),
		dl:      Native(),
		tempDir: os.TempDir(),
		log:     logging.Nop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// LoadLibrary makes req.Name available in the process. A nil error means
// the library is loaded; the Outcome says from where.
func (l *Loader) LoadLibrary(req Request) (Outcome, error) {
	if err := naming.ValidateName(req.Name); err != nil {
		return Failed, &LoadError{Name: req.Name, Err: err}
	}
	if err := naming.ValidatePrefix(req.Prefix); err != nil {
		return Failed, &LoadError{Name: req.Name, Err: err}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	for _, candidate := range l.systemCandidates(req.Name) {
		a := l.trySystem(candidate)
		if a.err == nil {
			l.log.Infof("[LIB] loaded system lib %s", a.name)
			return SystemLoaded, nil
		}
		l.log.Warnf("[LIB] load system lib %s error: %v", a.name, a.err)
	}

	if err := l.extractAndLoad(req); err != nil {
		return Failed, &LoadError{Name: req.Name, Err: err}
	}
	l.log.Infof("[LIB] load bundled lib %s success", req.Name)
	return ExtractedAndLoaded, nil
}

// attempt is the result of one system load try.
type attempt struct {
	name string
	err  error
}

func (l *Loader) trySystem(name string) attempt {
	_, err := l.dl.Open(name)
	return attempt{name: name, err: err}
}

// systemCandidates lists the canonical file name first, then the raw name
// decorated without normalization.
func (l *Loader) systemCandidates(name string) []string {
	canonical := l.namer.CanonicalLoadName(name)
	raw := l.namer.Prefix() + name + l.namer.Suffix()
	if raw == canonical {
		return []string{canonical}
	}
	return []string{canonical, raw}
}

func (l *Loader) extractAndLoad(req Request) error {
	resources := req.Resources
	if resources == nil {
		var err error
		if resources, err = l.defaultResources(); err != nil {
			return err
		}
	}
	tempDir := req.TempDir
	if tempDir == "" {
		tempDir = l.tempDir
	}

	resolved, err := l.namer.Resolve(tempDir, req.Prefix, req.Name, req.WithPlatformDir)
	if err != nil {
		return fmt.Errorf("resolving cache path: %w", err)
	}

	if _, err := os.Stat(resolved.CachePath); err == nil {
		if err := os.Remove(resolved.CachePath); err != nil {
			return fmt.Errorf("removing stale %s: %w", resolved.CachePath, err)
		}
		l.log.Infof("%s was deleted", resolved.CachePath)
	}
	if err := os.MkdirAll(filepath.Dir(resolved.CachePath), 0755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	if err := extract(resources, resolved.ResourcePath, resolved.CachePath, req.Name); err != nil {
		return err
	}

	if _, err := l.dl.Open(resolved.CachePath); err != nil {
		return err
	}
	return nil
}

func (l *Loader) defaultResources() (fs.FS, error) {
	if l.resources != nil {
		return l.resources, nil
	}
	b, err := bundle.Default()
	if err != nil {
		return nil, err
	}
	l.resources = b
	return b, nil
}

// extract copies resource from fsys to dst, replacing any existing file.
func extract(fsys fs.FS, resource, dst, name string) error {
	src, err := fsys.Open(resource)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return notInBundle(name)
		}
		return fmt.Errorf("opening %s: %w", resource, err)
	}
	defer src.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0755)
	if err != nil {
		return fmt.Errorf("creating %s: %w", dst, err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		return fmt.Errorf("extracting %s: %w", resource, err)
	}
	return out.Close()
}
