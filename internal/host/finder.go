package host

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/dshills/imphook/internal/module"
)

// FileFinder finds modules in a filesystem directory by trying each
// loader's extensions in order. File existence checks are cached until
// InvalidateCaches.
type FileFinder struct {
	dir     string
	details []LoaderDetails
	seen    map[string]bool
}

var _ Finder = (*FileFinder)(nil)

// NewFileFinder returns a finder for dir.
func NewFileFinder(dir string, details ...LoaderDetails) *FileFinder {
	return &FileFinder{
		dir:     dir,
		details: append([]LoaderDetails(nil), details...),
		seen:    make(map[string]bool),
	}
}

// FileFinderHook returns a path hook that builds FileFinders with the given
// loaders. Paths that exist but are not directories are declined.
func FileFinderHook(details ...LoaderDetails) PathHook {
	details = append([]LoaderDetails(nil), details...)
	return func(dir string) (Finder, error) {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			return nil, ErrPathNotHandled
		}
		return NewFileFinder(dir, details...), nil
	}
}

// Dir returns the directory the finder searches.
func (f *FileFinder) Dir() string { return f.dir }

// Loaders returns the finder's loaders in priority order.
func (f *FileFinder) Loaders() []LoaderDetails {
	return append([]LoaderDetails(nil), f.details...)
}

// FindSpec implements Finder.
func (f *FileFinder) FindSpec(name string) (*Spec, error) {
	base := BasePath(f.dir, name)
	for _, d := range f.details {
		for _, ext := range d.Extensions {
			p := base + ext
			if f.isFile(p) {
				return &Spec{Name: name, Origin: p, Ext: ext, Loader: d.Loader}, nil
			}
		}
	}
	return nil, nil
}

// InvalidateCaches implements Finder.
func (f *FileFinder) InvalidateCaches() {
	f.seen = make(map[string]bool)
}

func (f *FileFinder) isFile(p string) bool {
	ok, cached := f.seen[p]
	if !cached {
		ok = IsFile(p)
		f.seen[p] = ok
	}
	return ok
}

// ArchiveExt is the extension of search path entries read as zip archives.
const ArchiveExt = ".zip"

// ArchiveHook returns a path hook accepting zip archives of ".star" files.
func ArchiveHook(b *Base) PathHook {
	return func(dir string) (Finder, error) {
		if !strings.EqualFold(filepath.Ext(dir), ArchiveExt) || !IsFile(dir) {
			return nil, ErrPathNotHandled
		}
		return &ArchiveFinder{archive: dir, base: b}, nil
	}
}

// ArchiveFinder finds ".star" modules inside a zip archive.
type ArchiveFinder struct {
	archive string
	base    *Base
	entries map[string]bool
}

var _ Finder = (*ArchiveFinder)(nil)

// FindSpec implements Finder.
func (a *ArchiveFinder) FindSpec(name string) (*Spec, error) {
	if a.entries == nil {
		if err := a.scan(); err != nil {
			return nil, err
		}
	}
	entry := path.Join(strings.Split(name, ".")...) + SourceExt
	if !a.entries[entry] {
		return nil, nil
	}
	return &Spec{
		Name:   name,
		Origin: filepath.Join(a.archive, filepath.FromSlash(entry)),
		Ext:    SourceExt,
		Loader: LoaderFunc(func(spec *Spec) (*module.Module, error) {
			src, err := a.read(entry)
			if err != nil {
				return nil, err
			}
			return a.base.Exec(spec.Name, spec.Origin, src)
		}),
	}, nil
}

// InvalidateCaches implements Finder.
func (a *ArchiveFinder) InvalidateCaches() { a.entries = nil }

func (a *ArchiveFinder) scan() error {
	zr, err := zip.OpenReader(a.archive)
	if err != nil {
		return fmt.Errorf("open archive %s: %w", a.archive, err)
	}
	defer zr.Close()

	a.entries = make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		if !f.FileInfo().IsDir() {
			a.entries[f.Name] = true
		}
	}
	return nil
}

func (a *ArchiveFinder) read(entry string) ([]byte, error) {
	zr, err := zip.OpenReader(a.archive)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", a.archive, err)
	}
	defer zr.Close()

	rc, err := zr.Open(entry)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}
