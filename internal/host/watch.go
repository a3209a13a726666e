package host

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
)

// Refreshable is a host whose caches can be refreshed after a file change.
type Refreshable interface {
	ForgetOrigin(path string) []string
}

// Refresh drops modules loaded from path and, when h keeps path finders,
// invalidates them so new files are seen. It returns the dropped module
// names. Call it from the goroutine that imports.
func Refresh(h Refreshable, path string) []string {
	dropped := h.ForgetOrigin(filepath.Clean(path))
	if p, ok := h.(interface{ InvalidateCaches() }); ok {
		p.InvalidateCaches()
	}
	return dropped
}

// Watch watches dirs and every directory below them until ctx is done, and
// calls onChange with the path of every file written, created, removed or
// renamed there. Directories created later are watched as they appear.
// Entries that do not exist or are not directories are skipped, as are
// hidden subdirectories. onChange runs on the watcher goroutine.
//
// Watch returns nil when ctx is cancelled.
func Watch(ctx context.Context, dirs []string, onChange func(path string)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	for _, dir := range dirs {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			continue
		}
		if err := w.Add(dir); err != nil {
			return err
		}
		watchTree(w, dir, nil)
	}

	const interesting = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&interesting == 0 {
				continue
			}
			name := filepath.Clean(ev.Name)
			onChange(name)
			if ev.Has(fsnotify.Create) {
				if info, err := os.Stat(name); err == nil && info.IsDir() && !hidden(name) {
					// Files may land in the new directory before it is
					// watched; report the ones already there.
					_ = w.Add(name)
					watchTree(w, name, onChange)
				}
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				continue
			}
			return err
		}
	}
}

// watchTree adds every directory below root to w. When report is set it is
// called for the regular files found on the way.
func watchTree(w *fsnotify.Watcher, root string, report func(path string)) {
	_ = filepath.WalkDir(root, func(p string, d os.DirEntry, err error) error {
		if err != nil || p == root {
			return nil // skip errors, continue walking
		}
		if d.IsDir() {
			if hidden(p) {
				return filepath.SkipDir
			}
			_ = w.Add(p)
			return nil
		}
		if report != nil && d.Type().IsRegular() {
			report(p)
		}
		return nil
	})
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}
