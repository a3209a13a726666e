package host

import (
	"os"
	"path/filepath"
	"strings"
)

// DefaultPaths returns the default module search path: the working
// directory, then the user module directory.
func DefaultPaths() []string {
	paths := make([]string, 0, 2)

	// Project modules: ./
	if cwd, err := os.Getwd(); err == nil {
		paths = append(paths, cwd)
	}

	// User modules: ~/.config/imphook/modules/
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "imphook", "modules"))
	}

	return paths
}

// BasePath returns the extension-less path of module name under dir.
func BasePath(dir, name string) string {
	return filepath.Join(dir, filepath.FromSlash(strings.ReplaceAll(name, ".", "/")))
}

// IsFile reports whether path names an existing regular file.
func IsFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
