package assets

import (
	"os"
	"path/filepath"
)

// Fixed resource names looked up next to the working directory or the binary.
const (
	BackgroundPNG = "background.png"
	FontTTF       = "Roboto-Regular.ttf"
)

// executable is swapped in tests.
var executable = os.Executable

// Resolve returns the path a resource should be loaded from.
// Absolute paths are returned unchanged. Relative names are looked up in the
// working directory first, then in the directory holding the running binary.
// When neither has the file, name is returned as-is so that opening it reports
// the real OS error.
func Resolve(name string) string {
	if name == "" || filepath.IsAbs(name) {
		return name
	}
	if exists(name) {
		return name
	}
	if exe, err := executable(); err == nil {
		if resolved, err := filepath.EvalSymlinks(exe); err == nil {
			exe = resolved
		}
		candidate := filepath.Join(filepath.Dir(exe), name)
		if exists(candidate) {
			return candidate
		}
	}
	return name
}

func exists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir()
}
