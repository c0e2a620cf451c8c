// Package fsutil provides file system utility functions.
package fsutil

import "os"

// FirstExisting returns the first of the given paths that refers to an
// existing regular file, and whether one was found. Empty entries are
// skipped so callers can pass unresolved candidates without filtering.
func FirstExisting(paths ...string) (string, bool) {
	for _, path := range paths {
		if path == "" {
			continue
		}
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Mode().IsRegular() {
			return path, true
		}
	}
	return "", false
}
