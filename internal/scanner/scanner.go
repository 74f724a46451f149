// Package scanner resolves user-supplied paths into lists of video files.
package scanner

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"vidbatch/internal/util/media"
)

// Scan returns the video files at path. A matching file yields itself, a
// non-matching file yields nothing, and a directory is walked recursively.
// Results from a directory walk are sorted.
func Scan(path string) ([]string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", path, err)
	}
	if !fi.IsDir() {
		if media.IsVideoFile(path) {
			return []string{path}, nil
		}
		return nil, nil
	}

	var files []string
	err = filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subdirectories are skipped; the root was stat'ed above.
			if d != nil && d.IsDir() && p != path {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() && media.IsVideoFile(p) {
			files = append(files, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", path, err)
	}
	sort.Strings(files)
	return files, nil
}

// ScanAll scans every path and concatenates the results, dropping duplicates
// while keeping first-seen order.
func ScanAll(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var out []string
	for _, p := range paths {
		files, err := Scan(p)
		if err != nil {
			return nil, err
		}
		for _, f := range files {
			key := filepath.Clean(f)
			if abs, err := filepath.Abs(f); err == nil {
				key = abs
			}
			if seen[key] {
				continue
			}
			seen[key] = true
			out = append(out, f)
		}
	}
	return out, nil
}
