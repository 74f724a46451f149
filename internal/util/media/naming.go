package media

import (
	"path/filepath"
	"strings"
)

// OutputExt is the container extension every encoded file gets.
const OutputExt = ".mp4"

// VideoExtensions is the lower-case allow-list of recognised input containers.
var VideoExtensions = map[string]bool{
	".mp4":  true,
	".avi":  true,
	".mkv":  true,
	".mov":  true,
	".wmv":  true,
	".flv":  true,
	".webm": true,
	".m4v":  true,
	".3gp":  true,
	".ts":   true,
	".mts":  true,
}

// IsVideoFile reports whether path has a recognised video extension (case-insensitive).
func IsVideoFile(path string) bool {
	return VideoExtensions[strings.ToLower(filepath.Ext(path))]
}

// WithOutputExt replaces the extension of path with OutputExt.
func WithOutputExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + OutputExt
}
