package ingest

import (
	"path/filepath"
	"strings"

	"github.com/joseph-ayodele/docextract/constants"
)

// AllowedExt checks if a file extension is in the allowed set (defaults to json).
func AllowedExt(ext string, allow map[string]struct{}) bool {
	if allow == nil {
		allow = constants.AllowedExtensions
	}
	_, ok := allow[constants.NormalizeExt(ext)]
	return ok
}

// IsHidden checks if a file or directory is hidden (starts with '.').
func IsHidden(path string) bool {
	base := filepath.Base(path)
	return strings.HasPrefix(base, ".") && base != "." && base != ".."
}

// DocumentID derives a document id from a path: relative to root when path is
// inside it, the base name otherwise; slash-separated, without extension.
func DocumentID(root, path string) string {
	rel := filepath.Base(path)
	if root != "" {
		if r, err := filepath.Rel(root, path); err == nil && r != "." && !strings.HasPrefix(r, "..") {
			rel = r
		}
	}
	return strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel))
}
