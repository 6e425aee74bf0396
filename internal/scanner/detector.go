package scanner

import (
	"path/filepath"
	"strings"
)

// IsSourceFile reports whether path names a record file with the given extension.
// Hidden files (editor backups, lock files) are never records.
func IsSourceFile(path, ext string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return false
	}
	return filepath.Ext(base) == ext && len(base) > len(ext)
}

// Stem returns the file name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
