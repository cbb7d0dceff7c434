package domain

import (
	"path/filepath"
	"strings"
)

// RelativePath returns file relative to root, as recorded in source maps.
// When file lives under a different top-level directory than root, the
// absolute path of file is returned instead.
func RelativePath(root, file string) string {
	rootTop := topLevel(root)
	if rootTop != "" && rootTop != topLevel(file) {
		return file
	}
	rel, err := filepath.Rel(root, file)
	if err != nil {
		return file
	}
	return filepath.ToSlash(rel)
}

// topLevel returns the first segment of an absolute path ("/home/x" -> "home").
func topLevel(p string) string {
	parts := strings.Split(strings.ReplaceAll(p, `\`, "/"), "/")
	if len(parts) < 2 {
		return ""
	}
	return parts[1]
}
