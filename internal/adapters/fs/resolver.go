package fs

import (
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.InputResolver = (*Resolver)(nil)

// sourceExtensions are the files picked up when a directory is given as input.
var sourceExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// Resolver implements the InputResolver interface over the local file system.
type Resolver struct {
	walker *Walker
}

// NewResolver creates a new Resolver.
func NewResolver(walker *Walker) *Resolver {
	return &Resolver{walker: walker}
}

// ResolveInputs expands inputs relative to root into absolute file paths.
// Files are taken as given, directories are walked for source files and
// anything else is treated as a glob pattern that must match at least once.
func (r *Resolver) ResolveInputs(inputs []string, root string) ([]string, error) {
	if len(inputs) == 0 {
		return nil, domain.ErrNoInputs
	}

	uniquePaths := make(map[string]struct{})

	for _, input := range inputs {
		path := input
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, input)
		}

		info, err := os.Stat(path)
		switch {
		case err == nil && info.IsDir():
			for file := range r.walker.WalkFiles(path, nil) {
				if IsSourceFile(file) {
					uniquePaths[file] = struct{}{}
				}
			}
		case err == nil:
			uniquePaths[filepath.Clean(path)] = struct{}{}
		default:
			matches, globErr := filepath.Glob(path)
			if globErr != nil {
				return nil, zerr.With(zerr.Wrap(globErr, "failed to glob path"), "path", path)
			}
			if len(matches) == 0 {
				return nil, zerr.With(zerr.New("input not found"), "path", path)
			}
			for _, match := range matches {
				uniquePaths[match] = struct{}{}
			}
		}
	}

	result := make([]string, 0, len(uniquePaths))
	for path := range uniquePaths {
		result = append(result, path)
	}
	slices.Sort(result)

	return result, nil
}

// IsSourceFile reports whether path has a JavaScript or TypeScript extension.
func IsSourceFile(path string) bool {
	return slices.Contains(sourceExtensions, strings.ToLower(filepath.Ext(path)))
}
