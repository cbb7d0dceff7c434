package fs_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xform/internal/adapters/fs"
	"go.trai.ch/xform/internal/core/domain"
)

func TestResolver_ResolveInputs_Directory(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/b.ts",
		"src/a.jsx",
		"src/styles.css",
		"src/node_modules/dep/index.js",
		"lib/util.mjs",
	)

	resolved, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{"src", "lib/util.mjs", "src/a.jsx"}, root)
	require.NoError(t, err)

	assert.Equal(t, []string{
		filepath.Join(root, "lib", "util.mjs"),
		filepath.Join(root, "src", "a.jsx"),
		filepath.Join(root, "src", "b.ts"),
	}, resolved)
}

func TestResolver_ResolveInputs_ExplicitFileKeepsExtension(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "config.json")

	resolved, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{filepath.Join(root, "config.json")}, "/elsewhere")
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "config.json")}, resolved)
}

func TestResolver_ResolveInputs_Glob(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "a.js", "b.js", "c.ts")

	resolved, err := fs.NewResolver(fs.NewWalker()).ResolveInputs([]string{"*.js"}, root)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(root, "a.js"), filepath.Join(root, "b.js")}, resolved)
}

func TestResolver_ResolveInputs_Errors(t *testing.T) {
	root := t.TempDir()
	resolver := fs.NewResolver(fs.NewWalker())

	_, err := resolver.ResolveInputs(nil, root)
	require.ErrorIs(t, err, domain.ErrNoInputs)

	_, err = resolver.ResolveInputs([]string{"*.nonexistent"}, root)
	require.ErrorContains(t, err, "input not found")

	_, err = resolver.ResolveInputs([]string{"["}, root)
	require.ErrorContains(t, err, "failed to glob path")
}

func TestIsSourceFile(t *testing.T) {
	assert.True(t, fs.IsSourceFile("a.js"))
	assert.True(t, fs.IsSourceFile("a.TSX"))
	assert.False(t, fs.IsSourceFile("a.css"))
	assert.False(t, fs.IsSourceFile("Makefile"))
}
