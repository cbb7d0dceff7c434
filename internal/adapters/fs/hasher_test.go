package fs_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/xform/internal/adapters/fs"
	"go.trai.ch/xform/internal/core/domain"
)

func TestHasher_CacheKey_Stable(t *testing.T) {
	h := fs.NewHasher()
	opts := domain.ConfigData{Define: map[string]string{"A": "1", "B": "2"}}.Options("/repo/a.js")
	again := domain.ConfigData{Define: map[string]string{"B": "2", "A": "1"}}.Options("/repo/a.js")

	k1 := h.CacheKey("/repo/a.js", []byte("const a = 1"), &opts, "esbuild@0.25.0")
	k2 := h.CacheKey("/repo/a.js", []byte("const a = 1"), &again, "esbuild@0.25.0")

	assert.Equal(t, k1, k2)
	assert.Len(t, k1, 16)
}

func TestHasher_CacheKey_Sensitivity(t *testing.T) {
	h := fs.NewHasher()
	base := domain.ConfigData{}.Options("/repo/a.js")
	baseKey := h.CacheKey("/repo/a.js", []byte("src"), &base, "esbuild@0.25.0")

	minified := base
	minified.Minify = true
	withMaps := base
	withMaps.SourceMaps = true

	variants := map[string]string{
		"identity": h.CacheKey("/repo/b.js", []byte("src"), &base, "esbuild@0.25.0"),
		"source":   h.CacheKey("/repo/a.js", []byte("src2"), &base, "esbuild@0.25.0"),
		"options":  h.CacheKey("/repo/a.js", []byte("src"), &minified, "esbuild@0.25.0"),
		"maps":     h.CacheKey("/repo/a.js", []byte("src"), &withMaps, "esbuild@0.25.0"),
		"compiler": h.CacheKey("/repo/a.js", []byte("src"), &base, "esbuild@0.26.0"),
		"no opts":  h.CacheKey("/repo/a.js", []byte("src"), nil, "esbuild@0.25.0"),
	}
	for name, key := range variants {
		assert.NotEqual(t, baseKey, key, name)
	}
}

func TestHasher_CacheKey_Boundaries(t *testing.T) {
	h := fs.NewHasher()

	assert.NotEqual(t,
		h.CacheKey("ab", []byte("c"), nil, ""),
		h.CacheKey("a", []byte("bc"), nil, ""))
}

func TestHasher_ConfigUID(t *testing.T) {
	h := fs.NewHasher()
	yes, no := true, false

	a := domain.ConfigData{Extends: []string{"react"}, Target: "es2019", Define: map[string]string{"X": "1"}}
	b := domain.ConfigData{Extends: []string{"react"}, Target: "es2019", Define: map[string]string{"X": "1"}}
	assert.Equal(t, h.ConfigUID(a), h.ConfigUID(b))

	withMinify := a
	withMinify.Minify = &yes
	withoutMinify := a
	withoutMinify.Minify = &no

	assert.NotEqual(t, h.ConfigUID(a), h.ConfigUID(withMinify))
	assert.NotEqual(t, h.ConfigUID(withMinify), h.ConfigUID(withoutMinify))
	assert.NotEqual(t, h.ConfigUID(a), h.ConfigUID(domain.ConfigData{Target: "es2019"}))
}
