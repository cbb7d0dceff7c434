package fs

import (
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/cespare/xxhash/v2"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
)

var _ ports.Hasher = (*Hasher)(nil)

// Hasher derives cache keys and configuration identities with xxhash64.
type Hasher struct{}

// NewHasher creates a new Hasher.
func NewHasher() *Hasher {
	return &Hasher{}
}

// CacheKey computes the cache key for one transformation. Every part is
// terminated by a zero byte so that adjacent values cannot collide.
func (h *Hasher) CacheKey(identity string, source []byte, opts *domain.CompileOptions, compiler string) string {
	hasher := xxhash.New()

	writeField(hasher, identity)

	_, _ = hasher.WriteString(strconv.Itoa(len(source)))
	_, _ = hasher.Write([]byte{0})
	_, _ = hasher.Write(source)
	_, _ = hasher.Write([]byte{0})

	if opts != nil {
		for _, field := range opts.Fields() {
			_, _ = hasher.WriteString(field[0])
			_, _ = hasher.Write([]byte{'='})
			writeField(hasher, field[1])
		}
	}
	_, _ = hasher.Write([]byte{0}) // Section separator

	writeField(hasher, compiler)

	return fmt.Sprintf("%016x", hasher.Sum64())
}

// ConfigUID returns a stable identity for data. Define entries are hashed in key order.
func (h *Hasher) ConfigUID(data domain.ConfigData) string {
	hasher := xxhash.New()

	for _, name := range data.Extends {
		writeField(hasher, name)
	}
	_, _ = hasher.Write([]byte{0})

	writeField(hasher, data.Loader)
	writeField(hasher, data.Format)
	writeField(hasher, data.Target)
	writeField(hasher, data.JSXFactory)
	writeField(hasher, data.JSXFragment)
	writeField(hasher, string(data.SourceType))

	switch {
	case data.Minify == nil:
		writeField(hasher, "")
	default:
		writeField(hasher, strconv.FormatBool(*data.Minify))
	}

	for _, k := range slices.Sorted(maps.Keys(data.Define)) {
		_, _ = hasher.WriteString(k)
		_, _ = hasher.Write([]byte{'='})
		writeField(hasher, data.Define[k])
	}
	_, _ = hasher.Write([]byte{0})

	return fmt.Sprintf("%016x", hasher.Sum64())
}

func writeField(hasher *xxhash.Digest, s string) {
	_, _ = hasher.WriteString(s)
	_, _ = hasher.Write([]byte{0})
}
