package domain

import (
	"maps"
	"slices"
	"time"
)

// SourceType describes how the emitted code should be interpreted by downstream bundlers.
type SourceType string

const (
	// SourceTypeModule marks ES module output.
	SourceTypeModule SourceType = "module"
	// SourceTypeScript marks classic script output.
	SourceTypeScript SourceType = "script"
	// SourceTypeUnambiguous lets the consumer decide from the code itself.
	SourceTypeUnambiguous SourceType = "unambiguous"
)

// MetadataTranslationIDs is the metadata key holding the translation ids found in a source file.
const MetadataTranslationIDs = "translationIds"

// Metadata carries the output of ancillary analysis passes.
type Metadata map[string]any

// SourceMap is a version 3 source map.
type SourceMap struct {
	Version        int      `json:"version"                  msgpack:"version"`
	File           string   `json:"file,omitempty"           msgpack:"file,omitempty"`
	SourceRoot     string   `json:"sourceRoot,omitempty"     msgpack:"sourceRoot,omitempty"`
	Sources        []string `json:"sources"                  msgpack:"sources"`
	SourcesContent []string `json:"sourcesContent,omitempty" msgpack:"sourcesContent,omitempty"`
	Names          []string `json:"names"                    msgpack:"names"`
	Mappings       string   `json:"mappings"                 msgpack:"mappings"`
}

// Clone returns a deep copy of the source map.
func (m *SourceMap) Clone() *SourceMap {
	if m == nil {
		return nil
	}
	c := *m
	c.Sources = slices.Clone(m.Sources)
	c.SourcesContent = slices.Clone(m.SourcesContent)
	c.Names = slices.Clone(m.Names)
	return &c
}

// Artifact is the serializable result of one transformation.
// An Artifact is never mutated after it has been produced.
type Artifact struct {
	Code       string     `json:"code"                msgpack:"code"`
	SourceMap  *SourceMap `json:"map,omitempty"       msgpack:"map,omitempty"`
	SourceType SourceType `json:"sourceType"          msgpack:"sourceType"`
	Metadata   Metadata   `json:"metadata"            msgpack:"metadata"`
}

// Clone returns a deep copy of the artifact so callers never share state.
func (a *Artifact) Clone() *Artifact {
	if a == nil {
		return nil
	}
	return &Artifact{
		Code:       a.Code,
		SourceMap:  a.SourceMap.Clone(),
		SourceType: a.SourceType,
		Metadata:   cloneMetadata(a.Metadata),
	}
}

// TranslationIDs returns the translation ids recorded in the artifact metadata.
// Values decoded from the store come back as []any, so both shapes are accepted.
func (a *Artifact) TranslationIDs() []string {
	if a == nil {
		return nil
	}
	switch ids := a.Metadata[MetadataTranslationIDs].(type) {
	case []string:
		return slices.Clone(ids)
	case []any:
		out := make([]string, 0, len(ids))
		for _, id := range ids {
			if s, ok := id.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

func cloneMetadata(md Metadata) Metadata {
	out := make(Metadata, len(md))
	for k, v := range md {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case []string:
		return slices.Clone(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = cloneValue(item)
		}
		return out
	case map[string]any:
		out := maps.Clone(t)
		for k, item := range out {
			out[k] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

// CacheEntry is the record persisted for one cache key.
type CacheEntry struct {
	Key      string    `msgpack:"key"`
	StoredAt time.Time `msgpack:"storedAt"`
	Artifact *Artifact `msgpack:"artifact"`
}

// CompileResult is what a compiler returns before normalization.
// Warnings are reported by the compiler but never stored.
type CompileResult struct {
	Code       string
	Map        *SourceMap
	SourceType SourceType
	Warnings   []string
}
