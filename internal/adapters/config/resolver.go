package config

import (
	"path/filepath"
	"slices"
	"sync"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

// Resolver expands configurations by following their presets.
// Results are memoized by uid for the lifetime of the Resolver.
type Resolver struct {
	presets map[string]domain.ConfigData

	mu   sync.Mutex
	memo map[string]*domain.ResolvedConfig
}

// NewResolver creates a Resolver over the given named presets.
func NewResolver(presets map[string]domain.ConfigData) *Resolver {
	return &Resolver{
		presets: presets,
		memo:    make(map[string]*domain.ResolvedConfig),
	}
}

// Resolve returns the expanded configuration for uid.
// The first successful resolution of a uid wins; later data for the same uid is ignored.
// An empty uid is never memoized.
func (r *Resolver) Resolve(uid string, data domain.ConfigData) (*domain.ResolvedConfig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.memo[uid]; ok && uid != "" {
		return cached, nil
	}

	expanded, err := r.expand(data, nil)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrConfigResolutionFailed.Error()), "uid", uid)
	}

	resolved := &domain.ResolvedConfig{UID: uid, Data: expanded}
	if uid != "" {
		r.memo[uid] = resolved
	}
	return resolved, nil
}

// expand resolves presets depth first. Later presets override earlier ones
// and the data's own fields override every preset.
func (r *Resolver) expand(data domain.ConfigData, stack []string) (domain.ConfigData, error) {
	var out domain.ConfigData
	for _, name := range data.Extends {
		if slices.Contains(stack, name) {
			return domain.ConfigData{}, zerr.With(domain.ErrPresetCycle, "preset", name)
		}
		preset, ok := r.presets[name]
		if !ok {
			return domain.ConfigData{}, zerr.With(domain.ErrUnknownPreset, "preset", name)
		}
		sub, err := r.expand(preset, append(slices.Clone(stack), name))
		if err != nil {
			return domain.ConfigData{}, err
		}
		out = out.Merge(sub)
	}
	return out.Merge(data), nil
}

var _ ports.ConfigResolverProvider = (*Resolvers)(nil)

// Resolvers hands out one Resolver per project root for the lifetime of the process.
// Presets are read from the first project seen for a root.
type Resolvers struct {
	mu     sync.Mutex
	byRoot map[string]*Resolver
}

// NewResolvers creates an empty Resolvers.
func NewResolvers() *Resolvers {
	return &Resolvers{byRoot: make(map[string]*Resolver)}
}

// ForProject returns the resolver for project.Root, creating it on first use.
func (p *Resolvers) ForProject(project *domain.Project) ports.ConfigResolver {
	root := filepath.Clean(project.Root)

	p.mu.Lock()
	defer p.mu.Unlock()

	if r, ok := p.byRoot[root]; ok {
		return r
	}
	r := NewResolver(project.Presets)
	p.byRoot[root] = r
	return r
}
