package cas

import (
	"path/filepath"
	"sync"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

// Provider hands out one Store per distinct root directory for the lifetime of the process.
type Provider struct {
	log    ports.Logger
	mu     sync.Mutex
	stores map[string]*Store
}

// NewProvider creates an empty Provider.
func NewProvider(log ports.Logger) *Provider {
	return &Provider{
		log:    log,
		stores: make(map[string]*Store),
	}
}

// ForRoot returns the store for root, creating it on first use.
// Roots are compared after conversion to a clean absolute path.
func (p *Provider) ForRoot(root string) (ports.ArtifactStore, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrStoreCreateFailed.Error()), "root", root)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.stores[abs]; ok {
		return s, nil
	}
	s := NewStore(abs, p.log)
	p.stores[abs] = s
	return s, nil
}
