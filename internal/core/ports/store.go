package ports

import (
	"context"
	"time"

	"go.trai.ch/xform/internal/core/domain"
)

// ComputeFunc produces the artifact for a key on a cache miss.
// Returning nil, nil means there is nothing to cache.
type ComputeFunc func(ctx context.Context) (*domain.Artifact, error)

// ArtifactStore is a durable mapping from cache key to artifact.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ArtifactStore interface {
	// Get returns the stored artifact for key, calling compute on a miss and
	// persisting a non-nil result. Storage failures never fail the call.
	Get(ctx context.Context, key string, compute ComputeFunc) (*domain.Artifact, error)

	// Load reads the entry for key. It returns domain.ErrCacheMiss when absent.
	Load(key string) (*domain.Artifact, error)

	// Save writes artifact under key.
	Save(key string, artifact *domain.Artifact) error

	// Clean removes every entry.
	Clean(ctx context.Context) error

	// Prune removes entries older than the given age and returns how many were removed.
	Prune(ctx context.Context, olderThan time.Duration) (int, error)
}

// StoreProvider hands out one store per root directory.
type StoreProvider interface {
	// ForRoot returns the store rooted at root, creating it on first use.
	ForRoot(root string) (ArtifactStore, error)
}
