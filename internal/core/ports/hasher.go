package ports

import "go.trai.ch/xform/internal/core/domain"

// Hasher derives cache keys and configuration identities.
//
//go:generate mockgen -destination=mocks/hasher_mock.go -package=mocks -source=hasher.go
type Hasher interface {
	// CacheKey combines the file identity, its content, the compile options and the
	// compiler identity into a stable key.
	CacheKey(identity string, source []byte, opts *domain.CompileOptions, compiler string) string

	// ConfigUID returns a stable identity for a configuration.
	ConfigUID(data domain.ConfigData) string
}
