package ports

import "go.trai.ch/xform/internal/core/domain"

// ConfigLoader defines the interface for loading the project configuration.
//
//go:generate go run go.uber.org/mock/mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load discovers xform.yaml from the given working directory and returns the project.
	Load(cwd string) (*domain.Project, error)

	// LoadFile reads the project from an explicit config path.
	LoadFile(cwd, configPath string) (*domain.Project, error)
}

// ConfigResolver expands configuration identities into resolved configurations.
type ConfigResolver interface {
	// Resolve expands data, memoized by uid for the lifetime of the resolver.
	Resolve(uid string, data domain.ConfigData) (*domain.ResolvedConfig, error)
}

// ConfigResolverProvider hands out the ConfigResolver of a project.
// Resolvers live for the whole process, so their memo is shared by every run.
type ConfigResolverProvider interface {
	// ForProject returns the resolver for the project's root, creating it on first use.
	ForProject(project *domain.Project) ConfigResolver
}
