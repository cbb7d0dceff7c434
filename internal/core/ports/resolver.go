package ports

// InputResolver defines the interface for resolving input files.
//
//go:generate mockgen -destination=mocks/resolver_mock.go -package=mocks -source=resolver.go
type InputResolver interface {
	// ResolveInputs expands files and directories relative to root into a sorted list of source files.
	ResolveInputs(inputs []string, root string) ([]string, error)
}
