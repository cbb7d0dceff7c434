// Package ports defines the core interfaces for the application.
package ports

import (
	"context"

	"go.trai.ch/xform/internal/core/domain"
)

// Compiler is the opaque transformation function.
//
//go:generate go run go.uber.org/mock/mockgen -source=compiler.go -destination=mocks/mock_compiler.go -package=mocks
type Compiler interface {
	// Name identifies the compiler and its version. It is part of every cache key.
	Name() string

	// Compile transforms source with the given options.
	//
	// A nil result with a nil error means the compiler produced nothing for the file.
	// Invalid input is reported as an error wrapping a *domain.Diagnostic.
	Compile(ctx context.Context, source string, opts *domain.CompileOptions) (*domain.CompileResult, error)
}

// Analyzer is an observational pass run alongside compilation.
// Analyzers never influence the cache key.
type Analyzer interface {
	// Analyze inspects source and records its findings in md.
	Analyze(source string, opts *domain.CompileOptions, md domain.Metadata)
}

// CompilerLauncher builds compilers that run an external command.
type CompilerLauncher interface {
	Launch(command, env []string) Compiler
}
