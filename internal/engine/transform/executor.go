// Package transform runs the compiler for one file and turns its output into an artifact.
package transform

import (
	"context"
	"errors"
	"regexp"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

// filenamePrefix matches the "path/to/file.js: " prefix compilers put on diagnostics.
var filenamePrefix = regexp.MustCompile(`^[^:]+: `)

// Executor invokes the compiler, classifies its failures and normalizes its output.
type Executor struct {
	compiler  ports.Compiler
	analyzers []ports.Analyzer
}

// NewExecutor creates an Executor. Analyzers run in order after every successful compile.
func NewExecutor(compiler ports.Compiler, analyzers ...ports.Analyzer) *Executor {
	return &Executor{compiler: compiler, analyzers: analyzers}
}

// Execute compiles source with opts.
//
// Diagnostics reported by the compiler become domain.KindSyntax errors; any other
// failure becomes domain.KindInternal. A nil compile result yields a nil artifact.
func (e *Executor) Execute(ctx context.Context, source string, opts *domain.CompileOptions) (*domain.Artifact, error) {
	result, err := e.compiler.Compile(ctx, source, opts)
	if err != nil {
		return nil, classify(err, opts)
	}
	if result == nil {
		return nil, nil
	}

	sourceType := result.SourceType
	if sourceType == "" {
		sourceType = opts.SourceType
	}

	artifact := &domain.Artifact{
		Code:       result.Code,
		SourceMap:  result.Map.Clone(),
		SourceType: sourceType,
		Metadata:   domain.Metadata{},
	}
	if sm := artifact.SourceMap; sm != nil && len(sm.SourcesContent) == 0 {
		sm.SourcesContent = []string{source}
	}

	for _, a := range e.analyzers {
		a.Analyze(source, opts, artifact.Metadata)
	}

	return artifact, nil
}

func classify(err error, opts *domain.CompileOptions) error {
	var diag *domain.Diagnostic
	if errors.As(err, &diag) && diag.Message != "" && diag.CodeFrame != "" {
		name := diag.Name
		hideStack := name == "SyntaxError" || name == "TypeError"
		if name == "TypeError" {
			name = ""
		}
		message := filenamePrefix.ReplaceAllString(diag.Message, "")
		return domain.NewSyntaxError(name, message, diag.CodeFrame, hideStack, err)
	}

	return domain.NewInternalError(zerr.WithStack(zerr.With(err, "file", opts.Filename)))
}
