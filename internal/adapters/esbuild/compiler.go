// Package esbuild implements ports.Compiler with the in-process esbuild transform API.
package esbuild

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"github.com/evanw/esbuild/pkg/api"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

const (
	modulePath      = "github.com/evanw/esbuild"
	fallbackVersion = "0.25.0"
)

var _ ports.Compiler = (*Compiler)(nil)

var loaders = map[string]api.Loader{
	"js":   api.LoaderJS,
	"jsx":  api.LoaderJSX,
	"ts":   api.LoaderTS,
	"tsx":  api.LoaderTSX,
	"json": api.LoaderJSON,
}

var formats = map[string]api.Format{
	"esm":  api.FormatESModule,
	"cjs":  api.FormatCommonJS,
	"iife": api.FormatIIFE,
}

var targets = map[string]api.Target{
	"es5":    api.ES5,
	"es2015": api.ES2015,
	"es2016": api.ES2016,
	"es2017": api.ES2017,
	"es2018": api.ES2018,
	"es2019": api.ES2019,
	"es2020": api.ES2020,
	"es2021": api.ES2021,
	"es2022": api.ES2022,
	"esnext": api.ESNext,
}

// Compiler transforms single files with esbuild.
type Compiler struct {
	version string
}

// New creates a Compiler. The version is taken from the build info of the binary.
func New() *Compiler {
	version := fallbackVersion
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, dep := range info.Deps {
			if dep.Path == modulePath {
				version = strings.TrimPrefix(dep.Version, "v")
				break
			}
		}
	}
	return &Compiler{version: version}
}

// Name identifies the compiler and its version for cache keys.
func (c *Compiler) Name() string {
	return domain.CompilerConfig{Kind: domain.CompilerEsbuild}.Identity(c.version)
}

// Compile transforms source. Invalid input is reported as a *domain.Diagnostic
// wrapped in domain.ErrCompileFailed.
func (c *Compiler) Compile(_ context.Context, source string, opts *domain.CompileOptions) (*domain.CompileResult, error) {
	transformOpts, err := transformOptions(opts)
	if err != nil {
		return nil, err
	}

	if opts.SourceMaps && opts.InputSourceMap != nil {
		source, err = withInputSourceMap(source, opts.InputSourceMap)
		if err != nil {
			return nil, err
		}
	}

	result := api.Transform(source, transformOpts)
	if len(result.Errors) > 0 {
		return nil, zerr.Wrap(diagnosticFrom(transformOpts.Sourcefile, result.Errors[0]), domain.ErrCompileFailed.Error())
	}

	out := &domain.CompileResult{
		Code:       string(result.Code),
		SourceType: sourceTypeFor(opts),
	}
	for _, w := range result.Warnings {
		out.Warnings = append(out.Warnings, w.Text)
	}

	if len(result.Map) > 0 {
		var sm domain.SourceMap
		if err := json.Unmarshal(result.Map, &sm); err != nil {
			return nil, zerr.Wrap(err, domain.ErrCompilerProtocol.Error())
		}
		out.Map = &sm
	}

	return out, nil
}

func transformOptions(opts *domain.CompileOptions) (api.TransformOptions, error) {
	loader, ok := loaders[opts.Loader]
	if !ok {
		return api.TransformOptions{}, zerr.With(domain.ErrInvalidConfig, "loader", opts.Loader)
	}
	format, ok := formats[opts.Format]
	if !ok {
		return api.TransformOptions{}, zerr.With(domain.ErrInvalidConfig, "format", opts.Format)
	}
	target, ok := targets[strings.ToLower(opts.Target)]
	if !ok {
		return api.TransformOptions{}, zerr.With(domain.ErrInvalidConfig, "target", opts.Target)
	}

	sourcefile := opts.SourceFileName
	if sourcefile == "" {
		sourcefile = opts.Filename
	}

	out := api.TransformOptions{
		Loader:            loader,
		Format:            format,
		Target:            target,
		JSXFactory:        opts.JSXFactory,
		JSXFragment:       opts.JSXFragment,
		Define:            opts.Define,
		MinifyWhitespace:  opts.Minify,
		MinifyIdentifiers: opts.Minify,
		MinifySyntax:      opts.Minify,
		Sourcefile:        sourcefile,
		LogLevel:          api.LogLevelSilent,
	}
	if opts.SourceMaps {
		out.Sourcemap = api.SourceMapExternal
		out.SourceRoot = opts.SourceRoot
		out.SourcesContent = api.SourcesContentInclude
	}
	return out, nil
}

// withInputSourceMap appends the input map as an inline sourceMappingURL
// comment, which esbuild picks up to chain the maps.
func withInputSourceMap(source string, sm *domain.SourceMap) (string, error) {
	data, err := json.Marshal(sm)
	if err != nil {
		return "", zerr.Wrap(err, domain.ErrCompilerProtocol.Error())
	}
	return source + "\n//# sourceMappingURL=data:application/json;base64," +
		base64.StdEncoding.EncodeToString(data) + "\n", nil
}

func sourceTypeFor(opts *domain.CompileOptions) domain.SourceType {
	switch opts.Format {
	case "cjs", "iife":
		return domain.SourceTypeScript
	default:
		return domain.SourceTypeModule
	}
}

func diagnosticFrom(file string, msg api.Message) *domain.Diagnostic {
	d := &domain.Diagnostic{Name: "SyntaxError", Message: msg.Text}
	if file == "" {
		file = "<stdin>"
	}
	if loc := msg.Location; loc != nil {
		d.Line = loc.Line
		d.Column = loc.Column
		d.Message = fmt.Sprintf("%s: %s (%d:%d)", file, msg.Text, loc.Line, loc.Column)
		d.CodeFrame = codeFrame(loc)
		return d
	}
	d.Message = file + ": " + msg.Text
	return d
}

// codeFrame renders the failing line with a caret under the reported column:
//
//	> 1 | 1+
//	    |   ^
//
// Column and Length are byte offsets into LineText; the caret is placed by runes.
func codeFrame(loc *api.Location) string {
	gutter := fmt.Sprintf("%d", loc.Line)
	pad := strings.Repeat(" ", len(gutter))

	start := min(max(loc.Column, 0), len(loc.LineText))
	end := min(start+max(loc.Length, 0), len(loc.LineText))
	marker := strings.Repeat("^", max(utf8.RuneCountInString(loc.LineText[start:end]), 1))
	indent := strings.Repeat(" ", utf8.RuneCountInString(loc.LineText[:start]))
	return fmt.Sprintf("> %s | %s\n  %s | %s%s", gutter, loc.LineText, pad, indent, marker)
}
