package domain

import (
	"path"
	"path/filepath"
	"strings"

	"go.trai.ch/zerr"
)

// CompilerKind selects the compiler implementation.
type CompilerKind string

const (
	// CompilerEsbuild compiles in process with esbuild.
	CompilerEsbuild CompilerKind = "esbuild"
	// CompilerShell runs an external command for every file.
	CompilerShell CompilerKind = "shell"
)

// CompilerConfig configures the compiler used for transformations.
type CompilerConfig struct {
	Kind    CompilerKind
	Command []string
	Env     []string
}

// Identity returns a stable description of the compiler for cache keys.
func (c CompilerConfig) Identity(version string) string {
	if c.Kind == CompilerShell {
		return string(c.Kind) + ":" + strings.Join(c.Command, " ")
	}
	return string(c.Kind) + "@" + version
}

// TransformMode controls whether override configurations apply to a file.
type TransformMode string

const (
	// TransformNone leaves the file with the base configuration.
	TransformNone TransformMode = "none"
	// TransformSpec only applies spec-compliant transforms.
	TransformSpec TransformMode = "spec"
	// TransformAll applies every override.
	TransformAll TransformMode = "all"
)

// ParseTransformMode validates a transform mode value.
func ParseTransformMode(s string) (TransformMode, error) {
	switch mode := TransformMode(s); mode {
	case TransformNone, TransformSpec, TransformAll:
		return mode, nil
	default:
		return "", zerr.With(ErrInvalidTransformMode, "mode", s)
	}
}

// TransformRule maps files matching a glob to a transform mode.
// Match is a slash separated pattern relative to the project root;
// a trailing "/**" matches the whole subtree.
type TransformRule struct {
	Match     string
	Transform string
}

// Matches reports whether the root relative path rel is selected by the rule.
func (r TransformRule) Matches(rel string) bool {
	if prefix, ok := strings.CutSuffix(r.Match, "/**"); ok {
		return rel == prefix || strings.HasPrefix(rel, prefix+"/")
	}
	ok, err := path.Match(r.Match, rel)
	return err == nil && ok
}

// Project is the loaded project configuration. It is read only after loading.
type Project struct {
	Root        string
	CacheDir    string
	Compiler    CompilerConfig
	Concurrency int
	Presets     map[string]ConfigData
	Config      ConfigData
	Overrides   []ConfigData
	Rules       []TransformRule
	LogLevel    LogLevel
}

// TransformModeFor returns the transform mode for filename.
// The first matching rule wins; without one the default mode applies.
func (p *Project) TransformModeFor(filename string) (TransformMode, error) {
	rel, err := filepath.Rel(p.Root, filename)
	if err == nil {
		rel = filepath.ToSlash(rel)
		for _, rule := range p.Rules {
			if rule.Matches(rel) {
				return ParseTransformMode(rule.Transform)
			}
		}
	}
	return DefaultTransformMode(p.Root, filename), nil
}

// DefaultTransformMode is "all" for files under <root>/src and "spec" otherwise.
func DefaultTransformMode(root, filename string) TransformMode {
	src := filepath.Join(root, SourceDirName) + string(filepath.Separator)
	if strings.HasPrefix(filepath.Clean(filename), src) {
		return TransformAll
	}
	return TransformSpec
}
