package domain

import (
	"maps"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

const (
	// DefaultFormat is the module format emitted when none is configured.
	DefaultFormat = "esm"
	// DefaultTarget is the language level emitted when none is configured.
	DefaultTarget = "es2017"
)

// ConfigData is a partial transform configuration as written by users.
// Zero values mean "not set" so that presets and overrides can be layered.
type ConfigData struct {
	Extends     []string          `json:"extends,omitempty"     yaml:"extends"`
	Loader      string            `json:"loader,omitempty"      yaml:"loader"`
	Format      string            `json:"format,omitempty"      yaml:"format"`
	Target      string            `json:"target,omitempty"      yaml:"target"`
	JSXFactory  string            `json:"jsxFactory,omitempty"  yaml:"jsxFactory"`
	JSXFragment string            `json:"jsxFragment,omitempty" yaml:"jsxFragment"`
	Define      map[string]string `json:"define,omitempty"      yaml:"define"`
	Minify      *bool             `json:"minify,omitempty"      yaml:"minify"`
	SourceType  SourceType        `json:"sourceType,omitempty"  yaml:"sourceType"`
}

// Merge returns c with every field set in over applied on top.
// Define maps are merged key by key. Extends is not inherited.
func (c ConfigData) Merge(over ConfigData) ConfigData {
	out := c
	out.Extends = nil
	if over.Loader != "" {
		out.Loader = over.Loader
	}
	if over.Format != "" {
		out.Format = over.Format
	}
	if over.Target != "" {
		out.Target = over.Target
	}
	if over.JSXFactory != "" {
		out.JSXFactory = over.JSXFactory
	}
	if over.JSXFragment != "" {
		out.JSXFragment = over.JSXFragment
	}
	if over.Minify != nil {
		v := *over.Minify
		out.Minify = &v
	}
	if over.SourceType != "" {
		out.SourceType = over.SourceType
	}
	if len(c.Define)+len(over.Define) > 0 {
		out.Define = make(map[string]string, len(c.Define)+len(over.Define))
		maps.Copy(out.Define, c.Define)
		maps.Copy(out.Define, over.Define)
	}
	return out
}

// ResolvedConfig is a configuration with all presets expanded.
type ResolvedConfig struct {
	UID  string
	Data ConfigData
}

// CompileOptions is everything a compiler needs to transform one file.
type CompileOptions struct {
	Loader      string            `json:"loader"`
	Format      string            `json:"format"`
	Target      string            `json:"target"`
	JSXFactory  string            `json:"jsxFactory,omitempty"`
	JSXFragment string            `json:"jsxFragment,omitempty"`
	Define      map[string]string `json:"define,omitempty"`
	Minify      bool              `json:"minify"`
	SourceType  SourceType        `json:"sourceType"`

	Filename       string     `json:"filename"`
	SourceFileName string     `json:"sourceFileName"`
	SourceRoot     string     `json:"sourceRoot"`
	SourceMaps     bool       `json:"sourceMaps"`
	InputSourceMap *SourceMap `json:"inputSourceMap,omitempty"`
}

// Options fills defaults into c for the given file.
func (c ConfigData) Options(filename string) CompileOptions {
	opts := CompileOptions{
		Loader:      c.Loader,
		Format:      c.Format,
		Target:      c.Target,
		JSXFactory:  c.JSXFactory,
		JSXFragment: c.JSXFragment,
		Define:      maps.Clone(c.Define),
		SourceType:  c.SourceType,
		Filename:    filename,
	}
	if c.Minify != nil {
		opts.Minify = *c.Minify
	}
	if opts.Loader == "" {
		opts.Loader = LoaderForFile(filename)
	}
	if opts.Format == "" {
		opts.Format = DefaultFormat
	}
	if opts.Target == "" {
		opts.Target = DefaultTarget
	}
	if opts.SourceType == "" {
		opts.SourceType = SourceTypeModule
	}
	return opts
}

// Fields returns the options that affect compiler output as key/value pairs in a
// fixed order, define entries last and sorted. The input source map is not included.
func (o *CompileOptions) Fields() [][2]string {
	fields := [][2]string{
		{"loader", o.Loader},
		{"format", o.Format},
		{"target", o.Target},
		{"jsxFactory", o.JSXFactory},
		{"jsxFragment", o.JSXFragment},
		{"minify", strconv.FormatBool(o.Minify)},
		{"sourceType", string(o.SourceType)},
		{"filename", o.Filename},
		{"sourceFileName", o.SourceFileName},
		{"sourceRoot", o.SourceRoot},
		{"sourceMaps", strconv.FormatBool(o.SourceMaps)},
	}
	for _, k := range slices.Sorted(maps.Keys(o.Define)) {
		fields = append(fields, [2]string{"define." + k, o.Define[k]})
	}
	return fields
}

// LoaderForFile picks the compiler loader from the file extension.
func LoaderForFile(filename string) string {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".jsx":
		return "jsx"
	case ".ts", ".mts", ".cts":
		return "ts"
	case ".tsx":
		return "tsx"
	case ".json":
		return "json"
	default:
		return "js"
	}
}
