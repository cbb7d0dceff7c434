// Package config provides the configuration loader and resolver for xform.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load finds xform.yaml in cwd or one of its parents and returns the project.
// Without a config file the project uses defaults rooted at cwd.
func (l *Loader) Load(cwd string) (*domain.Project, error) {
	configPath, found := findConfiguration(cwd)
	if !found {
		l.Logger.Debug("no " + domain.ConfigFileName + " found, using defaults")
		return buildProject(cwd, filepath.Join(cwd, domain.ConfigFileName), &Configfile{})
	}
	return l.LoadFile(cwd, configPath)
}

// LoadFile reads the configuration at configPath.
func (l *Loader) LoadFile(cwd, configPath string) (*domain.Project, error) {
	var cfg Configfile
	if err := readAndUnmarshalYAML(configPath, &cfg); err != nil {
		return nil, err
	}
	l.Logger.Debug("loaded configuration from " + configPath)
	return buildProject(cwd, configPath, &cfg)
}

func findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		candidate := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return "", false
		}
		currentDir = parentDir
	}
}

func buildProject(cwd, configPath string, cfg *Configfile) (*domain.Project, error) {
	root := resolveRoot(configPath, cfg.Root)

	compiler, err := buildCompiler(cfg.Compiler)
	if err != nil {
		return nil, err
	}

	concurrency := cfg.Concurrency
	switch {
	case concurrency < 0:
		return nil, zerr.With(domain.ErrInvalidConfig, "concurrency", concurrency)
	case concurrency == 0:
		concurrency = runtime.NumCPU()
	}

	rules := make([]domain.TransformRule, 0, len(cfg.Transform))
	for i, rule := range cfg.Transform {
		if rule.Match == "" {
			return nil, zerr.With(zerr.With(domain.ErrInvalidConfig, "transform_rule", i), "reason", "empty match")
		}
		rules = append(rules, domain.TransformRule{Match: rule.Match, Transform: rule.Transform})
	}

	return &domain.Project{
		Root:        root,
		CacheDir:    resolveCacheDir(cwd, root, cfg.CacheDir),
		Compiler:    compiler,
		Concurrency: concurrency,
		Presets:     cfg.Presets,
		Config:      cfg.Config,
		Overrides:   cfg.Overrides,
		Rules:       rules,
		LogLevel:    domain.ParseLogLevel(cfg.Log.Level),
	}, nil
}

func buildCompiler(dto CompilerDTO) (domain.CompilerConfig, error) {
	kind := domain.CompilerKind(strings.ToLower(dto.Kind))
	switch kind {
	case "", domain.CompilerEsbuild:
		return domain.CompilerConfig{Kind: domain.CompilerEsbuild}, nil
	case domain.CompilerShell:
		if len(dto.Command) == 0 {
			return domain.CompilerConfig{}, zerr.With(domain.ErrInvalidConfig, "reason", "shell compiler requires a command")
		}
		env := make([]string, 0, len(dto.Env))
		for k, v := range dto.Env {
			env = append(env, k+"="+v)
		}
		slices.Sort(env)
		return domain.CompilerConfig{Kind: kind, Command: dto.Command, Env: env}, nil
	default:
		return domain.CompilerConfig{}, zerr.With(domain.ErrUnknownCompiler, "kind", dto.Kind)
	}
}

// resolveCacheDir applies XFORM_CACHE_DIR, then the configured directory
// relative to the project root, then the default under cwd.
func resolveCacheDir(cwd, root, configured string) string {
	if env := os.Getenv(domain.CacheDirEnv); env != "" {
		return filepath.Clean(env)
	}
	if configured == "" {
		return domain.DefaultCachePath(cwd)
	}
	if filepath.IsAbs(configured) {
		return filepath.Clean(configured)
	}
	return filepath.Join(root, configured)
}

func resolveRoot(configPath, configuredRoot string) string {
	configDir := filepath.Dir(configPath)
	if configuredRoot == "" {
		return filepath.Clean(configDir)
	}
	if filepath.IsAbs(configuredRoot) {
		return filepath.Clean(configuredRoot)
	}
	return filepath.Clean(filepath.Join(configDir, configuredRoot))
}

// readAndUnmarshalYAML reads a YAML file and unmarshals it into the target struct.
func readAndUnmarshalYAML[T any](configPath string, target *T) error {
	// #nosec G304 -- configPath is validated by caller
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return zerr.With(domain.ErrConfigNotFound, "path", configPath)
		}
		return zerr.Wrap(err, domain.ErrConfigReadFailed.Error())
	}

	if parseErr := yaml.Unmarshal(configFile, target); parseErr != nil {
		return zerr.Wrap(parseErr, domain.ErrConfigParseFailed.Error())
	}

	return nil
}
