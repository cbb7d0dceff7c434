package config_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xform/internal/adapters/config"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLoader(t *testing.T) *config.Loader {
	t.Helper()
	ctrl := gomock.NewController(t)
	mockLogger := mocks.NewMockLogger(ctrl)
	mockLogger.EXPECT().Debug(gomock.Any()).AnyTimes()
	return config.NewLoader(mockLogger)
}

func createFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), domain.FilePerm))
	return path
}

func TestLoader_Load_Full(t *testing.T) {
	t.Setenv(domain.CacheDirEnv, "")
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, `
version: "1"
cacheDir: .cache/xform
concurrency: 3
log:
  level: debug
compiler:
  kind: shell
  command: ["node", "compile.js"]
  env:
    NODE_ENV: production
presets:
  react:
    loader: jsx
    jsxFactory: React.createElement
config:
  extends: [react]
  target: es2019
  define:
    __DEV__: "false"
overrides:
  - target: es2015
transform:
  - match: "src/legacy/**"
    transform: none
`)

	project, err := newLoader(t).Load(rootDir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(rootDir), project.Root)
	assert.Equal(t, filepath.Join(rootDir, ".cache", "xform"), project.CacheDir)
	assert.Equal(t, 3, project.Concurrency)
	assert.Equal(t, domain.LogLevelDebug, project.LogLevel)
	assert.Equal(t, domain.CompilerConfig{
		Kind:    domain.CompilerShell,
		Command: []string{"node", "compile.js"},
		Env:     []string{"NODE_ENV=production"},
	}, project.Compiler)
	assert.Equal(t, "jsx", project.Presets["react"].Loader)
	assert.Equal(t, []string{"react"}, project.Config.Extends)
	assert.Equal(t, map[string]string{"__DEV__": "false"}, project.Config.Define)
	require.Len(t, project.Overrides, 1)
	assert.Equal(t, "es2015", project.Overrides[0].Target)
	assert.Equal(t, []domain.TransformRule{{Match: "src/legacy/**", Transform: "none"}}, project.Rules)
}

func TestLoader_Load_Discovery(t *testing.T) {
	t.Setenv(domain.CacheDirEnv, "")
	rootDir := t.TempDir()
	createFile(t, rootDir, domain.ConfigFileName, "version: \"1\"\n")

	nested := filepath.Join(rootDir, "packages", "web")
	require.NoError(t, os.MkdirAll(nested, domain.DirPerm))

	project, err := newLoader(t).Load(nested)
	require.NoError(t, err)

	assert.Equal(t, filepath.Clean(rootDir), project.Root)
	assert.Equal(t, domain.DefaultCachePath(nested), project.CacheDir)
}

func TestLoader_Load_Defaults(t *testing.T) {
	t.Setenv(domain.CacheDirEnv, "")
	dir := t.TempDir()

	project, err := newLoader(t).Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, project.Root)
	assert.Equal(t, domain.CompilerEsbuild, project.Compiler.Kind)
	assert.Equal(t, runtime.NumCPU(), project.Concurrency)
	assert.Equal(t, domain.DefaultCachePath(dir), project.CacheDir)
	assert.Equal(t, domain.LogLevelInfo, project.LogLevel)
}

func TestLoader_Load_CacheDirEnv(t *testing.T) {
	dir := t.TempDir()
	override := filepath.Join(t.TempDir(), "cache")
	t.Setenv(domain.CacheDirEnv, override)
	createFile(t, dir, domain.ConfigFileName, "cacheDir: ignored\n")

	project, err := newLoader(t).Load(dir)
	require.NoError(t, err)
	assert.Equal(t, override, project.CacheDir)
}

func TestLoader_Load_Errors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"invalid yaml", "compiler: [", domain.ErrConfigParseFailed},
		{"unknown compiler", "compiler:\n  kind: babel\n", domain.ErrUnknownCompiler},
		{"shell without command", "compiler:\n  kind: shell\n", domain.ErrInvalidConfig},
		{"negative concurrency", "concurrency: -1\n", domain.ErrInvalidConfig},
		{"empty rule match", "transform:\n  - transform: all\n", domain.ErrInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			createFile(t, dir, domain.ConfigFileName, tt.content)

			_, err := newLoader(t).Load(dir)
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr.Error())
		})
	}
}

func TestLoader_LoadFile_Missing(t *testing.T) {
	dir := t.TempDir()
	_, err := newLoader(t).LoadFile(dir, filepath.Join(dir, "nope.yaml"))
	require.Error(t, err)
	assert.ErrorContains(t, err, domain.ErrConfigNotFound.Error())
}
