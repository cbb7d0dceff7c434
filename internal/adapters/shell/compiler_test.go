package shell_test

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/xform/internal/adapters/shell"
	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports/mocks"
	"go.uber.org/mock/gomock"
)

func newLauncher(t *testing.T) (*shell.Launcher, *mocks.MockLogger) {
	t.Helper()
	ctrl := gomock.NewController(t)
	log := mocks.NewMockLogger(ctrl)
	return shell.NewLauncher(log), log
}

func script(body string) []string {
	return []string{"sh", "-c", "cat >/dev/null; " + body}
}

func defaultOptions() *domain.CompileOptions {
	opts := domain.ConfigData{}.Options("/repo/src/a.js")
	return &opts
}

func TestCompiler_Name(t *testing.T) {
	l, _ := newLauncher(t)
	assert.Equal(t, "shell:node compile.js", l.Compiler([]string{"node", "compile.js"}, nil).Name())
	assert.Equal(t, "shell:node compile.js", l.Launch([]string{"node", "compile.js"}, nil).Name())
}

func TestCompiler_Compile_Success(t *testing.T) {
	l, _ := newLauncher(t)
	c := l.Compiler(script(`printf '{"code":"var x=1;","sourceType":"script","map":{"version":3,"sources":["a.js"],"names":[],"mappings":"AAAA"}}'`), nil)

	result, err := c.Compile(t.Context(), "const x = 1", defaultOptions())
	require.NoError(t, err)

	assert.Equal(t, "var x=1;", result.Code)
	assert.Equal(t, domain.SourceTypeScript, result.SourceType)
	require.NotNil(t, result.Map)
	assert.Equal(t, []string{"a.js"}, result.Map.Sources)
}

func TestCompiler_Compile_Null(t *testing.T) {
	l, _ := newLauncher(t)

	result, err := l.Compiler(script(`echo null`), nil).Compile(t.Context(), "", defaultOptions())
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestCompiler_Compile_Request(t *testing.T) {
	l, _ := newLauncher(t)
	out := filepath.Join(t.TempDir(), "request.json")

	c := l.Compiler([]string{"sh", "-c", `cat > "$XFORM_REQUEST_OUT"; printf '{"code":"ok"}'`}, []string{"XFORM_REQUEST_OUT=" + out})
	result, err := c.Compile(t.Context(), "let a = 1", defaultOptions())
	require.NoError(t, err)
	assert.Equal(t, domain.SourceTypeModule, result.SourceType, "missing sourceType defaults to module")

	data, err := os.ReadFile(out)
	require.NoError(t, err)

	var req struct {
		Source  string                `json:"source"`
		Options domain.CompileOptions `json:"options"`
	}
	require.NoError(t, json.Unmarshal(data, &req))
	assert.Equal(t, "let a = 1", req.Source)
	assert.Equal(t, "/repo/src/a.js", req.Options.Filename)
	assert.Equal(t, domain.DefaultTarget, req.Options.Target)
}

func TestCompiler_Compile_Diagnostic(t *testing.T) {
	l, _ := newLauncher(t)
	c := l.Compiler(script(`printf '{"name":"SyntaxError","message":"src/a.js: Unexpected token (1:2)","codeFrame":"> 1 | 1+"}'; exit 1`), nil)

	_, err := c.Compile(t.Context(), "1+", defaultOptions())
	require.ErrorContains(t, err, domain.ErrCompileFailed.Error())

	var diag *domain.Diagnostic
	require.True(t, errors.As(err, &diag))
	assert.Equal(t, "SyntaxError", diag.Name)
	assert.Equal(t, "> 1 | 1+", diag.CodeFrame)
}

func TestCompiler_Compile_InternalFailure(t *testing.T) {
	l, log := newLauncher(t)
	log.EXPECT().Debug("sh: compiler crashed").Times(1)

	_, err := l.Compiler(script(`echo "compiler crashed" >&2; exit 3`), nil).Compile(t.Context(), "x", defaultOptions())
	require.Error(t, err)
	assert.ErrorContains(t, err, "compiler crashed")

	var diag *domain.Diagnostic
	assert.False(t, errors.As(err, &diag))
}

func TestCompiler_Compile_MalformedResponse(t *testing.T) {
	l, _ := newLauncher(t)

	_, err := l.Compiler(script(`echo not-json`), nil).Compile(t.Context(), "x", defaultOptions())
	require.ErrorContains(t, err, domain.ErrCompilerProtocol.Error())

	_, err = l.Compiler(script(`true`), nil).Compile(t.Context(), "x", defaultOptions())
	require.ErrorContains(t, err, domain.ErrCompilerProtocol.Error())
}

func TestCompiler_Compile_FragmentedStderr(t *testing.T) {
	l, log := newLauncher(t)
	log.EXPECT().Debug("sh: part1part2").Times(1)
	log.EXPECT().Debug("sh: tail").Times(1)

	c := l.Compiler(script(`printf part1 >&2; sleep 0.1; echo part2 >&2; printf tail >&2; echo null`), nil)
	_, err := c.Compile(t.Context(), "x", defaultOptions())
	require.NoError(t, err)
}
