// Package shell provides a compiler that runs an external command per file.
package shell

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.trai.ch/xform/internal/core/domain"
	"go.trai.ch/xform/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Compiler = (*Compiler)(nil)

// request is written to the command's stdin.
type request struct {
	Source  string                 `json:"source"`
	Options *domain.CompileOptions `json:"options"`
}

// response is read from the command's stdout on success.
type response struct {
	Code       string            `json:"code"`
	Map        *domain.SourceMap `json:"map,omitempty"`
	SourceType domain.SourceType `json:"sourceType,omitempty"`
	Warnings   []string          `json:"warnings,omitempty"`
}

var _ ports.CompilerLauncher = (*Launcher)(nil)

// Launcher builds shell compilers sharing one logger.
type Launcher struct {
	logger ports.Logger
}

// NewLauncher creates a new Launcher.
func NewLauncher(logger ports.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Compiler returns a compiler running command with env merged over the system environment.
func (l *Launcher) Compiler(command, env []string) *Compiler {
	return &Compiler{
		command: command,
		env:     env,
		logger:  l.logger,
	}
}

// Launch implements ports.CompilerLauncher.
func (l *Launcher) Launch(command, env []string) ports.Compiler {
	return l.Compiler(command, env)
}

// Compiler implements ports.Compiler by running an external command.
//
// The command receives {"source", "options"} as JSON on stdin and answers with
// {"code", "map", "sourceType"} or null on stdout. A non-zero exit with a
// {"name", "message", "codeFrame"} object on stdout reports invalid input;
// any other failure is described by stderr.
type Compiler struct {
	command []string
	env     []string
	logger  ports.Logger
}

// Name identifies the command for cache keys.
func (c *Compiler) Name() string {
	return domain.CompilerConfig{Kind: domain.CompilerShell, Command: c.command}.Identity("")
}

// Compile runs the command for one file.
func (c *Compiler) Compile(ctx context.Context, source string, opts *domain.CompileOptions) (*domain.CompileResult, error) {
	if len(c.command) == 0 {
		return nil, zerr.With(domain.ErrInvalidConfig, "reason", "shell compiler requires a command")
	}

	payload, err := json.Marshal(request{Source: source, Options: opts})
	if err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompilerProtocol.Error())
	}

	name := c.command[0]
	cmdEnv := resolveEnvironment(os.Environ(), c.env)

	executable := name
	if !filepath.IsAbs(name) {
		if lp, err := lookPath(name, cmdEnv); err == nil {
			executable = lp
		}
	}

	cmd := exec.CommandContext(ctx, executable, c.command[1:]...) //nolint:gosec // user provided command
	if len(cmd.Args) > 0 {
		cmd.Args[0] = name
	}
	cmd.Env = cmdEnv
	cmd.Stdin = bytes.NewReader(payload)

	var stdout, stderr bytes.Buffer
	logStderr := &lineWriter{logger: c.logger, prefix: name + ": "}
	stderrSinks := []io.Writer{&stderr, logStderr}
	if vertex, ok := ports.VertexFromContext(ctx); ok {
		stderrSinks = append(stderrSinks, vertex.Stderr())
	}
	cmd.Stdout = &stdout
	cmd.Stderr = io.MultiWriter(stderrSinks...)

	runErr := cmd.Run()
	logStderr.Flush()

	if runErr != nil {
		return nil, c.failure(runErr, stdout.Bytes(), stderr.String())
	}

	return decodeResponse(stdout.Bytes())
}

func (c *Compiler) failure(runErr error, stdout []byte, stderr string) error {
	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(runErr, &exitErr) {
		exitCode = exitErr.ExitCode()

		var diag domain.Diagnostic
		if json.Unmarshal(bytes.TrimSpace(stdout), &diag) == nil && diag.Message != "" {
			return zerr.Wrap(&diag, domain.ErrCompileFailed.Error())
		}
	}

	cause := runErr
	if msg := strings.TrimSpace(stderr); msg != "" {
		cause = errors.New(msg)
	}
	return zerr.With(zerr.With(zerr.Wrap(cause, domain.ErrCompileFailed.Error()), "command", c.command[0]), "exit_code", exitCode)
}

func decodeResponse(stdout []byte) (*domain.CompileResult, error) {
	trimmed := bytes.TrimSpace(stdout)
	if len(trimmed) == 0 {
		return nil, zerr.With(domain.ErrCompilerProtocol, "reason", "empty response")
	}

	var resp *response
	if err := json.Unmarshal(trimmed, &resp); err != nil {
		return nil, zerr.Wrap(err, domain.ErrCompilerProtocol.Error())
	}
	if resp == nil {
		return nil, nil
	}

	sourceType := resp.SourceType
	if sourceType == "" {
		sourceType = domain.SourceTypeModule
	}
	return &domain.CompileResult{
		Code:       resp.Code,
		Map:        resp.Map,
		SourceType: sourceType,
		Warnings:   resp.Warnings,
	}, nil
}
