package domain

import (
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrorKind tags a TransformError with the stage that produced it.
type ErrorKind string

const (
	// KindSyntax marks malformed source input. These errors are user facing.
	KindSyntax ErrorKind = "syntax"
	// KindInternal marks unexpected compiler or runtime failures.
	KindInternal ErrorKind = "internal"
	// KindConfigResolution marks a configuration that could not be expanded.
	KindConfigResolution ErrorKind = "config_resolution"
	// KindWrite marks a failure to persist a computed artifact.
	KindWrite ErrorKind = "write"
)

// Diagnostic is the structured failure a compiler reports for invalid input.
// Name is the error class ("SyntaxError", "TypeError", ...), CodeFrame the annotated excerpt.
type Diagnostic struct {
	Name      string `json:"name"`
	Message   string `json:"message"`
	CodeFrame string `json:"codeFrame"`
	Line      int    `json:"line,omitempty"`
	Column    int    `json:"column,omitempty"`
}

// Error implements the error interface.
func (d *Diagnostic) Error() string {
	if d.Name == "" {
		return d.Message
	}
	return d.Name + ": " + d.Message
}

// TransformError is the tagged error returned by the transform pipeline.
type TransformError struct {
	Kind      ErrorKind
	Name      string
	Message   string
	Excerpt   string
	HideStack bool
	Cause     error
}

// NewSyntaxError builds a user facing error from a compiler diagnostic.
func NewSyntaxError(name, message, excerpt string, hideStack bool, cause error) *TransformError {
	return &TransformError{
		Kind:      KindSyntax,
		Name:      name,
		Message:   message,
		Excerpt:   excerpt,
		HideStack: hideStack,
		Cause:     cause,
	}
}

// NewInternalError wraps an unexpected failure, keeping its full trace.
func NewInternalError(cause error) *TransformError {
	return &TransformError{Kind: KindInternal, Message: messageOf(cause), Cause: cause}
}

// NewConfigResolutionError wraps a configuration expansion failure.
func NewConfigResolutionError(cause error) *TransformError {
	return &TransformError{Kind: KindConfigResolution, Message: messageOf(cause), Cause: cause}
}

// NewWriteError wraps a failure to persist a cache entry.
func NewWriteError(cause error) *TransformError {
	return &TransformError{Kind: KindWrite, Message: messageOf(cause), Cause: cause}
}

func messageOf(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Error renders the error the way it is shown to users:
// "Name: message" followed by the source excerpt when one is available.
func (e *TransformError) Error() string {
	var b strings.Builder
	if e.Name != "" {
		b.WriteString(e.Name)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Excerpt != "" {
		b.WriteString("\n\n")
		b.WriteString(e.Excerpt)
		b.WriteString("\n")
	}
	return b.String()
}

// Unwrap returns the underlying cause.
func (e *TransformError) Unwrap() error {
	return e.Cause
}

// Format implements fmt.Formatter. With %+v the cause is printed with its
// trace unless the error hides it.
func (e *TransformError) Format(s fmt.State, verb rune) {
	switch verb {
	case 'v':
		_, _ = io.WriteString(s, e.Error())
		if s.Flag('+') && !e.HideStack && e.Cause != nil {
			_, _ = fmt.Fprintf(s, "\n%+v", e.Cause)
		}
	case 's':
		_, _ = io.WriteString(s, e.Error())
	case 'q':
		_, _ = fmt.Fprintf(s, "%q", e.Error())
	}
}

// IsKind reports whether err carries a TransformError of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var te *TransformError
	return errors.As(err, &te) && te.Kind == kind
}
