package yaml

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/goccy/go-yaml"
	"github.com/goccy/go-yaml/printer"
	"github.com/goccy/go-yaml/token"
)

func NewPathBuilder() *yaml.PathBuilder {
	// Use the goccy/go-yaml PathBuilder to create a new YAMLPath.
	return &yaml.PathBuilder{}
}

// IsNotFound reports whether err means a YAML path had no matching node in
// the document, as opposed to the document being unparseable.
func IsNotFound(err error) bool {
	return errors.Is(err, yaml.ErrNotFoundNode)
}

type ErrorWrapper struct {
	Opts []ErrorOpt
}

func NewErrorWrapper(opts ...ErrorOpt) *ErrorWrapper {
	return &ErrorWrapper{
		Opts: opts,
	}
}

// Wrap wraps an error with additional context for [Error]s.
// If the error isn't an [Error], it returns the original error unmodified.
func (ew *ErrorWrapper) Wrap(err error, opts ...ErrorOpt) error {
	if err == nil {
		return nil
	}

	var yamlErr *Error
	if errors.As(err, &yamlErr) {
		for _, opt := range ew.Opts {
			opt(yamlErr)
		}

		for _, opt := range opts {
			opt(yamlErr)
		}

		return yamlErr
	}

	return err
}

// Error represents a YAML error. It carries the original error plus the
// position where it occurred, either as a [*yaml.Path] into the document or
// as the offending [*token.Token].
type Error struct {
	Err    error
	Path   *yaml.Path
	Token  *token.Token
	Source []byte
}

func NewError(err error, opts ...ErrorOpt) *Error {
	e := &Error{
		Err: err,
	}
	for _, opt := range opts {
		opt(e)
	}

	return e
}

type ErrorOpt func(e *Error)

func WithPath(path *yaml.Path) ErrorOpt {
	return func(e *Error) {
		e.Path = path
	}
}

func WithToken(tk *token.Token) ErrorOpt {
	return func(e *Error) {
		e.Token = tk
	}
}

func WithSource(source []byte) ErrorOpt {
	return func(e *Error) {
		e.Source = source
	}
}

func (e Error) Error() string {
	if e.Err == nil {
		return ""
	}

	if e.Token != nil {
		var pp printer.Printer

		errMsg := fmt.Sprintf("[%d:%d] %v:", e.Token.Position.Line, e.Token.Position.Column, e.Err)

		return fmt.Sprintf("%s\n%s", errMsg, pp.PrintErrorToken(e.Token, false))
	}

	if e.Path == nil {
		return e.Err.Error()
	}

	if len(e.Source) > 0 {
		annotated, srcErr := e.Path.AnnotateSource(e.Source, false)
		if srcErr != nil {
			slog.Warn("failed to annotate source with error",
				slog.String("path", e.Path.String()),
				slog.Any("error", srcErr),
			)
		} else {
			return fmt.Sprintf("error at %s: %v:\n%s", e.Path.String(), e.Err, annotated)
		}
	}

	return fmt.Sprintf("error at %s: %v", e.Path.String(), e.Err)
}
