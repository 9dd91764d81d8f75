package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseDecode   Phase = "decode"   // binary or JSON to graph
	PhaseExtract  Phase = "extract"  // graph to descriptor
	PhaseConfig   Phase = "config"   // config envelope
	PhaseRegistry Phase = "registry" // push and pull
	PhaseLoad     Phase = "load"     // file loading
)

// Kind categorizes the error
type Kind string

const (
	KindNotFound              Kind = "not_found"
	KindWrongArtifactShape    Kind = "wrong_artifact_shape"
	KindMalformedBinary       Kind = "malformed_binary"
	KindArtifactShapeMismatch Kind = "artifact_shape_mismatch"
	KindInvalidInput          Kind = "invalid_input"
	KindTransport             Kind = "transport" // registry I/O failure
	// KindUnresolvableReference names a world key that does not resolve.
	// Extraction omits such keys; no error of this kind is ever returned.
	KindUnresolvableReference Kind = "unresolvable_reference"
)

// Sentinels for errors.Is. They carry no phase, so they match any phase.
var (
	ErrNotFound              = &Error{Kind: KindNotFound}
	ErrWrongArtifactShape    = &Error{Kind: KindWrongArtifactShape}
	ErrMalformedBinary       = &Error{Kind: KindMalformedBinary}
	ErrArtifactShapeMismatch = &Error{Kind: KindArtifactShapeMismatch}
	ErrInvalidInput          = &Error{Kind: KindInvalidInput}
	ErrTransport             = &Error{Kind: KindTransport}
)

// Error is the structured error type used throughout the module
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	if e.Phase != "" {
		b.WriteByte('[')
		b.WriteString(string(e.Phase))
		b.WriteString("] ")
	}
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error. A target without a phase
// matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase == "" {
		return e.Kind == t.Kind
	}
	return e.Phase == t.Phase && e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the path into the artifact
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Path:   []string{what},
		Detail: fmt.Sprintf("%s %q not found", what, name),
		Value:  name,
	}
}

// WrongArtifactShape reports a decoded artifact of the other shape than the
// caller asked for. hint tells the caller which entry point to use instead.
func WrongArtifactShape(found, want, hint string) *Error {
	detail := fmt.Sprintf("found a %s, not a %s", found, want)
	if hint != "" {
		detail += ". " + hint
	}
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindWrongArtifactShape,
		Detail: detail,
	}
}

// MalformedBinary creates a decode failure error
func MalformedBinary(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindMalformedBinary,
		Detail: detail,
		Cause:  cause,
	}
}

// ShapeMismatch creates a registry artifact shape error
func ShapeMismatch(detail string, args ...any) *Error {
	if len(args) > 0 {
		detail = fmt.Sprintf(detail, args...)
	}
	return &Error{
		Phase:  PhaseRegistry,
		Kind:   KindArtifactShapeMismatch,
		Detail: detail,
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// Load creates a file loading error
func Load(detail string, cause error) *Error {
	return &Error{
		Phase:  PhaseLoad,
		Kind:   KindInvalidInput,
		Detail: detail,
		Cause:  cause,
	}
}

// KindOf returns the kind of the first *Error in err's chain, or "" when
// there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}
