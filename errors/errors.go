package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the runtime's lifecycle the error occurred
type Phase string

const (
	PhaseBuild   Phase = "build"   // orchestrator construction
	PhaseRun     Phase = "run"     // control/render loop operation
	PhaseStore   Phase = "store"   // named resource store access
	PhaseBackend Phase = "backend" // window/input backend
	PhaseConfig  Phase = "config"  // configuration loading
	PhaseHook    Phase = "hook"    // user hook installation/invocation
)

// Kind categorizes the error
type Kind string

const (
	KindAlreadyExists Kind = "already_exists"
	KindTypeMismatch  Kind = "type_mismatch"
	KindNotFound      Kind = "not_found"
	KindInvalidInput  Kind = "invalid_input"
	KindUnsupported   Kind = "unsupported"
	KindClosed        Kind = "closed"
	KindInstantiation Kind = "instantiation"
)

// Error is the structured error type used throughout the runtime
type Error struct {
	Value    any
	Cause    error
	Phase    Phase
	Kind     Kind
	Key      string // resource key or config field the error refers to
	GoType   string // stored Go type, for store access errors
	WantType string // requested Go type, for store access errors
	Detail   string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Key != "" {
		b.WriteString(" at ")
		b.WriteString(e.Key)
	}

	if e.GoType != "" || e.WantType != "" {
		b.WriteString(": ")
		if e.GoType != "" && e.WantType != "" {
			b.WriteString("stored ")
			b.WriteString(e.GoType)
			b.WriteString(", requested ")
			b.WriteString(e.WantType)
		} else if e.GoType != "" {
			b.WriteString("stored ")
			b.WriteString(e.GoType)
		} else {
			b.WriteString("requested ")
			b.WriteString(e.WantType)
		}
	}

	if e.Detail != "" {
		if e.GoType != "" || e.WantType != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
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

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
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

// Key sets the resource key or config field
func (b *Builder) Key(key string) *Builder {
	b.err.Key = key
	return b
}

// GoType sets the stored Go type name
func (b *Builder) GoType(t string) *Builder {
	b.err.GoType = t
	return b
}

// WantType sets the requested Go type name
func (b *Builder) WantType(t string) *Builder {
	b.err.WantType = t
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

// AlreadyExists creates a duplicate-key error
func AlreadyExists(phase Phase, key string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAlreadyExists,
		Key:    key,
		Detail: fmt.Sprintf("key %q is already registered", key),
	}
}

// TypeMismatch creates a type mismatch error for a store slot
func TypeMismatch(phase Phase, key, stored, requested string) *Error {
	return &Error{
		Phase:    phase,
		Kind:     KindTypeMismatch,
		Key:      key,
		GoType:   stored,
		WantType: requested,
	}
}

// NotFound creates a missing-key error
func NotFound(phase Phase, key string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindNotFound,
		Key:   key,
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

// Unsupported creates an unsupported operation error
func Unsupported(phase Phase, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupported,
		Detail: what,
	}
}

// Instantiation creates an instantiation failure error
func Instantiation(phase Phase, what string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInstantiation,
		Detail: what,
		Cause:  cause,
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
