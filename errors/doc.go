// Package errors provides structured error types for the appcore runtime.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: resource key, stored/requested type names,
// and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseStore, errors.KindTypeMismatch).
//		Key("app/window").
//		GoType("*headless.Window").
//		WantType("string").
//		Detail("slot holds a window, not a string").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.AlreadyExists(errors.PhaseBuild, "app/window")
//	err := errors.TypeMismatch(errors.PhaseStore, key, "int", "string")
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
