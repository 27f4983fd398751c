// Package backend defines the window/input surface the runtime drives
// and a registry of named backend implementations.
//
// The runtime treats the backend as opaque: it creates a window,
// sequences context ownership and presentation, and polls for input.
// Backends register a factory under a name:
//
//	backend.Register("term", func(cfg backend.Config) (backend.Window, error) { ... })
//
// and are selected explicitly or by priority order (term before
// headless). The headless backend ships in this package: a fully
// in-memory window whose input is injected programmatically, used by
// tests and CI runs.
package backend
