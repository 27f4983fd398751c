// Package appcore provides a two-goroutine real-time application
// runtime: a render goroutine that owns the drawing context and a
// control goroutine that owns window events, coordinated through
// channel handshakes and a shared typed resource store.
//
// # Architecture Overview
//
// The module is organized into several packages with distinct
// responsibilities:
//
//	appcore/             Root package documentation
//	├── app/             Builder, lifecycle orchestration and queries
//	├── registry/        Concurrent type-checked named resource store
//	├── backend/         Windowing contract, factory registry, headless backend
//	├── backend/term/    Terminal backend (alternate screen, half-block pixels)
//	├── applog/          Leveled logger with per-goroutine owner labels
//	├── config/          YAML configuration mapped onto a Builder
//	├── errors/          Structured error types with phase and kind
//	└── hookwasm/        WebAssembly lifecycle hooks bound to a Builder
//
// # Quick Start
//
// Build and run an application:
//
//	a := app.New(800, 600, "demo").
//		OnRenderFrame(drawFrame).
//		MustBuild()
//	defer a.Close()
//	a.Run()
//
// Build blocks until the render goroutine has finished its init hook,
// then shows the window; Run drives the event loop on the calling
// goroutine until the window closes or app.Exit is called. Shared
// state between the two goroutines goes through the store:
//
//	registry.Register(app.Resources(), "game/score", 0)
//	registry.WithMutate(app.Resources(), "game/score", func(s *int) int {
//		*s++
//		return *s
//	})
//
// Store access is type checked at the call site: retrieving a value
// under a different type than it was stored with fails rather than
// misinterpreting the slot.
package appcore
