// Package app orchestrates the runtime's two long-lived goroutines: a
// render loop that owns the drawing context and a control loop that
// owns input polling.
//
// # Lifecycle
//
//	a, err := app.New(800, 600, "demo").
//		OnRenderInit(initScene).
//		OnRenderFrame(drawScene).
//		OnEventTick(pollInput).
//		Build()
//	if err != nil {
//		log.Fatal(err)
//	}
//	a.Run()
//
// Build spawns the render goroutine and blocks until its one-time
// initialization has completed; only then does the window become
// visible and Build return. Run drives the control loop on the calling
// goroutine until either side requests exit (closing the window or
// calling Exit), at which point both loops terminate: the render loop
// observes the should-close flag at its next iteration and the control
// loop observes the render loop's exit signal.
//
// # Shared state
//
// The two loops share state exclusively through the named resource
// store: the window handle, both loops' per-iteration durations, the
// stall threshold and the goroutine name table each live in their own
// slot under per-key locking. Direct unsynchronized sharing is
// structurally impossible; there is nothing else to share.
//
// Building a second instance while one's window is registered fails
// deterministically; it never replaces the first. Use MustBuild where
// that should abort the process.
package app
