package app

import "time"

// Resource keys. One physical store serves the whole process; keys are
// hierarchical so unrelated slots cannot collide.
const (
	// KeyWindow holds the backend.Window. At most one may be
	// registered at a time; a second registration is a build failure.
	KeyWindow = "app/window"

	// KeyRenderDuration holds the most recent render iteration's
	// duration. Overwritten every frame by the render goroutine.
	KeyRenderDuration = "app/timing/render"

	// KeyEventDuration holds the most recent control iteration's
	// duration. Overwritten every iteration by the control goroutine.
	KeyEventDuration = "app/timing/event"

	// KeyStallThreshold holds the duration above which a render
	// iteration is logged as a stall.
	KeyStallThreshold = "app/timing/stall"

	// KeyGoroutineNames holds the goroutine-ID to label table.
	KeyGoroutineNames = "app/goroutines/names"
)

// DefaultStallThreshold is one frame at 60 Hz. A render iteration
// exceeding the threshold produces a warning, not an error.
const DefaultStallThreshold = 16670 * time.Microsecond
