package app

import (
	"runtime"
	"sync"
	"time"

	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/backend"
	"github.com/corekit/appcore/registry"
)

// App drives the control loop. Build returns it only after the render
// goroutine has completed one-time initialization.
type App struct {
	store     *registry.Store
	win       backend.Window
	eventInit func()
	eventTick func()
	exit      <-chan struct{}
	closeOnce sync.Once
}

// Run drives the control loop on the calling goroutine until the
// render goroutine signals exit. Each iteration yields the remaining
// timeslice (a fairness hint on constrained hardware, not a
// correctness mechanism), publishes the iteration's duration, runs the
// event-tick hook, and polls the backend, which dispatches the
// installed callbacks synchronously on this goroutine.
func (a *App) Run() {
	applog.Debugf(ownerEvent, "starting event loop")
	if a.eventInit != nil {
		a.eventInit()
	}

	last := time.Now()
	for {
		select {
		case <-a.exit:
			applog.Debugf(ownerEvent, "event loop exited")
			return
		default:
		}

		runtime.Gosched()

		now := time.Now()
		dt := now.Sub(last)
		last = now
		registry.Put(a.store, KeyEventDuration, dt)

		if a.eventTick != nil {
			a.eventTick()
		}

		// Poll through the handle owned by this App, not through the
		// store: callbacks dispatched here may themselves enter the
		// window slot (Exit, WindowSize), which must not find its lock
		// already held.
		a.win.PollEvents()
	}
}

// Close requests shutdown, waits for the render goroutine to finish
// its final iteration, destroys the window and releases its slot so a
// new instance can be built in the same process. Safe to call more
// than once.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		Exit()
		<-a.exit
		a.store.Remove(KeyWindow)
		a.win.Destroy()
	})
}

// Done returns a channel closed when the render goroutine has exited.
func (a *App) Done() <-chan struct{} {
	return a.exit
}

// Exit requests shutdown by flipping the window's should-close flag.
// The render loop observes it at the top of its next iteration, so
// shutdown completes within about one frame, not instantaneously.
func Exit() {
	registry.WithMutate(registry.Default(), KeyWindow, func(w *backend.Window) struct{} {
		(*w).SetShouldClose(true)
		return struct{}{}
	})
}

// WindowSize returns the current window size, or zeros when no window
// is registered.
func WindowSize() (int, int) {
	size, ok := registry.WithRead(registry.Default(), KeyWindow, func(w *backend.Window) [2]int {
		width, height := (*w).Size()
		return [2]int{width, height}
	})
	if !ok {
		return 0, 0
	}
	return size[0], size[1]
}

// RenderDuration returns the most recent render iteration's duration,
// or zero when none has been published.
func RenderDuration() time.Duration {
	return registry.GetOr(registry.Default(), KeyRenderDuration, time.Duration(0))
}

// EventDuration returns the most recent control iteration's duration,
// or zero when none has been published.
func EventDuration() time.Duration {
	return registry.GetOr(registry.Default(), KeyEventDuration, time.Duration(0))
}

// RenderRate returns the render loop's rate in iterations per second,
// derived from the latest duration. Returns 0 when no duration has
// been published.
func RenderRate() float64 {
	return rate(RenderDuration())
}

// EventRate returns the control loop's rate in iterations per second.
// Returns 0 when no duration has been published.
func EventRate() float64 {
	return rate(EventDuration())
}

func rate(d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(time.Second) / float64(d)
}

// SetStallThreshold sets the duration above which a render iteration
// logs a stall warning. Takes effect on the next comparison; a change
// mid-frame is not observed until then.
func SetStallThreshold(d time.Duration) {
	if err := registry.Put(registry.Default(), KeyStallThreshold, d); err != nil {
		applog.Errorf(ownerEvent, "set stall threshold: %v", err)
	}
}

// SetCursorMode sets the window's cursor behavior.
func SetCursorMode(mode backend.CursorMode) {
	registry.WithMutate(registry.Default(), KeyWindow, func(w *backend.Window) struct{} {
		(*w).SetCursorMode(mode)
		return struct{}{}
	})
}

// Resources returns the process-wide resource store, for consumers
// publishing their own slots alongside the runtime's.
func Resources() *registry.Store {
	return registry.Default()
}
