package app

import (
	"time"

	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/backend"
	"github.com/corekit/appcore/errors"
	"github.com/corekit/appcore/registry"
)

const (
	ownerBuilder = "app.Builder"
	ownerRender  = "app.render"
	ownerEvent   = "app.App"
)

// Builder assembles the runtime's configuration: window geometry and
// up to eleven optional hooks. All hooks are fixed at Build time;
// absent hooks are no-ops.
type Builder struct {
	width       int
	height      int
	title       string
	backendName string

	renderInit  func()
	renderFrame func()
	eventInit   func()
	eventTick   func()

	onResize      backend.SizeCallback
	onMove        backend.PosCallback
	onClose       backend.CloseCallback
	onKey         backend.KeyCallback
	onMouseButton backend.MouseButtonCallback
	onCursorMove  backend.CursorPosCallback
	onScroll      backend.ScrollCallback
}

// New creates a Builder for a window of the given size and title.
func New(width, height int, title string) *Builder {
	return &Builder{
		width:  width,
		height: height,
		title:  title,
	}
}

// Backend selects the windowing backend by registered name. An empty
// name picks the best available backend.
func (b *Builder) Backend(name string) *Builder {
	b.backendName = name
	return b
}

// OnRenderInit sets the hook run once on the render goroutine, after
// the drawing context is current and before the first frame.
func (b *Builder) OnRenderInit(fn func()) *Builder {
	b.renderInit = fn
	return b
}

// OnRenderFrame sets the hook run every render iteration. It is
// expected to issue drawing calls; the runtime neither inspects nor
// constrains what it does.
func (b *Builder) OnRenderFrame(fn func()) *Builder {
	b.renderFrame = fn
	return b
}

// OnEventInit sets the hook run once on the control goroutine before
// its loop starts.
func (b *Builder) OnEventInit(fn func()) *Builder {
	b.eventInit = fn
	return b
}

// OnEventTick sets the hook run every control iteration, before input
// events are polled.
func (b *Builder) OnEventTick(fn func()) *Builder {
	b.eventTick = fn
	return b
}

// OnResize sets the window size callback.
func (b *Builder) OnResize(fn backend.SizeCallback) *Builder {
	b.onResize = fn
	return b
}

// OnMove sets the window position callback.
func (b *Builder) OnMove(fn backend.PosCallback) *Builder {
	b.onMove = fn
	return b
}

// OnClose sets the window close callback.
func (b *Builder) OnClose(fn backend.CloseCallback) *Builder {
	b.onClose = fn
	return b
}

// OnKey sets the keyboard callback.
func (b *Builder) OnKey(fn backend.KeyCallback) *Builder {
	b.onKey = fn
	return b
}

// OnMouseButton sets the mouse button callback.
func (b *Builder) OnMouseButton(fn backend.MouseButtonCallback) *Builder {
	b.onMouseButton = fn
	return b
}

// OnCursorMove sets the cursor position callback.
func (b *Builder) OnCursorMove(fn backend.CursorPosCallback) *Builder {
	b.onCursorMove = fn
	return b
}

// OnScroll sets the scroll callback.
func (b *Builder) OnScroll(fn backend.ScrollCallback) *Builder {
	b.onScroll = fn
	return b
}

// Build creates the window, spawns the render goroutine and blocks
// until it has finished one-time initialization; only then does the
// window become visible. The returned App's Run method drives the
// control loop.
//
// Building while another instance's window is registered fails with
// already_exists and leaves the first instance untouched. Setup
// failures are unrecoverable by design; use MustBuild where the
// process should terminate on them.
func (b *Builder) Build() (*App, error) {
	SetGoroutineName("control")
	s := registry.Default()

	if s.Exists(KeyWindow) {
		applog.Errorf(ownerBuilder, "an app instance already exists")
		return nil, errors.AlreadyExists(errors.PhaseBuild, KeyWindow)
	}

	applog.Debugf(ownerBuilder, "creating window %dx%d %q", b.width, b.height, b.title)
	win, err := backend.New(b.backendName, backend.Config{
		Width:  b.width,
		Height: b.height,
		Title:  b.title,
	})
	if err != nil {
		return nil, err
	}

	if err := registry.Register[backend.Window](s, KeyWindow, win); err != nil {
		win.Destroy()
		return nil, err
	}

	applog.Debugf(ownerBuilder, "installing callbacks")
	b.installShims(s)

	applog.Debugf(ownerBuilder, "starting render goroutine")
	renderInit := b.renderInit
	renderFrame := b.renderFrame
	ready := make(chan struct{})
	exit := make(chan struct{})
	go renderLoop(s, renderInit, renderFrame, ready, exit)

	// Startup handshake: the window must not become visible, and the
	// caller must not proceed, until render init has completed.
	<-ready
	applog.Debugf(ownerBuilder, "showing window")
	registry.WithMutate(s, KeyWindow, func(w *backend.Window) struct{} {
		(*w).Show()
		return struct{}{}
	})

	return &App{
		store:     s,
		win:       win,
		eventInit: b.eventInit,
		eventTick: b.eventTick,
		exit:      exit,
	}, nil
}

// MustBuild is Build for call sites where a setup failure should
// terminate the process: a duplicate instance or a failed window
// creation leaves no consistent state to continue from.
func (b *Builder) MustBuild() *App {
	a, err := b.Build()
	if err != nil {
		panic(err)
	}
	return a
}

// installShims installs one forwarding shim per event kind. A shim
// invokes the user hook when one was set; the indirection keeps the
// backend's single callback slot decoupled from hook presence.
func (b *Builder) installShims(s *registry.Store) {
	onResize := b.onResize
	onMove := b.onMove
	onClose := b.onClose
	onKey := b.onKey
	onMouseButton := b.onMouseButton
	onCursorMove := b.onCursorMove
	onScroll := b.onScroll

	registry.WithMutate(s, KeyWindow, func(wp *backend.Window) struct{} {
		w := *wp
		w.SetSizeCallback(func(width, height int) {
			if onResize != nil {
				onResize(width, height)
			}
		})
		w.SetPosCallback(func(x, y int) {
			if onMove != nil {
				onMove(x, y)
			}
		})
		w.SetCloseCallback(func() {
			if onClose != nil {
				onClose()
			}
		})
		w.SetKeyCallback(func(key backend.Key, scancode int, action backend.Action, mods backend.Mods) {
			if onKey != nil {
				onKey(key, scancode, action, mods)
			}
		})
		w.SetMouseButtonCallback(func(button backend.MouseButton, action backend.Action, mods backend.Mods) {
			if onMouseButton != nil {
				onMouseButton(button, action, mods)
			}
		})
		w.SetCursorPosCallback(func(x, y float64) {
			if onCursorMove != nil {
				onCursorMove(x, y)
			}
		})
		w.SetScrollCallback(func(x, y float64) {
			if onScroll != nil {
				onScroll(x, y)
			}
		})
		return struct{}{}
	})
}

// renderLoop owns the drawing context for its lifetime. It signals
// ready exactly once, after one-time init, and closes exit exactly
// once, after its final iteration.
func renderLoop(s *registry.Store, renderInit, renderFrame func(), ready, exit chan struct{}) {
	SetGoroutineName("render")

	registry.WithMutate(s, KeyWindow, func(w *backend.Window) struct{} {
		if err := (*w).MakeContextCurrent(); err != nil {
			applog.Errorf(ownerRender, "make context current: %v", err)
		}
		return struct{}{}
	})

	if renderInit != nil {
		renderInit()
	}
	close(ready)

	last := time.Now()
	for {
		open, ok := registry.WithRead(s, KeyWindow, func(w *backend.Window) bool {
			return !(*w).ShouldClose()
		})
		if !ok || !open {
			break
		}

		now := time.Now()
		dt := now.Sub(last)
		last = now

		stall := registry.GetOr(s, KeyStallThreshold, DefaultStallThreshold)
		if dt > stall {
			applog.Warnf(ownerRender, "frame took %.2fms, threshold %.2fms",
				durationMillis(dt), durationMillis(stall))
		}
		registry.Put(s, KeyRenderDuration, dt)

		// Track live window resizes without a restart.
		registry.WithMutate(s, KeyWindow, func(w *backend.Window) struct{} {
			width, height := (*w).Size()
			(*w).ResizeViewport(width, height)
			return struct{}{}
		})

		if renderFrame != nil {
			renderFrame()
		}

		registry.WithMutate(s, KeyWindow, func(w *backend.Window) struct{} {
			(*w).SwapBuffers()
			return struct{}{}
		})
	}

	applog.Debugf(ownerRender, "render loop exited")
	close(exit)
}

func durationMillis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
