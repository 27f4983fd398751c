package term

import (
	"image"
	"image/draw"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/term"

	"github.com/corekit/appcore/applog"
	"github.com/corekit/appcore/backend"
)

const owner = "term.Window"

func init() {
	backend.Register(backend.BackendTerm, func(cfg backend.Config) (backend.Window, error) {
		return NewWindow(cfg), nil
	})
}

// Window renders into the terminal's alternate screen through a
// bubbletea program. One character cell carries two vertically stacked
// pixels (the upper-half-block trick), so the pixel surface is
// columns × 2·rows.
type Window struct {
	mu          sync.Mutex
	title       string
	cols        int
	rows        int
	canvas      *image.RGBA
	frame       string
	visible     bool
	shouldClose bool
	destroyed   bool
	cursorMode  backend.CursorMode
	pressed     map[backend.Key]bool

	program *tea.Program
	events  chan tea.Msg
	done    chan struct{}

	sizeCb   backend.SizeCallback
	posCb    backend.PosCallback
	closeCb  backend.CloseCallback
	keyCb    backend.KeyCallback
	mouseCb  backend.MouseButtonCallback
	cursorCb backend.CursorPosCallback
	scrollCb backend.ScrollCallback
}

// NewWindow creates a terminal window. The terminal's real size wins
// over cfg when stdout is a tty; otherwise cfg.Width/Height are taken
// as pixel dimensions.
func NewWindow(cfg backend.Config) *Window {
	cols, rows := cfg.Width, (cfg.Height+1)/2
	if fd := int(os.Stdout.Fd()); term.IsTerminal(fd) {
		if c, r, err := term.GetSize(fd); err == nil {
			cols, rows = c, r
		}
	}
	w := &Window{
		title:   cfg.Title,
		cols:    cols,
		rows:    rows,
		canvas:  image.NewRGBA(image.Rect(0, 0, cols, rows*2)),
		pressed: make(map[backend.Key]bool),
		events:  make(chan tea.Msg, 256),
		done:    make(chan struct{}),
	}
	if cfg.Visible {
		w.Show()
	}
	return w
}

// Show starts the bubbletea program on an internal goroutine. The
// program owns the terminal until Destroy.
func (w *Window) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.visible || w.destroyed {
		return
	}
	w.visible = true
	w.program = tea.NewProgram(
		&model{win: w},
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)
	go func() {
		if _, err := w.program.Run(); err != nil {
			applog.Errorf(owner, "terminal program: %v", err)
		}
		close(w.done)
	}()
}

// Hide is unsupported: the alternate screen has no hidden state worth
// modeling. The call is recorded at debug level and ignored.
func (w *Window) Hide() {
	applog.Debugf(owner, "Hide ignored for terminal windows")
}

// Size returns the pixel surface size (columns, 2·rows).
func (w *Window) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cols, w.rows * 2
}

// SetSize is unsupported: the terminal emulator owns its geometry.
func (w *Window) SetSize(width, height int) {
	applog.Debugf(owner, "SetSize ignored for terminal windows")
}

// Pos always reports the origin; terminals do not expose placement.
func (w *Window) Pos() (int, int) { return 0, 0 }

// SetPos is unsupported, as with SetSize.
func (w *Window) SetPos(x, y int) {
	applog.Debugf(owner, "SetPos ignored for terminal windows")
}

func (w *Window) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldClose
}

func (w *Window) SetShouldClose(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shouldClose = v
}

func (w *Window) SetCursorMode(mode backend.CursorMode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorMode = mode
}

// GetKey reports whether the key was seen since the previous poll.
// Terminals deliver no key-up events, so held state is best effort.
func (w *Window) GetKey(key backend.Key) backend.Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.pressed[key] {
		return backend.Press
	}
	return backend.Release
}

// MakeContextCurrent is a no-op: the surface is plain memory and any
// goroutine may draw into it, though the runtime confines drawing to
// the render loop regardless.
func (w *Window) MakeContextCurrent() error { return nil }

// ResizeViewport reallocates the pixel surface when the size changed.
func (w *Window) ResizeViewport(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	b := w.canvas.Bounds()
	if b.Dx() == width && b.Dy() == height {
		return
	}
	w.canvas = image.NewRGBA(image.Rect(0, 0, width, height))
}

// Canvas returns the pixel surface the next SwapBuffers will present.
func (w *Window) Canvas() *image.RGBA {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.canvas
}

// SetFrame copies img onto the pixel surface, clipped to it.
func (w *Window) SetFrame(img image.Image) {
	w.mu.Lock()
	defer w.mu.Unlock()
	draw.Draw(w.canvas, w.canvas.Bounds(), img, img.Bounds().Min, draw.Src)
}

// SwapBuffers encodes the pixel surface into styled half-block cells
// and hands the frame to the terminal program.
func (w *Window) SwapBuffers() {
	w.mu.Lock()
	frame := encodeFrame(w.canvas)
	w.frame = frame
	p := w.program
	w.mu.Unlock()

	if p != nil {
		p.Send(redrawMsg{})
	}
}

// PollEvents drains the terminal event queue and dispatches callbacks
// synchronously on the calling goroutine.
func (w *Window) PollEvents() {
	w.mu.Lock()
	for k := range w.pressed {
		delete(w.pressed, k)
	}
	sizeCb, closeCb := w.sizeCb, w.closeCb
	keyCb, mouseCb, cursorCb, scrollCb := w.keyCb, w.mouseCb, w.cursorCb, w.scrollCb
	w.mu.Unlock()

	for {
		select {
		case msg := <-w.events:
			w.dispatch(msg, sizeCb, closeCb, keyCb, mouseCb, cursorCb, scrollCb)
		default:
			return
		}
	}
}

func (w *Window) dispatch(msg tea.Msg,
	sizeCb backend.SizeCallback, closeCb backend.CloseCallback,
	keyCb backend.KeyCallback, mouseCb backend.MouseButtonCallback,
	cursorCb backend.CursorPosCallback, scrollCb backend.ScrollCallback,
) {
	switch m := msg.(type) {
	case tea.KeyMsg:
		if isQuitKey(m) {
			if closeCb != nil {
				closeCb()
			}
			w.SetShouldClose(true)
			return
		}
		key, mods := mapKey(m)
		if key == backend.KeyUnknown {
			return
		}
		w.mu.Lock()
		w.pressed[key] = true
		w.mu.Unlock()
		if keyCb != nil {
			keyCb(key, int(key), backend.Press, mods)
		}

	case tea.MouseMsg:
		mods := mapMouseMods(m)
		switch {
		case m.Button == tea.MouseButtonWheelUp:
			if scrollCb != nil {
				scrollCb(0, 1)
			}
		case m.Button == tea.MouseButtonWheelDown:
			if scrollCb != nil {
				scrollCb(0, -1)
			}
		case m.Action == tea.MouseActionMotion:
			if cursorCb != nil {
				cursorCb(float64(m.X), float64(m.Y*2))
			}
		case m.Action == tea.MouseActionPress || m.Action == tea.MouseActionRelease:
			button, ok := mapMouseButton(m.Button)
			if !ok {
				return
			}
			action := backend.Press
			if m.Action == tea.MouseActionRelease {
				action = backend.Release
			}
			if mouseCb != nil {
				mouseCb(button, action, mods)
			}
		}

	case tea.WindowSizeMsg:
		w.mu.Lock()
		w.cols, w.rows = m.Width, m.Height
		w.mu.Unlock()
		if sizeCb != nil {
			sizeCb(m.Width, m.Height*2)
		}
	}
}

func (w *Window) SetSizeCallback(cb backend.SizeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sizeCb = cb
}

func (w *Window) SetPosCallback(cb backend.PosCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.posCb = cb
}

func (w *Window) SetCloseCallback(cb backend.CloseCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeCb = cb
}

func (w *Window) SetKeyCallback(cb backend.KeyCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.keyCb = cb
}

func (w *Window) SetMouseButtonCallback(cb backend.MouseButtonCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mouseCb = cb
}

func (w *Window) SetCursorPosCallback(cb backend.CursorPosCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorCb = cb
}

func (w *Window) SetScrollCallback(cb backend.ScrollCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrollCb = cb
}

// Destroy stops the terminal program and waits briefly for it to
// restore the screen.
func (w *Window) Destroy() {
	w.mu.Lock()
	if w.destroyed {
		w.mu.Unlock()
		return
	}
	w.destroyed = true
	p := w.program
	started := w.visible
	w.mu.Unlock()

	if p != nil {
		p.Quit()
	}
	if started {
		select {
		case <-w.done:
		case <-time.After(time.Second):
			applog.Warnf(owner, "terminal program did not stop in time")
		}
	}
}
