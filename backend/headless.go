package backend

import (
	"sync"
	"time"
)

func init() {
	Register(BackendHeadless, func(cfg Config) (Window, error) {
		return NewHeadless(cfg), nil
	})
}

// event is one queued synthetic input event awaiting dispatch.
type event struct {
	kind       eventKind
	key        Key
	action     Action
	mods       Mods
	button     MouseButton
	x, y       float64
	w, h, px   int
	py         int
}

type eventKind int

const (
	evKey eventKind = iota
	evMouseButton
	evCursorPos
	evScroll
	evResize
	evMove
	evClose
)

// Headless is an in-memory window with no display attached. It backs
// tests and CI runs: input is injected programmatically and dispatched
// by PollEvents exactly like a real backend would, and presentation
// side effects (show time, viewport, swap count) are recorded for
// assertions.
type Headless struct {
	mu          sync.Mutex
	width       int
	height      int
	x, y        int
	title       string
	visible     bool
	shownAt     time.Time
	shouldClose bool
	cursorMode  CursorMode
	viewportW   int
	viewportH   int
	swapCount   int
	destroyed   bool
	keys        map[Key]Action
	queue       []event

	sizeCb   SizeCallback
	posCb    PosCallback
	closeCb  CloseCallback
	keyCb    KeyCallback
	mouseCb  MouseButtonCallback
	cursorCb CursorPosCallback
	scrollCb ScrollCallback
}

// NewHeadless creates a headless window from cfg.
func NewHeadless(cfg Config) *Headless {
	w := &Headless{
		width:  cfg.Width,
		height: cfg.Height,
		title:  cfg.Title,
		keys:   make(map[Key]Action),
	}
	if cfg.Visible {
		w.Show()
	}
	return w
}

func (w *Headless) Show() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.visible {
		w.visible = true
		w.shownAt = time.Now()
	}
}

func (w *Headless) Hide() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.visible = false
}

// Visible reports whether the window has been shown.
func (w *Headless) Visible() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.visible
}

// ShownAt returns when the window first became visible.
func (w *Headless) ShownAt() time.Time {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shownAt
}

func (w *Headless) Size() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.width, w.height
}

func (w *Headless) SetSize(width, height int) {
	w.mu.Lock()
	w.width = width
	w.height = height
	w.queue = append(w.queue, event{kind: evResize, w: width, h: height})
	w.mu.Unlock()
}

func (w *Headless) Pos() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.x, w.y
}

func (w *Headless) SetPos(x, y int) {
	w.mu.Lock()
	w.x = x
	w.y = y
	w.queue = append(w.queue, event{kind: evMove, px: x, py: y})
	w.mu.Unlock()
}

func (w *Headless) ShouldClose() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.shouldClose
}

func (w *Headless) SetShouldClose(v bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shouldClose = v
}

func (w *Headless) SetCursorMode(mode CursorMode) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorMode = mode
}

// CursorModeState returns the current cursor mode.
func (w *Headless) CursorModeState() CursorMode {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.cursorMode
}

func (w *Headless) GetKey(key Key) Action {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.keys[key]
}

// MakeContextCurrent is a no-op: there is no drawing context.
func (w *Headless) MakeContextCurrent() error { return nil }

func (w *Headless) ResizeViewport(width, height int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.viewportW = width
	w.viewportH = height
}

// Viewport returns the last viewport set by the render loop.
func (w *Headless) Viewport() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.viewportW, w.viewportH
}

func (w *Headless) SwapBuffers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.swapCount++
}

// SwapCount returns how many frames have been presented.
func (w *Headless) SwapCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.swapCount
}

// PollEvents dispatches queued events synchronously on the calling
// goroutine. Callbacks run outside the window's lock so they may call
// back into the window.
func (w *Headless) PollEvents() {
	w.mu.Lock()
	pending := w.queue
	w.queue = nil
	sizeCb, posCb, closeCb := w.sizeCb, w.posCb, w.closeCb
	keyCb, mouseCb, cursorCb, scrollCb := w.keyCb, w.mouseCb, w.cursorCb, w.scrollCb
	w.mu.Unlock()

	for _, e := range pending {
		switch e.kind {
		case evKey:
			if keyCb != nil {
				keyCb(e.key, int(e.key), e.action, e.mods)
			}
		case evMouseButton:
			if mouseCb != nil {
				mouseCb(e.button, e.action, e.mods)
			}
		case evCursorPos:
			if cursorCb != nil {
				cursorCb(e.x, e.y)
			}
		case evScroll:
			if scrollCb != nil {
				scrollCb(e.x, e.y)
			}
		case evResize:
			if sizeCb != nil {
				sizeCb(e.w, e.h)
			}
		case evMove:
			if posCb != nil {
				posCb(e.px, e.py)
			}
		case evClose:
			if closeCb != nil {
				closeCb()
			}
		}
	}
}

func (w *Headless) SetSizeCallback(cb SizeCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.sizeCb = cb
}

func (w *Headless) SetPosCallback(cb PosCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.posCb = cb
}

func (w *Headless) SetCloseCallback(cb CloseCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closeCb = cb
}

func (w *Headless) SetKeyCallback(cb KeyCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.keyCb = cb
}

func (w *Headless) SetMouseButtonCallback(cb MouseButtonCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.mouseCb = cb
}

func (w *Headless) SetCursorPosCallback(cb CursorPosCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.cursorCb = cb
}

func (w *Headless) SetScrollCallback(cb ScrollCallback) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.scrollCb = cb
}

func (w *Headless) Destroy() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.destroyed = true
	w.visible = false
}

// Destroyed reports whether Destroy has been called.
func (w *Headless) Destroyed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.destroyed
}

// InjectKey queues a key event and updates the held-key state.
func (w *Headless) InjectKey(key Key, action Action, mods Mods) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if action == Release {
		delete(w.keys, key)
	} else {
		w.keys[key] = action
	}
	w.queue = append(w.queue, event{kind: evKey, key: key, action: action, mods: mods})
}

// InjectMouseButton queues a mouse button event.
func (w *Headless) InjectMouseButton(button MouseButton, action Action, mods Mods) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, event{kind: evMouseButton, button: button, action: action, mods: mods})
}

// InjectCursorPos queues a cursor movement event.
func (w *Headless) InjectCursorPos(x, y float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, event{kind: evCursorPos, x: x, y: y})
}

// InjectScroll queues a scroll event.
func (w *Headless) InjectScroll(xoff, yoff float64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.queue = append(w.queue, event{kind: evScroll, x: xoff, y: yoff})
}

// InjectClose queues a close event and flips the should-close flag,
// the way a window manager close button would.
func (w *Headless) InjectClose() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.shouldClose = true
	w.queue = append(w.queue, event{kind: evClose})
}
