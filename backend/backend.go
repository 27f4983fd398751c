package backend

// Config describes the window a backend should create.
type Config struct {
	Width   int
	Height  int
	Title   string
	Visible bool
}

// CursorMode controls cursor behavior inside the window.
type CursorMode int

const (
	// CursorNormal shows the cursor and lets it leave the window.
	CursorNormal CursorMode = iota
	// CursorHidden hides the cursor while it is over the window.
	CursorHidden
	// CursorDisabled hides the cursor and confines it to the window.
	CursorDisabled
)

// Action is the state change reported for a key or button.
type Action int

const (
	Release Action = iota
	Press
	Repeat
)

// Mods is a bitmask of modifier keys held during an event.
type Mods int

const (
	ModShift Mods = 1 << iota
	ModControl
	ModAlt
	ModSuper
)

// Key identifies a keyboard key. Printable keys use their ASCII
// uppercase value; function keys start at 256.
type Key int

const (
	KeyUnknown Key = 0
	KeySpace   Key = 32
	Key0       Key = 48
	Key9       Key = 57
	KeyA       Key = 65
	KeyW       Key = 87
	KeyZ       Key = 90
)

const (
	KeyEscape Key = iota + 256
	KeyEnter
	KeyTab
	KeyBackspace
	KeyRight
	KeyLeft
	KeyDown
	KeyUp
)

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// Callback signatures. Each window holds at most one callback per
// event kind; setting a callback replaces the previous one.
type (
	SizeCallback        func(width, height int)
	PosCallback         func(x, y int)
	CloseCallback       func()
	KeyCallback         func(key Key, scancode int, action Action, mods Mods)
	MouseButtonCallback func(button MouseButton, action Action, mods Mods)
	CursorPosCallback   func(x, y float64)
	ScrollCallback      func(xoff, yoff float64)
)

// Window is the windowing/input surface the runtime orchestrates. The
// runtime never inspects what a frame contains; it only sequences
// context ownership, viewport sizing, event polling and presentation.
//
// PollEvents dispatches the installed callbacks synchronously on the
// calling goroutine. MakeContextCurrent binds the drawing context to
// the calling goroutine; a context may be current on at most one
// goroutine at a time.
type Window interface {
	Show()
	Hide()

	Size() (width, height int)
	SetSize(width, height int)
	Pos() (x, y int)
	SetPos(x, y int)

	ShouldClose() bool
	SetShouldClose(v bool)

	SetCursorMode(mode CursorMode)
	GetKey(key Key) Action

	MakeContextCurrent() error
	ResizeViewport(width, height int)
	SwapBuffers()
	PollEvents()

	SetSizeCallback(SizeCallback)
	SetPosCallback(PosCallback)
	SetCloseCallback(CloseCallback)
	SetKeyCallback(KeyCallback)
	SetMouseButtonCallback(MouseButtonCallback)
	SetCursorPosCallback(CursorPosCallback)
	SetScrollCallback(ScrollCallback)

	// Destroy releases the window. The window must not be used
	// afterwards.
	Destroy()
}
