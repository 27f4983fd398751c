// Package term implements a windowing backend on top of the terminal.
//
// The "window" is the terminal's alternate screen, driven by a
// bubbletea program on an internal goroutine. Pixels are presented as
// upper half blocks, packing two rows of the RGBA surface into each
// character cell. Keyboard, mouse and resize input flows from the
// program into a queue that PollEvents drains on the runtime's event
// goroutine, so callbacks keep the synchronous dispatch contract of
// the backend package. Ctrl+C is bound as the window-close chord.
//
// The backend registers itself under backend.BackendTerm and is the
// preferred default when it is importable.
package term
