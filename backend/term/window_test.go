package term

import (
	"image"
	"image/color"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/corekit/appcore/backend"
)

func testWindow(t *testing.T) *Window {
	t.Helper()
	w := NewWindow(backend.Config{Width: 8, Height: 4, Title: "test"})
	t.Cleanup(w.Destroy)
	return w
}

func TestMapKey(t *testing.T) {
	tests := []struct {
		name string
		msg  tea.KeyMsg
		key  backend.Key
		mods backend.Mods
	}{
		{"lowercase letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'w'}}, backend.KeyW, 0},
		{"uppercase letter", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'W'}}, backend.KeyW, backend.ModShift},
		{"digit", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'9'}}, backend.Key9, 0},
		{"space rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}, backend.KeySpace, 0},
		{"escape", tea.KeyMsg{Type: tea.KeyEscape}, backend.KeyEscape, 0},
		{"enter", tea.KeyMsg{Type: tea.KeyEnter}, backend.KeyEnter, 0},
		{"arrow up", tea.KeyMsg{Type: tea.KeyUp}, backend.KeyUp, 0},
		{"alt modifier", tea.KeyMsg{Type: tea.KeyLeft, Alt: true}, backend.KeyLeft, backend.ModAlt},
		{"unmapped rune", tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'€'}}, backend.KeyUnknown, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, mods := mapKey(tt.msg)
			if key != tt.key {
				t.Errorf("key = %d, want %d", key, tt.key)
			}
			if mods != tt.mods {
				t.Errorf("mods = %v, want %v", mods, tt.mods)
			}
		})
	}
}

func TestMapMouseButton(t *testing.T) {
	if b, ok := mapMouseButton(tea.MouseButtonLeft); !ok || b != backend.MouseLeft {
		t.Errorf("left = (%d, %v)", b, ok)
	}
	if _, ok := mapMouseButton(tea.MouseButtonWheelUp); ok {
		t.Error("wheel should not map to a button")
	}
}

func TestEncodeFrame(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 0xff, A: 0xff})
	img.Set(0, 1, color.RGBA{B: 0xff, A: 0xff})

	frame := encodeFrame(img)
	if !strings.Contains(frame, upperHalfBlock) {
		t.Fatal("frame has no half-block cells")
	}
	if got := strings.Count(frame, upperHalfBlock); got != 2 {
		t.Errorf("cell count = %d, want 2", got)
	}
	if strings.Contains(frame, "\n") {
		t.Error("single-row frame should have no newline")
	}
}

func TestEncodeFrame_RowsSeparatedByNewlines(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 3, 4))
	frame := encodeFrame(img)
	if got := strings.Count(frame, "\n"); got != 1 {
		t.Errorf("newlines = %d, want 1", got)
	}
}

func TestEncodeFrame_Empty(t *testing.T) {
	if frame := encodeFrame(image.NewRGBA(image.Rect(0, 0, 0, 0))); frame != "" {
		t.Errorf("empty surface produced %q", frame)
	}
}

func TestResizeViewport(t *testing.T) {
	w := testWindow(t)
	w.ResizeViewport(4, 6)
	if b := w.Canvas().Bounds(); b.Dx() != 4 || b.Dy() != 6 {
		t.Errorf("canvas = %dx%d, want 4x6", b.Dx(), b.Dy())
	}
	// Same size must keep the surface.
	before := w.Canvas()
	w.ResizeViewport(4, 6)
	if w.Canvas() != before {
		t.Error("resize to the same size reallocated the surface")
	}
}

func TestSetFrame(t *testing.T) {
	w := testWindow(t)
	src := image.NewRGBA(image.Rect(0, 0, 8, 4))
	src.Set(1, 1, color.RGBA{G: 0xff, A: 0xff})
	w.SetFrame(src)
	if got := w.Canvas().RGBAAt(1, 1); got.G != 0xff {
		t.Errorf("pixel not copied: %v", got)
	}
}

func TestPollEvents_DispatchesQueuedInput(t *testing.T) {
	w := testWindow(t)

	var gotKey backend.Key
	var gotX, gotY float64
	var resized [2]int
	w.SetKeyCallback(func(key backend.Key, _ int, _ backend.Action, _ backend.Mods) {
		gotKey = key
	})
	w.SetCursorPosCallback(func(x, y float64) { gotX, gotY = x, y })
	w.SetSizeCallback(func(width, height int) { resized = [2]int{width, height} })

	w.events <- tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'a'}}
	w.events <- tea.MouseMsg{X: 3, Y: 5, Action: tea.MouseActionMotion}
	w.events <- tea.WindowSizeMsg{Width: 10, Height: 7}
	w.PollEvents()

	if gotKey != backend.KeyA {
		t.Errorf("key = %d, want %d", gotKey, backend.KeyA)
	}
	if gotX != 3 || gotY != 10 {
		t.Errorf("cursor = (%v, %v), want (3, 10)", gotX, gotY)
	}
	if resized != [2]int{10, 14} {
		t.Errorf("resize = %v, want [10 14]", resized)
	}
	if w.GetKey(backend.KeyA) != backend.Press {
		t.Error("key not held after poll")
	}

	// The held state lasts one poll.
	w.PollEvents()
	if w.GetKey(backend.KeyA) != backend.Release {
		t.Error("key still held after a quiet poll")
	}
}

func TestPollEvents_QuitChordClosesWindow(t *testing.T) {
	w := testWindow(t)
	closed := false
	w.SetCloseCallback(func() { closed = true })

	w.events <- tea.KeyMsg{Type: tea.KeyCtrlC}
	w.PollEvents()

	if !closed {
		t.Error("close callback not invoked")
	}
	if !w.ShouldClose() {
		t.Error("should-close not set")
	}
}

func TestPollEvents_WheelScroll(t *testing.T) {
	w := testWindow(t)
	var yoff float64
	w.SetScrollCallback(func(_, y float64) { yoff += y })

	w.events <- tea.MouseMsg{Button: tea.MouseButtonWheelUp, Action: tea.MouseActionPress}
	w.events <- tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}
	w.events <- tea.MouseMsg{Button: tea.MouseButtonWheelDown, Action: tea.MouseActionPress}
	w.PollEvents()

	if yoff != -1 {
		t.Errorf("net scroll = %v, want -1", yoff)
	}
}

func TestRegisteredAsTerm(t *testing.T) {
	if !backend.IsRegistered(backend.BackendTerm) {
		t.Fatal("term backend not registered")
	}
}
