package term

import (
	"unicode"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/corekit/appcore/backend"
)

// redrawMsg asks the program to repaint with the latest frame.
type redrawMsg struct{}

var quitBinding = key.NewBinding(key.WithKeys("ctrl+c"))

func isQuitKey(msg tea.KeyMsg) bool {
	return key.Matches(msg, quitBinding)
}

// model bridges the bubbletea event loop and the window. It holds no
// state of its own: input is forwarded to the window's event queue and
// View repaints whatever SwapBuffers last encoded.
type model struct {
	win *Window
}

func (m *model) Init() tea.Cmd { return nil }

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case redrawMsg:
		return m, nil
	case tea.KeyMsg, tea.MouseMsg, tea.WindowSizeMsg:
		select {
		case m.win.events <- msg:
		default:
			// Queue full; the consumer is stalled and a dropped
			// event is preferable to blocking the terminal loop.
		}
	}
	return m, nil
}

func (m *model) View() string {
	m.win.mu.Lock()
	defer m.win.mu.Unlock()
	return m.win.frame
}

// mapKey translates a terminal key message into the backend's key
// space. Keys with no counterpart map to KeyUnknown.
func mapKey(msg tea.KeyMsg) (backend.Key, backend.Mods) {
	var mods backend.Mods
	if msg.Alt {
		mods |= backend.ModAlt
	}
	switch msg.Type {
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return backend.KeyUnknown, mods
		}
		r := msg.Runes[0]
		if r == ' ' {
			return backend.KeySpace, mods
		}
		if unicode.IsUpper(r) {
			mods |= backend.ModShift
		}
		r = unicode.ToUpper(r)
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			return backend.Key(r), mods
		}
		return backend.KeyUnknown, mods
	case tea.KeySpace:
		return backend.KeySpace, mods
	case tea.KeyEscape:
		return backend.KeyEscape, mods
	case tea.KeyEnter:
		return backend.KeyEnter, mods
	case tea.KeyTab:
		return backend.KeyTab, mods
	case tea.KeyBackspace:
		return backend.KeyBackspace, mods
	case tea.KeyRight:
		return backend.KeyRight, mods
	case tea.KeyLeft:
		return backend.KeyLeft, mods
	case tea.KeyDown:
		return backend.KeyDown, mods
	case tea.KeyUp:
		return backend.KeyUp, mods
	}
	return backend.KeyUnknown, mods
}

func mapMouseButton(b tea.MouseButton) (backend.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return backend.MouseLeft, true
	case tea.MouseButtonRight:
		return backend.MouseRight, true
	case tea.MouseButtonMiddle:
		return backend.MouseMiddle, true
	}
	return 0, false
}

func mapMouseMods(m tea.MouseMsg) backend.Mods {
	var mods backend.Mods
	if m.Shift {
		mods |= backend.ModShift
	}
	if m.Ctrl {
		mods |= backend.ModControl
	}
	if m.Alt {
		mods |= backend.ModAlt
	}
	return mods
}
