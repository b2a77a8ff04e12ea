package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// toastLifetime is how long a toast stays on screen before expiring on its
// own.
const toastLifetime = 4 * time.Second

type toastLevel int

const (
	toastSuccess toastLevel = iota
	toastError
)

type toast struct {
	id    int
	text  string
	level toastLevel
}

type toastExpiredMsg struct {
	id int
}

// toastStack holds the visible toasts, newest last.
type toastStack struct {
	nextID int
	toasts []toast
}

// push adds a toast and returns the command that expires it.
func (t *toastStack) push(text string, level toastLevel) tea.Cmd {
	t.nextID++
	id := t.nextID
	t.toasts = append(t.toasts, toast{id: id, text: text, level: level})

	return tea.Tick(toastLifetime, func(time.Time) tea.Msg {
		return toastExpiredMsg{id: id}
	})
}

// expire removes the toast with the given id, if still visible.
func (t *toastStack) expire(id int) {
	for i, toast := range t.toasts {
		if toast.id == id {
			t.toasts = append(t.toasts[:i], t.toasts[i+1:]...)
			return
		}
	}
}

// dismiss removes the oldest visible toast.
func (t *toastStack) dismiss() {
	if len(t.toasts) > 0 {
		t.toasts = t.toasts[1:]
	}
}

func (t *toastStack) view() string {
	if len(t.toasts) == 0 {
		return ""
	}

	lines := make([]string, 0, len(t.toasts))
	for _, toast := range t.toasts {
		style := successToastStyle
		if toast.level == toastError {
			style = errorToastStyle
		}
		lines = append(lines, style.Render(toast.text))
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
