package tui

import (
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"

	"dataroom/internal/config"
)

// searchDebounceDelay is how long input must settle before a search fires.
const searchDebounceDelay = 300 * time.Millisecond

// searchDebounceMsg marks the end of one debounce window. Only the message
// carrying the latest generation triggers a search; earlier ones are stale.
type searchDebounceMsg struct {
	gen   int
	query string
}

// debouncer coalesces a burst of keystrokes into a single search trigger.
type debouncer struct {
	gen int
}

// input registers a new query value. It returns a delayed command when the
// query is long enough, and nil (plus an incremented generation, invalidating
// any pending window) when it is not.
func (d *debouncer) input(query string) tea.Cmd {
	d.gen++
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < config.MinSearchQueryLength {
		return nil
	}

	gen := d.gen
	return tea.Tick(searchDebounceDelay, func(time.Time) tea.Msg {
		return searchDebounceMsg{gen: gen, query: query}
	})
}

// settled reports whether a generation is still the latest one.
func (d *debouncer) settled(gen int) bool {
	return gen == d.gen
}
