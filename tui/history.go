// Package tui provides a Bubble Tea terminal UI over a game session.
package tui

// History keeps submitted commands, oldest first, and a cursor for
// Up/Down navigation.
type History struct {
	entries []string
	limit   int
	cursor  int // len(entries) when not navigating
}

// NewHistory creates a history that keeps at most limit commands.
func NewHistory(limit int) *History {
	return &History{entries: make([]string, 0, limit), limit: limit}
}

// Push records a command. Repeating the latest command is a no-op.
func (h *History) Push(cmd string) {
	if n := len(h.entries); n == 0 || h.entries[n-1] != cmd {
		h.entries = append(h.entries, cmd)
		if len(h.entries) > h.limit {
			h.entries = h.entries[len(h.entries)-h.limit:]
		}
	}
	h.ResetCursor()
}

// Prev steps back to an older command, stopping at the oldest.
func (h *History) Prev() (string, bool) {
	if len(h.entries) == 0 {
		return "", false
	}
	if h.cursor > 0 {
		h.cursor--
	}
	return h.entries[h.cursor], true
}

// Next steps toward the newest command. Stepping past it returns false
// and leaves navigation.
func (h *History) Next() (string, bool) {
	if h.cursor >= len(h.entries) {
		return "", false
	}
	h.cursor++
	if h.cursor == len(h.entries) {
		return "", false
	}
	return h.entries[h.cursor], true
}

// ResetCursor leaves navigation mode.
func (h *History) ResetCursor() {
	h.cursor = len(h.entries)
}

// Len reports how many commands are kept.
func (h *History) Len() int {
	return len(h.entries)
}
