package rip8

// DefaultHistorySize is the number of snapshots kept when no capacity is given
const DefaultHistorySize = 5

// History is a bounded record of machine states used to rewind the emulation.
// It is a ring buffer: once full, capturing a state forgets the oldest one.
type History struct {
	// circular array of snapshots
	entries []*State
	// index of the oldest entry
	start int
	count int
}

// NewHistory is the preferred method of initialisation for the History type.
// A capacity below 1 falls back to DefaultHistorySize.
func NewHistory(capacity int) *History {
	if capacity < 1 {
		capacity = DefaultHistorySize
	}

	return &History{
		entries: make([]*State, capacity),
	}
}

func (h *History) Len() int {
	return h.count
}

func (h *History) Cap() int {
	return len(h.entries)
}

// Clear forgets every snapshot
func (h *History) Clear() {
	for i := range h.entries {
		h.entries[i] = nil
	}
	h.start = 0
	h.count = 0
}

// Capture stores a copy of state. Keys are released in the copy so that a key
// held while capturing is not held after a rewind.
func (h *History) Capture(state *State) {
	s := state.Clone()
	s.Keys = KeyboardState{}

	if h.count == len(h.entries) {
		h.entries[h.start] = nil
		h.start = (h.start + 1) % len(h.entries)
		h.count--
	}

	h.entries[(h.start+h.count)%len(h.entries)] = s
	h.count++
}

// RestorePrevious removes and returns the most recent snapshot.
// The last remaining snapshot is never removed: a copy of it is returned
// instead, so that rewinding can be repeated indefinitely.
func (h *History) RestorePrevious() (*State, error) {
	if h.count == 0 {
		return nil, ErrHistoryEmpty
	}

	newest := (h.start + h.count - 1) % len(h.entries)
	if h.count == 1 {
		return h.entries[newest].Clone(), nil
	}

	s := h.entries[newest]
	h.entries[newest] = nil
	h.count--

	return s, nil
}
