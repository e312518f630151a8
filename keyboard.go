package rip8

import (
	"sync"
	"unicode"
)

// KeyboardState is the state of the 16 keys, indexed by their hex value
type KeyboardState [16]bool

// IsPressed returns false for keys outside the keypad
func (ks KeyboardState) IsPressed(k byte) bool {
	if k > 15 {
		return false
	}
	return ks[k]
}

// Keyboard is polled by the console once per cycle
type Keyboard interface {
	// Boot initializes the component
	Boot() error
	Keys() KeyboardState
}

// InMemoryKeyboard is a keyboard whose keys are set by the program that owns it.
// It is safe to press and release keys from another goroutine.
type InMemoryKeyboard struct {
	mu    sync.RWMutex
	state KeyboardState
}

func NewInMemoryKeyboard() *InMemoryKeyboard {
	return &InMemoryKeyboard{}
}

// Boot implements Keyboard.
func (kb *InMemoryKeyboard) Boot() error {
	return nil
}

// Keys implements Keyboard.
func (kb *InMemoryKeyboard) Keys() KeyboardState {
	kb.mu.RLock()
	defer kb.mu.RUnlock()

	return kb.state
}

func (kb *InMemoryKeyboard) IsPressed(k byte) bool {
	return kb.Keys().IsPressed(k)
}

func (kb *InMemoryKeyboard) Press(k byte) {
	kb.Set(k, true)
}

func (kb *InMemoryKeyboard) Release(k byte) {
	kb.Set(k, false)
}

func (kb *InMemoryKeyboard) Set(k byte, down bool) {
	if k > 15 {
		return
	}

	kb.mu.Lock()
	kb.state[k] = down
	kb.mu.Unlock()
}

// KeyboardLayout holds the physical key for every console key, indexed by the console key
type KeyboardLayout [16]rune

// DefaultKeyboardLayout maps the left side of a QWERTY keyboard onto the keypad:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  ->  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var DefaultKeyboardLayout = KeyboardLayout{
	0x0: 'X',
	0x1: '1', 0x2: '2', 0x3: '3',
	0x4: 'Q', 0x5: 'W', 0x6: 'E',
	0x7: 'A', 0x8: 'S', 0x9: 'D',
	0xA: 'Z', 0xB: 'C',
	0xC: '4', 0xD: 'R', 0xE: 'F', 0xF: 'V',
}

// LookupMap inverts a layout: physical key to console key
func LookupMap(layout KeyboardLayout) map[rune]byte {
	m := make(map[rune]byte, len(layout))
	for k, r := range layout {
		m[unicode.ToUpper(r)] = byte(k)
	}

	return m
}
