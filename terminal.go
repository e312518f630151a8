package rip8

import (
	"sync"
	"time"
	"unicode"

	"github.com/pkg/term"
)

// TerminalCommand is a console control read from the terminal, outside of the keypad
type TerminalCommand byte

const (
	CommandQuit TerminalCommand = iota
	CommandPause
	CommandRewind
	CommandFaster
	CommandSlower
)

// DefaultHoldFor is how long a key stays down after the terminal last reported it.
// Terminals do not report key releases, only repeats.
const DefaultHoldFor = 150 * time.Millisecond

// TerminalKeyboard reads the keypad from a terminal put in raw mode
type TerminalKeyboard struct {
	Device  string
	HoldFor time.Duration

	lookup map[rune]byte
	tty    *term.Term

	mu       sync.Mutex
	lastSeen [16]time.Time
	now      func() time.Time

	commands chan TerminalCommand
}

func NewTerminalKeyboard() *TerminalKeyboard {
	return NewTerminalKeyboardWithLayout(DefaultKeyboardLayout)
}

func NewTerminalKeyboardWithLayout(layout KeyboardLayout) *TerminalKeyboard {
	return &TerminalKeyboard{
		Device:   "/dev/tty",
		HoldFor:  DefaultHoldFor,
		lookup:   LookupMap(layout),
		now:      time.Now,
		commands: make(chan TerminalCommand, 16),
	}
}

// Boot implements Keyboard.
// It switches the terminal to raw mode; Close restores it.
func (kb *TerminalKeyboard) Boot() error {
	if kb.tty != nil {
		return nil
	}

	tty, err := term.Open(kb.Device, term.RawMode)
	if err != nil {
		return err
	}
	kb.tty = tty

	go kb.read(tty)

	return nil
}

// Close restores the terminal
func (kb *TerminalKeyboard) Close() error {
	if kb.tty == nil {
		return nil
	}

	tty := kb.tty
	kb.tty = nil
	if err := tty.Restore(); err != nil {
		tty.Close()
		return err
	}

	return tty.Close()
}

// Commands delivers the controls typed on the terminal
func (kb *TerminalKeyboard) Commands() <-chan TerminalCommand {
	return kb.commands
}

// Keys implements Keyboard.
func (kb *TerminalKeyboard) Keys() KeyboardState {
	kb.mu.Lock()
	defer kb.mu.Unlock()

	now := kb.now()
	state := KeyboardState{}
	for k, seen := range kb.lastSeen {
		state[k] = !seen.IsZero() && now.Sub(seen) < kb.HoldFor
	}

	return state
}

func (kb *TerminalKeyboard) read(tty *term.Term) {
	buf := make([]byte, 32)
	for {
		n, err := tty.Read(buf)
		if err != nil {
			return
		}
		kb.feed(buf[:n])
	}
}

// feed interprets the bytes of a single read
func (kb *TerminalKeyboard) feed(input []byte) {
	for i := 0; i < len(input); i++ {
		b := input[i]
		switch {
		case b == 0x03:
			// ctrl+c
			kb.command(CommandQuit)

		case b == ESC && i+2 < len(input) && input[i+1] == '[':
			switch input[i+2] {
			case 'A':
				kb.command(CommandFaster)
			case 'B':
				kb.command(CommandSlower)
			case 'D':
				kb.command(CommandRewind)
			}
			i += 2

		case b == ESC:
			kb.command(CommandQuit)

		case b == ' ':
			kb.command(CommandPause)

		default:
			if k, ok := kb.lookup[unicode.ToUpper(rune(b))]; ok {
				kb.mu.Lock()
				kb.lastSeen[k] = kb.now()
				kb.mu.Unlock()
			}
		}
	}
}

func (kb *TerminalKeyboard) command(c TerminalCommand) {
	select {
	case kb.commands <- c:
	default:
	}
}
