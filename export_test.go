package rip8

import "time"

// Feed hands input to the keyboard as if it was read from the terminal
func (kb *TerminalKeyboard) Feed(input []byte) {
	kb.feed(input)
}

func (kb *TerminalKeyboard) SetClock(now func() time.Time) {
	kb.now = now
}
