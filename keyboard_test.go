package rip8_test

import (
	"testing"
	"time"

	"github.com/guslan/rip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDefaultLayout(t *testing.T) {
	lookup := rip8.LookupMap(rip8.DefaultKeyboardLayout)

	assert.Equal(t, 16, len(lookup))
	assert.Equal(t, byte(0x1), lookup['1'])
	assert.Equal(t, byte(0xC), lookup['4'])
	assert.Equal(t, byte(0x0), lookup['X'])
	assert.Equal(t, byte(0xF), lookup['V'])
}

func TestInMemoryKeyboard(t *testing.T) {
	kb := rip8.NewInMemoryKeyboard()

	kb.Press(0x3)
	kb.Press(0x20)
	assert.True(t, kb.IsPressed(0x3))
	assert.False(t, kb.IsPressed(0x20))

	kb.Release(0x3)
	assert.Equal(t, rip8.KeyboardState{}, kb.Keys())
}

func TestTerminalKeyboardHoldsKeys(t *testing.T) {
	now := time.Unix(1000, 0)
	kb := rip8.NewTerminalKeyboard()
	kb.SetClock(func() time.Time { return now })

	kb.Feed([]byte("w"))
	assert.True(t, kb.Keys()[0x5])

	now = now.Add(rip8.DefaultHoldFor / 2)
	kb.Feed([]byte("Z"))
	assert.True(t, kb.Keys()[0x5])
	assert.True(t, kb.Keys()[0xA])

	now = now.Add(rip8.DefaultHoldFor / 2)
	assert.False(t, kb.Keys()[0x5])
	assert.True(t, kb.Keys()[0xA])

	// unmapped keys are ignored
	kb.Feed([]byte("p"))
	keys := kb.Keys()
	keys[0xA] = false
	assert.Equal(t, rip8.KeyboardState{}, keys)
}

func TestTerminalKeyboardCommands(t *testing.T) {
	kb := rip8.NewTerminalKeyboard()

	kb.Feed([]byte{' ', 0x1B, '[', 'A', 0x1B, '[', 'B', 0x1B, '[', 'D', 0x03, 0x1B})

	expected := []rip8.TerminalCommand{
		rip8.CommandPause,
		rip8.CommandFaster,
		rip8.CommandSlower,
		rip8.CommandRewind,
		rip8.CommandQuit,
		rip8.CommandQuit,
	}
	for _, c := range expected {
		select {
		case got := <-kb.Commands():
			assert.Equal(t, c, got)
		default:
			t.Fatalf("expected command %d", c)
		}
	}

	select {
	case got := <-kb.Commands():
		t.Fatalf("unexpected command %d", got)
	default:
	}
}
