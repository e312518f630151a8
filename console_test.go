package rip8_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/guslan/rip8"
	"github.com/retroenv/retrogolib/assert"
)

func newTestConsole(t *testing.T, program []byte, configs ...rip8.ConsoleConfigCb) (*rip8.Console, *rip8.InMemoryDisplay, *rip8.InMemoryKeyboard) {
	t.Helper()

	display := rip8.NewDefaultInMemoryDisplay()
	keyboard := rip8.NewInMemoryKeyboard()
	configs = append([]rip8.ConsoleConfigCb{func(config *rip8.ConsoleConfig) {
		config.Random = rip8.NewSeededRandom(1)
	}}, configs...)

	c := rip8.NewConsole(display, keyboard, nil, configs...)
	assert.NoError(t, c.Boot())
	assert.NoError(t, c.LoadProgram(program))

	return c, display, keyboard
}

func loopN(c *rip8.Console, n int) error {
	for i := 0; i < n; i++ {
		if err := c.LoopOnce(); err != nil {
			return err
		}
	}
	return nil
}

func TestConsoleMustBeBooted(t *testing.T) {
	c := rip8.NewConsole(nil, nil, nil)
	assert.NoError(t, c.LoadProgram(program()))

	assert.True(t, errors.Is(c.LoopOnce(), rip8.ErrCpuIsNotBooted))
	assert.True(t, errors.Is(c.Loop(context.Background()), rip8.ErrCpuIsNotBooted))
}

func TestConsoleTicksTimersEveryFrame(t *testing.T) {
	c, display, _ := newTestConsole(t, program(
		0x60, 10,
		0xF0, 0x15,
	), func(config *rip8.ConsoleConfig) {
		config.CyclesPerFrame = 3
	})
	// loading renders the blank screen
	assert.Equal(t, 1, display.Frames())

	assert.NoError(t, loopN(c, 2))
	assert.Equal(t, byte(10), c.Snapshot().Dt)
	assert.Equal(t, uint(0), c.Frames())

	assert.NoError(t, loopN(c, 1))
	assert.Equal(t, byte(9), c.Snapshot().Dt)
	assert.Equal(t, uint(1), c.Frames())
	assert.Equal(t, uint(3), c.Cycles())

	assert.NoError(t, loopN(c, 30))
	assert.Equal(t, byte(0), c.Snapshot().Dt)
	assert.Equal(t, uint(11), c.Frames())
}

func TestConsoleRendersOnlyWhenDirty(t *testing.T) {
	c, display, _ := newTestConsole(t, program(
		0xA0, 0x50,
		0xD0, 0x05,
	), func(config *rip8.ConsoleConfig) {
		config.CyclesPerFrame = 1
	})

	assert.NoError(t, loopN(c, 1))
	assert.Equal(t, 1, display.Frames())

	assert.NoError(t, loopN(c, 1))
	assert.Equal(t, 2, display.Frames())
	assert.Equal(t, byte(0xF0), display.Screen()[0])

	assert.NoError(t, loopN(c, 5))
	assert.Equal(t, 2, display.Frames())
}

func TestConsoleCapturesAndRewinds(t *testing.T) {
	c, _, _ := newTestConsole(t, program(
		0x70, 1, 0x70, 1, 0x70, 1, 0x70, 1,
		0x70, 1, 0x70, 1, 0x70, 1, 0x70, 1,
	), func(config *rip8.ConsoleConfig) {
		config.RewindInterval = 2
	})
	assert.Equal(t, 1, c.History())

	assert.NoError(t, loopN(c, 5))
	assert.Equal(t, byte(5), c.Snapshot().V[0])
	assert.Equal(t, 3, c.History())

	for _, expected := range []byte{4, 2, 0, 0} {
		assert.NoError(t, c.Rewind())
		assert.Equal(t, expected, c.Snapshot().V[0])
	}

	// execution resumes from the restored state
	assert.NoError(t, loopN(c, 1))
	assert.Equal(t, byte(1), c.Snapshot().V[0])
}

func TestConsoleRewindDoesNotKeepKeys(t *testing.T) {
	c, _, keyboard := newTestConsole(t, program(0x70, 1))

	keyboard.Press(0x2)
	assert.NoError(t, loopN(c, 1))
	assert.True(t, c.Snapshot().Keys[0x2])

	c.Capture()
	assert.NoError(t, c.Rewind())
	assert.False(t, c.Snapshot().Keys[0x2])
}

func TestConsoleWaitsForKeyRelease(t *testing.T) {
	c, _, keyboard := newTestConsole(t, program(0xF3, 0x0A))

	assert.NoError(t, loopN(c, 3))
	assert.Equal(t, uint16(0x200), c.Snapshot().Pc)

	keyboard.Press(0xB)
	assert.NoError(t, loopN(c, 3))
	assert.Equal(t, uint16(0x200), c.Snapshot().Pc)

	keyboard.Release(0xB)
	assert.NoError(t, loopN(c, 1))
	assert.Equal(t, byte(0xB), c.Snapshot().V[3])
	assert.Equal(t, uint16(0x202), c.Snapshot().Pc)
}

func TestConsoleHaltsOnFault(t *testing.T) {
	c, _, _ := newTestConsole(t, []byte{0x00, 0xEE})

	errorHooks := 0
	c.AddErrorHook(func(cpu *rip8.Cpu) {
		errorHooks++
	})

	err := c.LoopOnce()
	assert.True(t, errors.Is(err, rip8.ErrStackUnderflow))
	assert.True(t, errors.Is(c.LastError(), rip8.ErrStackUnderflow))
	assert.Equal(t, 1, errorHooks)

	// the console stays halted
	assert.True(t, errors.Is(c.LoopOnce(), rip8.ErrStackUnderflow))
	assert.Equal(t, 1, errorHooks)

	c.Reset()
	assert.NoError(t, c.LastError())
	assert.Equal(t, uint16(0x200), c.Snapshot().Pc)
}

func TestConsoleResetsOnFault(t *testing.T) {
	c, _, _ := newTestConsole(t, []byte{
		0x70, 1,
		0x00, 0xEE,
	}, func(config *rip8.ConsoleConfig) {
		config.FaultPolicy = rip8.FaultReset
	})

	assert.NoError(t, loopN(c, 2))
	assert.Equal(t, byte(0), c.Snapshot().V[0])
	assert.Equal(t, uint16(0x200), c.Snapshot().Pc)
	assert.Equal(t, uint(0), c.Cycles())
	assert.NoError(t, c.LastError())
}

func TestConsoleRewindsOnFault(t *testing.T) {
	c, _, _ := newTestConsole(t, []byte{
		0x70, 1,
		0x70, 1,
		0x00, 0xEE,
	}, func(config *rip8.ConsoleConfig) {
		config.FaultPolicy = rip8.FaultRewind
		config.RewindInterval = 1
	})

	assert.NoError(t, loopN(c, 3))
	s := c.Snapshot()
	assert.Equal(t, byte(2), s.V[0])
	assert.Equal(t, uint16(0x204), s.Pc)
	assert.NoError(t, c.LastError())
}

func TestConsoleHooks(t *testing.T) {
	c, _, _ := newTestConsole(t, program(0x70, 1), func(config *rip8.ConsoleConfig) {
		config.CyclesPerFrame = 2
	})

	var polls, before, after, frames int
	var lastPc uint16
	c.AddBeforeFrameHook(func(cpu *rip8.Cpu) { polls++ })
	c.AddBeforeCycleHook(func(cpu *rip8.Cpu) { before++ })
	c.AddAfterCycleHook(func(cpu *rip8.Cpu) {
		after++
		lastPc = cpu.State.Pc
	})
	assert.Equal(t, 1, c.AddAfterFrameHook(func(cpu *rip8.Cpu) { frames++ }))

	assert.NoError(t, loopN(c, 4))
	assert.Equal(t, 4, polls)
	assert.Equal(t, 4, before)
	assert.Equal(t, 4, after)
	assert.Equal(t, 2, frames)
	assert.Equal(t, uint16(0x202), lastPc)
}

func TestConsolePause(t *testing.T) {
	c, _, _ := newTestConsole(t, program(0x70, 1))

	c.Stop()
	assert.False(t, c.IsRunning())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.NoError(t, c.Loop(ctx))
	assert.Equal(t, uint(0), c.Cycles())

	// stepping works while paused
	assert.NoError(t, c.LoopOnce())
	assert.Equal(t, uint(1), c.Cycles())
	assert.False(t, c.IsRunning())

	assert.False(t, c.TogglePause())
	assert.True(t, c.IsRunning())
}

func TestConsoleLoopRuns(t *testing.T) {
	c, _, _ := newTestConsole(t, program(0x70, 1), func(config *rip8.ConsoleConfig) {
		config.Speed = rip8.MaxSpeed
	})

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	assert.NoError(t, c.Loop(ctx))
	assert.True(t, c.Cycles() > 0)
}

func TestConsoleSpeed(t *testing.T) {
	c := rip8.NewConsole(nil, nil, nil)
	assert.Equal(t, rip8.DefaultSpeed, c.SpeedInHz())

	c.SetSpeedInHz(1)
	assert.Equal(t, rip8.MinSpeed, c.SpeedInHz())

	c.SetSpeedInHz(1_000_000)
	assert.Equal(t, rip8.MaxSpeed, c.SpeedInHz())

	c.SetCyclesPerFrame(0)
	assert.Equal(t, uint(1), c.CyclesPerFrame())
}

func TestConsoleLoadProgramFromFile(t *testing.T) {
	c := rip8.NewConsole(nil, nil, nil)

	err := c.LoadProgramFromFile("does-not-exist.ch8")
	var romErr rip8.ErrRomLoad
	assert.True(t, errors.As(err, &romErr))
	assert.Equal(t, "does-not-exist.ch8", romErr.Path)
}

func TestParseFaultPolicy(t *testing.T) {
	for _, p := range []rip8.FaultPolicy{rip8.FaultHalt, rip8.FaultReset, rip8.FaultRewind} {
		got, ok := rip8.ParseFaultPolicy(p.String())
		assert.True(t, ok)
		assert.Equal(t, p, got)
	}

	_, ok := rip8.ParseFaultPolicy("explode")
	assert.False(t, ok)
}
