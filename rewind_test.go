package rip8_test

import (
	"errors"
	"testing"

	"github.com/guslan/rip8"
	"github.com/retroenv/retrogolib/assert"
)

func stateWithMarker(marker byte) *rip8.State {
	s := rip8.NewState()
	s.V[0] = marker
	return s
}

func TestHistoryRestoresNewestFirst(t *testing.T) {
	h := rip8.NewHistory(5)
	for _, m := range []byte{1, 2, 3} {
		h.Capture(stateWithMarker(m))
	}

	for _, expected := range []byte{3, 2, 1, 1, 1} {
		s, err := h.RestorePrevious()
		assert.NoError(t, err)
		assert.Equal(t, expected, s.V[0])
	}
	assert.Equal(t, 1, h.Len())
}

func TestHistoryForgetsOldest(t *testing.T) {
	h := rip8.NewHistory(2)
	for _, m := range []byte{1, 2, 3} {
		h.Capture(stateWithMarker(m))
	}
	assert.Equal(t, 2, h.Len())

	for _, expected := range []byte{3, 2, 2} {
		s, err := h.RestorePrevious()
		assert.NoError(t, err)
		assert.Equal(t, expected, s.V[0])
	}
}

func TestHistoryDefaultCapacity(t *testing.T) {
	assert.Equal(t, rip8.DefaultHistorySize, rip8.NewHistory(0).Cap())
	assert.Equal(t, 12, rip8.NewHistory(12).Cap())
}

func TestHistoryEmpty(t *testing.T) {
	h := rip8.NewHistory(3)

	_, err := h.RestorePrevious()
	assert.True(t, errors.Is(err, rip8.ErrHistoryEmpty))

	h.Capture(rip8.NewState())
	h.Clear()
	_, err = h.RestorePrevious()
	assert.True(t, errors.Is(err, rip8.ErrHistoryEmpty))
}

func TestHistoryReleasesKeys(t *testing.T) {
	h := rip8.NewHistory(3)
	live := rip8.NewState()
	live.Keys[0x5] = true

	h.Capture(live)
	assert.True(t, live.Keys[0x5], "the live state keeps its keys")

	s, err := h.RestorePrevious()
	assert.NoError(t, err)
	assert.Equal(t, rip8.KeyboardState{}, s.Keys)
}

func TestHistorySnapshotsAreIndependent(t *testing.T) {
	h := rip8.NewHistory(3)
	live := stateWithMarker(1)
	live.Memory[0x300] = 0xAB
	h.Capture(live)

	// mutating the live state does not reach the snapshot
	live.V[0] = 9
	live.Memory[0x300] = 0
	live.Screen.DrawSprite(0, 0, 0xFF)

	s, err := h.RestorePrevious()
	assert.NoError(t, err)
	assert.Equal(t, byte(1), s.V[0])
	assert.Equal(t, byte(0xAB), s.Memory[0x300])
	assert.False(t, s.Screen.Pixel(0, 0))

	// nor does mutating a restored copy of the last snapshot
	s.V[0] = 7
	again, err := h.RestorePrevious()
	assert.NoError(t, err)
	assert.Equal(t, byte(1), again.V[0])
}

func TestRestoreResumesExecution(t *testing.T) {
	cpu := newTestCpu(t, program(
		0x70, 1,
		0x70, 1,
		0x70, 1,
	))
	h := rip8.NewHistory(5)

	assert.NoError(t, runNCycles(cpu, 1))
	h.Capture(cpu.State)
	assert.NoError(t, runNCycles(cpu, 2))
	assertVxEq(t, "before rewind", cpu, 0x0, 3)

	s, err := h.RestorePrevious()
	assert.NoError(t, err)
	cpu.Restore(s)
	assertVxEq(t, "after rewind", cpu, 0x0, 1)
	assert.Equal(t, uint16(0x202), cpu.State.Pc)

	assert.NoError(t, runNCycles(cpu, 2))
	assertVxEq(t, "replayed", cpu, 0x0, 3)
}

func TestRestoreDrivesTheBuzzer(t *testing.T) {
	buzzer := rip8.NewDummyBuzzer()
	cpu := rip8.NewCpu(nil, buzzer)

	s := rip8.NewState()
	s.St = 10
	cpu.Restore(s)
	assert.True(t, buzzer.IsPlaying)
	assert.True(t, cpu.State.Screen.Dirty)

	cpu.Restore(rip8.NewState())
	assert.False(t, buzzer.IsPlaying)
}
