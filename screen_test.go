package rip8_test

import (
	"testing"

	"github.com/guslan/rip8"
	"github.com/retroenv/retrogolib/assert"
)

func TestDrawSpriteIsSelfInverse(t *testing.T) {
	fb := rip8.Framebuffer{}

	assert.False(t, fb.DrawSprite(10, 5, 0b10110001))
	assert.True(t, fb.Pixel(10, 5))
	assert.False(t, fb.Pixel(11, 5))
	assert.True(t, fb.Pixel(17, 5))

	assert.True(t, fb.DrawSprite(10, 5, 0b10110001))
	assert.Equal(t, make(rip8.Screen, 256), fb.Screen())
}

func TestDrawSpriteWrapsEveryColumn(t *testing.T) {
	fb := rip8.Framebuffer{}

	fb.DrawSprite(60, 33, 0xFF)
	for x := 60; x < 64; x++ {
		assert.True(t, fb.Pixel(x, 1))
	}
	for x := 0; x < 4; x++ {
		assert.True(t, fb.Pixel(x, 1))
	}
	assert.False(t, fb.Pixel(4, 1))
	assert.False(t, fb.Pixel(59, 1))
}

func TestDrawInstruction(t *testing.T) {
	cpu := newTestCpu(t, nil)
	cpu.State.V[1] = 62
	cpu.State.V[2] = 31
	cpu.State.I = rip8.FontAddress(0)

	assert.NoError(t, exec(cpu, 0xD125))
	assert.Equal(t, byte(0), cpu.State.V[0xF])
	assert.True(t, cpu.State.Screen.Dirty)
	// first row of "0" is 0xF0: columns 62, 63, 0, 1
	assert.True(t, cpu.State.Screen.Pixel(62, 31))
	assert.True(t, cpu.State.Screen.Pixel(1, 31))
	assert.False(t, cpu.State.Screen.Pixel(2, 31))
	// second row wraps to the top
	assert.True(t, cpu.State.Screen.Pixel(62, 0))
	assert.False(t, cpu.State.Screen.Pixel(63, 0))

	assert.NoError(t, exec(cpu, 0xD125))
	assert.Equal(t, byte(1), cpu.State.V[0xF])
	assert.Equal(t, make(rip8.Screen, 256), cpu.State.Screen.Screen())
}

func TestDrawUsesCoordinatesFromVF(t *testing.T) {
	cpu := newTestCpu(t, nil)
	cpu.State.V[0xF] = 8
	cpu.State.I = rip8.FontAddress(1)

	assert.NoError(t, exec(cpu, 0xDFF1))
	assert.True(t, cpu.State.Screen.Pixel(10, 8))
	assert.Equal(t, byte(0), cpu.State.V[0xF])
}

func TestDrawOutOfBounds(t *testing.T) {
	cpu := newTestCpu(t, nil)
	cpu.State.I = 0xFFC

	err := exec(cpu, 0xD015)
	assert.Error(t, err)
	assert.False(t, cpu.State.Screen.Pixel(0, 0))
}

func TestClearScreen(t *testing.T) {
	cpu := newTestCpu(t, nil)
	cpu.State.Screen.DrawSprite(0, 0, 0xFF)
	cpu.State.Screen.Dirty = false

	assert.NoError(t, exec(cpu, 0x00E0))
	assert.False(t, cpu.State.Screen.Pixel(0, 0))
	assert.True(t, cpu.State.Screen.Dirty)
}

func TestUnpack(t *testing.T) {
	fb := rip8.Framebuffer{}
	fb.DrawSprite(0, 0, 0b10000001)
	fb.DrawSprite(63, 31, 0b10000000)

	pixels := make([]byte, rip8.ScreenWidth*rip8.ScreenHeight)
	fb.Screen().Unpack(pixels)

	assert.Equal(t, byte(1), pixels[0])
	assert.Equal(t, byte(0), pixels[1])
	assert.Equal(t, byte(1), pixels[7])
	assert.Equal(t, byte(1), pixels[len(pixels)-1])
}
