package rip8

import (
	"io"
	"os"
	"sync"
)

// Display abstraction for a display
type Display interface {
	// Boot initializes the component
	Boot() error
	// Render draws a packed screen
	Render(Screen, ScreenSettings) error
}

// DummyDisplay is a display that does nothing
type DummyDisplay struct {
}

func NewDummyDisplay() *DummyDisplay {
	return &DummyDisplay{}
}

func (d DummyDisplay) Boot() error {
	return nil
}

func (d DummyDisplay) Render(screen Screen, settings ScreenSettings) error {
	return nil
}

// InMemoryDisplay keeps the last frame it was given
type InMemoryDisplay struct {
	mu     sync.RWMutex
	screen Screen
	frames int
}

func NewDefaultInMemoryDisplay() *InMemoryDisplay {
	return &InMemoryDisplay{
		screen: make(Screen, screenSizeInBytes),
	}
}

// Boot implements Display.
func (d *InMemoryDisplay) Boot() error {
	return nil
}

// Render implements Display.
func (d *InMemoryDisplay) Render(screen Screen, settings ScreenSettings) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.screen = append(d.screen[:0], screen...)
	d.frames++

	return nil
}

// Screen returns a copy of the last rendered frame
func (d *InMemoryDisplay) Screen() Screen {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return append(Screen(nil), d.screen...)
}

// Frames is the number of times Render was called
func (d *InMemoryDisplay) Frames() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.frames
}

const ESC = 0x1B

type TerminalDisplay struct {
	terminal        io.Writer
	OnChar, OffChar string
}

func NewDefaultTerminalDisplay() *TerminalDisplay {
	return NewTerminalDisplayWithOutput(os.Stdout)
}

func NewTerminalDisplayWithOutput(out io.Writer) *TerminalDisplay {
	return &TerminalDisplay{
		terminal: out,
		OnChar:   "##",
		OffChar:  "  ",
	}
}

// Boot implements Display.
func (disp *TerminalDisplay) Boot() error {
	_, err := disp.terminal.Write([]byte{
		// Move cursor do start
		ESC, '[', '1', 'H',
		// clear the terminal
		ESC, '[', '0', 'J',
	})

	return err
}

// Render implements Display.
// Lines end in "\r\n" because the terminal may be in raw mode.
func (disp *TerminalDisplay) Render(screen Screen, settings ScreenSettings) error {
	buff := make([]byte, 0, settings.Width*settings.Height*len(disp.OnChar)+settings.Height*3+8)
	buff = append(buff, ESC, '[', '1', 'H')
	for i, b := range screen {
		for bitJ := 0; bitJ < 8; bitJ++ {
			if b&(1<<(7-byte(bitJ))) > 0 {
				buff = append(buff, disp.OnChar...)
			} else {
				buff = append(buff, disp.OffChar...)
			}
		}

		if ((i+1)*8)%settings.Width == 0 {
			buff = append(buff, '|', '\r', '\n')
		}
	}

	_, err := disp.terminal.Write(buff)
	return err
}
