package rip8

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Stats are the rates measured over the last whole second
type Stats struct {
	ClockHz uint
	TimerHz uint
	Cycles  uint
	Frames  uint
}

// Console drives a CPU: it feeds it the keyboard, runs it at a given speed,
// ticks the timers, renders the screen and keeps the rewind history.
// All exported methods are safe to call while Loop is running.
type Console struct {
	mu sync.Mutex

	cpu     *Cpu
	history *History
	program []byte

	Display  Display
	Keyboard Keyboard
	Buzzer   Buzzer

	speedInHz      uint
	step           time.Duration
	cyclesPerFrame uint
	rewindInterval uint
	faultPolicy    FaultPolicy

	cycles       uint
	frames       uint
	sinceCapture uint
	sinceFrame   uint

	stats      Stats
	statsSince time.Time
	clockCount uint
	timerCount uint

	isBooted  bool
	isPaused  bool
	lastError error

	// Hooks that run before every frame
	beforeFrameHooks []Hook
	// Hooks that run before every cycle
	beforeCycleHooks []Hook
	// Hooks that run after every cycle
	afterCycleHooks []Hook
	// Hooks that run after every frame
	afterFrameHooks []Hook
	// Hooks that run after an error
	errorHooks []Hook
}

func NewConsole(display Display, keyboard Keyboard, buzzer Buzzer, configs ...ConsoleConfigCb) *Console {
	config := defaultConsoleConfig()
	for _, cb := range configs {
		cb(config)
	}

	if display == nil {
		display = NewDummyDisplay()
	}
	if keyboard == nil {
		keyboard = NewInMemoryKeyboard()
	}
	if buzzer == nil {
		buzzer = NewDummyBuzzer()
	}

	cpu := NewCpu(config.Random, buzzer)
	cpu.Quirks = config.Quirks
	cpu.MachineRoutineInterpreter = config.MachineRoutineInterpreter

	c := &Console{
		cpu:     cpu,
		history: NewHistory(config.HistorySize),

		Display:  display,
		Keyboard: keyboard,
		Buzzer:   buzzer,

		cyclesPerFrame: max(config.CyclesPerFrame, 1),
		rewindInterval: config.RewindInterval,
		faultPolicy:    config.FaultPolicy,

		statsSince: time.Now(),

		beforeFrameHooks: make([]Hook, 0),
		beforeCycleHooks: make([]Hook, 0),
		afterCycleHooks:  make([]Hook, 0),
		afterFrameHooks:  make([]Hook, 0),
		errorHooks:       make([]Hook, 0),
	}
	c.setSpeedInHz(config.Speed)

	return c
}

// Boot initializes all the components
// If the console was already booted, this method is a noop
func (c *Console) Boot() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.isBooted {
		return nil
	}

	if err := c.Display.Boot(); err != nil {
		return err
	}

	if err := c.Keyboard.Boot(); err != nil {
		return err
	}

	if err := c.Buzzer.Boot(); err != nil {
		return err
	}

	c.isBooted = true

	return nil
}

// LoadProgram loads the program into a fresh machine and starts a new history
func (c *Console) LoadProgram(program []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.cpu.LoadProgram(program); err != nil {
		return err
	}

	c.program = append([]byte(nil), program...)
	c.restart()

	return nil
}

// LoadProgramFromFile reads a ROM from disk and loads it
func (c *Console) LoadProgramFromFile(path string) error {
	program, err := ReadProgram(path)
	if err != nil {
		return err
	}

	if err := c.LoadProgram(program); err != nil {
		return ErrRomLoad{Path: path, Err: err}
	}

	slog.Info("Program loaded", slog.String("path", path), slog.Int("size", len(program)))

	return nil
}

// Reset reloads the current program from the beginning
func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
}

func (c *Console) reset() {
	// the program fitted when it was first loaded
	_ = c.cpu.LoadProgram(c.program)
	c.restart()
}

func (c *Console) restart() {
	c.cycles = 0
	c.frames = 0
	c.sinceCapture = 0
	c.sinceFrame = 0
	c.lastError = nil

	c.history.Clear()
	c.history.Capture(c.cpu.State)

	c.render()
}

// Rewind restores the most recent snapshot
func (c *Console) Rewind() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.rewind()
}

func (c *Console) rewind() error {
	s, err := c.history.RestorePrevious()
	if err != nil {
		return err
	}

	c.cpu.Restore(s)
	c.sinceCapture = 0
	c.lastError = nil
	slog.Info("Rewound", slog.Int("snapshots", c.history.Len()))

	return c.render()
}

// Capture takes a snapshot right away
func (c *Console) Capture() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.history.Capture(c.cpu.State)
	c.sinceCapture = 0
}

// History returns the number of snapshots that can be rewound to
func (c *Console) History() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.history.Len()
}

// Snapshot returns a copy of the live state
func (c *Console) Snapshot() *State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cpu.State.Clone()
}

func (c *Console) IsRunning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return !c.isPaused
}

// Start resumes the loop
func (c *Console) Start() {
	c.mu.Lock()
	c.isPaused = false
	c.mu.Unlock()
}

// Stop pauses the loop, it does not end it
func (c *Console) Stop() {
	c.mu.Lock()
	c.isPaused = true
	c.mu.Unlock()
}

func (c *Console) TogglePause() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.isPaused = !c.isPaused
	return c.isPaused
}

func (c *Console) SpeedInHz() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.speedInHz
}

func (c *Console) SetSpeedInHz(inHz uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.setSpeedInHz(inHz)
}

func (c *Console) setSpeedInHz(inHz uint) {
	c.speedInHz = clampSpeed(inHz)
	c.step = time.Second / time.Duration(c.speedInHz)
}

func (c *Console) CyclesPerFrame() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cyclesPerFrame
}

// SetCyclesPerFrame sets how many instructions run between two timer ticks, at least one
func (c *Console) SetCyclesPerFrame(n uint) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cyclesPerFrame = max(n, 1)
}

func (c *Console) Cycles() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.cycles
}

func (c *Console) Frames() uint {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.frames
}

func (c *Console) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.stats
}

// LastError is the fault that halted the console, if any
func (c *Console) LastError() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.lastError
}

// Loop runs the console until ctx is done or an instruction fails and the
// fault policy is to halt.
func (c *Console) Loop(ctx context.Context) error {
	if err := c.ready(); err != nil {
		return err
	}

	var last time.Time

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		if err := c.runNextCycle(); err != nil {
			return err
		}

		// Prevent the CPU from running faster than expected
		time.Sleep(max(c.currentStep()-time.Since(last), 0))
		last = time.Now()
	}
}

// LoopOnce runs a single cycle bypassing the pause state
func (c *Console) LoopOnce() error {
	if err := c.ready(); err != nil {
		return err
	}

	c.mu.Lock()
	prev := c.isPaused
	c.isPaused = false
	c.mu.Unlock()

	err := c.runNextCycle()

	c.mu.Lock()
	c.isPaused = prev
	c.mu.Unlock()

	return err
}

func (c *Console) ready() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.isBooted {
		return ErrCpuIsNotBooted
	}

	return c.lastError
}

func (c *Console) currentStep() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.step
}

func (c *Console) runNextCycle() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runHooks(c.beforeFrameHooks)

	if c.isPaused || c.lastError != nil {
		return c.lastError
	}

	c.cpu.SetKeys(c.Keyboard.Keys())

	if c.rewindInterval > 0 && c.sinceCapture >= c.rewindInterval {
		c.history.Capture(c.cpu.State)
		c.sinceCapture = 0
	}
	c.sinceCapture++

	c.runHooks(c.beforeCycleHooks)
	if err := c.cpu.ExecuteOneInstruction(); err != nil {
		c.runHooks(c.errorHooks)
		return c.handleFault(err)
	}
	c.cycles++
	c.clockCount++
	c.runHooks(c.afterCycleHooks)

	c.sinceFrame++
	if c.sinceFrame >= c.cyclesPerFrame {
		c.sinceFrame = 0
		c.cpu.TickTimers()
		c.timerCount++

		if err := c.render(); err != nil {
			c.lastError = err
			return err
		}

		c.frames++
		c.runHooks(c.afterFrameHooks)
	}

	c.measure()

	return nil
}

func (c *Console) handleFault(err error) error {
	switch c.faultPolicy {
	case FaultReset:
		slog.Warn("Instruction failed, resetting", slog.Any("error", err))
		c.reset()
		return nil

	case FaultRewind:
		slog.Warn("Instruction failed, rewinding", slog.Any("error", err))
		if rerr := c.rewind(); rerr == nil {
			return nil
		}
	}

	slog.Error("Instruction failed", slog.Any("error", err))
	c.lastError = err
	return err
}

func (c *Console) render() error {
	if !c.cpu.State.Screen.Dirty {
		return nil
	}

	if err := c.Display.Render(c.cpu.State.Screen.Screen(), SmallScreen); err != nil {
		return err
	}
	c.cpu.State.Screen.Dirty = false

	return nil
}

func (c *Console) measure() {
	elapsed := time.Since(c.statsSince)
	if elapsed < time.Second {
		return
	}

	c.stats = Stats{
		ClockHz: uint(float64(c.clockCount) / elapsed.Seconds()),
		TimerHz: uint(float64(c.timerCount) / elapsed.Seconds()),
		Cycles:  c.cycles,
		Frames:  c.frames,
	}
	c.clockCount = 0
	c.timerCount = 0
	c.statsSince = time.Now()

	slog.Debug("Console speed", slog.Uint64("clock_hz", uint64(c.stats.ClockHz)), slog.Uint64("timer_hz", uint64(c.stats.TimerHz)))
}
