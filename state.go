package rip8

// WaitPhase is the progress of a blocking key read (Fx0A)
type WaitPhase byte

const (
	// WaitNone means no key read is pending
	WaitNone WaitPhase = iota
	// WaitPress means the instruction is waiting for any key to go down
	WaitPress
	// WaitRelease means a key was captured and the instruction waits for it to go up
	WaitRelease
)

type WaitState struct {
	Phase WaitPhase
	Key   byte
}

// State is the whole machine: everything a snapshot needs to resume execution.
// It is a plain value; copying it (see Clone) gives a fully independent machine.
type State struct {
	Memory Memory
	// V 8-bit registers, VF doubles as the flag register
	V [16]byte
	// I 16-bit register (12-bit usable)
	I uint16
	// Delay timer register
	Dt byte
	// Sound timer register
	St byte
	// Program counter
	Pc uint16
	// Stack pointer
	Sp byte
	// Stack
	Stack [16]uint16

	Keys   KeyboardState
	Screen Framebuffer
	Wait   WaitState
}

// NewState returns a zeroed machine with the font loaded and PC at the start of the program
func NewState() *State {
	return &State{
		Memory: *NewMemory(),
		Pc:     startOfProgram,
	}
}

// Clone returns a deep copy of the state
func (s *State) Clone() *State {
	c := *s

	return &c
}

// LoadProgram copies the program into memory
func (s *State) LoadProgram(program []byte) error {
	return s.Memory.LoadProgram(program)
}
