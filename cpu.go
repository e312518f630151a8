package rip8

// MachineRoutineInterpreter interpretes the SYS instruction (0nnn)
type MachineRoutineInterpreter func(opCode uint16, cpu *Cpu) error

// Quirks select between the behaviours that differ among Chip-8 interpreters
type Quirks uint8

const (
	// FlagQuirkVfReset resets VF after OR, AND and XOR
	FlagQuirkVfReset Quirks = 1 << iota
	// FlagQuirkShiftWithVy copies Vy into Vx before SHR and SHL
	FlagQuirkShiftWithVy
	// FlagQuirkMemoryMovesIndex leaves I pointing after the last register stored or loaded
	FlagQuirkMemoryMovesIndex
	// FlagQuirkJumpUsesVx makes Bxnn jump to xnn + Vx instead of nnn + V0
	FlagQuirkJumpUsesVx
)

// DefaultQuirks is the set the COSMAC VIP interpreter follows
const DefaultQuirks = FlagQuirkVfReset | FlagQuirkShiftWithVy | FlagQuirkMemoryMovesIndex

// Chip-8 CPU.
// The CPU owns the live State and is the only thing that mutates it while running.
type Cpu struct {
	State *State

	Random RandomSource
	Buzzer Buzzer
	Quirks Quirks

	MachineRoutineInterpreter MachineRoutineInterpreter
}

// NewCpu creates a CPU running a fresh state with the default quirks
func NewCpu(random RandomSource, buzzer Buzzer) *Cpu {
	if random == nil {
		random = CryptoRandom{}
	}
	if buzzer == nil {
		buzzer = NewDummyBuzzer()
	}

	return &Cpu{
		State:  NewState(),
		Random: random,
		Buzzer: buzzer,
		Quirks: DefaultQuirks,
	}
}

func (cpu *Cpu) hasQuirk(q Quirks) bool {
	return cpu.Quirks&q > 0
}

func (cpu *Cpu) IsSoundTimerActive() bool {
	return cpu.State.St > 0
}

func (cpu *Cpu) IsDelayTimerActive() bool {
	return cpu.State.Dt > 0
}

func (cpu *Cpu) IsWaitingForKey() bool {
	return cpu.State.Wait.Phase != WaitNone
}

// LoadProgram replaces the state with a fresh one holding program
func (cpu *Cpu) LoadProgram(program []byte) error {
	s := NewState()
	if err := s.LoadProgram(program); err != nil {
		return err
	}

	cpu.Restore(s)

	return nil
}

// Restore swaps the live state for s. The CPU takes ownership of s.
func (cpu *Cpu) Restore(s *State) {
	cpu.State = s
	cpu.State.Screen.Dirty = true
	if cpu.State.St > 0 {
		cpu.Buzzer.Play()
	} else {
		cpu.Buzzer.Stop()
	}
}

// SetKeys copies the keyboard state into the machine
func (cpu *Cpu) SetKeys(keys KeyboardState) {
	cpu.State.Keys = keys
}

func (cpu *Cpu) SetKey(k byte, down bool) {
	if k > 15 {
		return
	}
	cpu.State.Keys[k] = down
}

// CurrentOpCode returns the opcode that the next call to ExecuteOneInstruction will run
func (cpu *Cpu) CurrentOpCode() (uint16, error) {
	s := cpu.State
	if uint(s.Pc)+1 >= MEMORY_SIZE {
		return 0, ErrAddressOutOfBounds{Pc: s.Pc, Address: uint(s.Pc) + 1}
	}

	return uint16(s.Memory[s.Pc])<<8 | uint16(s.Memory[s.Pc+1]), nil
}

// ExecuteOneInstruction fetches, decodes and executes the instruction at PC.
// Faults are returned as they are; the state is left as the faulting
// instruction found it, with PC already past it.
func (cpu *Cpu) ExecuteOneInstruction() error {
	opCode, err := cpu.CurrentOpCode()
	if err != nil {
		return err
	}

	in := decode(opCode, cpu.State.Pc)
	cpu.State.Pc += 2

	return cpu.executeInstruction(in)
}

// TickTimers decrements both timers once. The sound timer reaching zero stops the tone.
func (cpu *Cpu) TickTimers() {
	s := cpu.State

	if s.Dt > 0 {
		s.Dt--
	}

	if s.St > 0 {
		s.St--
		if s.St == 0 {
			cpu.Buzzer.Stop()
		}
	}
}

func bool2byte(b bool) byte {
	if b {
		return 1
	}

	return 0
}
