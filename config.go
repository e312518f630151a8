package rip8

// FaultPolicy is what the console does when an instruction fails
type FaultPolicy byte

const (
	// FaultHalt stops the loop and returns the error
	FaultHalt FaultPolicy = iota
	// FaultReset reloads the program and keeps running
	FaultReset
	// FaultRewind restores the previous snapshot and keeps running
	FaultRewind
)

func (p FaultPolicy) String() string {
	switch p {
	case FaultReset:
		return "reset"
	case FaultRewind:
		return "rewind"
	}
	return "halt"
}

// ParseFaultPolicy accepts the names returned by FaultPolicy.String
func ParseFaultPolicy(s string) (FaultPolicy, bool) {
	for _, p := range []FaultPolicy{FaultHalt, FaultReset, FaultRewind} {
		if p.String() == s {
			return p, true
		}
	}
	return FaultHalt, false
}

const (
	DefaultSpeed          uint = 540
	MaxSpeed              uint = 2000
	MinSpeed              uint = 5
	DefaultCyclesPerFrame uint = 9
	// DefaultRewindInterval is the number of cycles between two snapshots
	DefaultRewindInterval uint = 250
)

type ConsoleConfig struct {
	// Instructions per second
	Speed uint
	// Instructions between two timer ticks
	CyclesPerFrame uint
	// Snapshots kept for rewinding
	HistorySize int
	// Cycles between two snapshots
	RewindInterval uint

	FaultPolicy FaultPolicy
	Quirks      Quirks
	Random      RandomSource

	MachineRoutineInterpreter MachineRoutineInterpreter
}

type ConsoleConfigCb func(config *ConsoleConfig)

func defaultConsoleConfig() *ConsoleConfig {
	return &ConsoleConfig{
		Speed:          DefaultSpeed,
		CyclesPerFrame: DefaultCyclesPerFrame,
		HistorySize:    DefaultHistorySize,
		RewindInterval: DefaultRewindInterval,
		FaultPolicy:    FaultHalt,
		Quirks:         DefaultQuirks,
		Random:         CryptoRandom{},
	}
}

func clampSpeed(hz uint) uint {
	return min(max(hz, MinSpeed), MaxSpeed)
}
