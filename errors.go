package rip8

import (
	"errors"
	"fmt"
)

var ErrCpuIsNotBooted = errors.New("the console has not been booted properly")

var ErrStackUnderflow = errors.New("stack underflow: try to pop an empty stack")
var ErrStackOverflow = errors.New("stack overflow: try to push to a full stack")

var ErrHistoryEmpty = errors.New("history is empty: nothing was captured")

type ErrOpCodeUnknown struct {
	OpCode uint16
	Pc     uint16
}

func (err ErrOpCodeUnknown) Error() string {
	return fmt.Sprintf("unknown opcode=%04X at PC=%03X", err.OpCode, err.Pc)
}

// ErrAddressOutOfBounds is returned when an instruction would read or write
// memory outside of [0, MEMORY_SIZE), or grow I past the last address.
type ErrAddressOutOfBounds struct {
	OpCode  uint16
	Pc      uint16
	Address uint
}

func (err ErrAddressOutOfBounds) Error() string {
	return fmt.Sprintf("address %X out of bounds for opcode=%04X at PC=%03X", err.Address, err.OpCode, err.Pc)
}

// ErrRomLoad wraps any failure to read a program from disk.
type ErrRomLoad struct {
	Path string
	Err  error
}

func (err ErrRomLoad) Error() string {
	return fmt.Sprintf("could not load rom %q: %v", err.Path, err.Err)
}

func (err ErrRomLoad) Unwrap() error {
	return err.Err
}
