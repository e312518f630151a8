package rip8

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

var ErrProgramDoesNotFitIntoMemory = errors.New("the program does not fit into memory")

const startOfProgram = 0x200
const startOfFont = 0x50
const glyphSize = 5

const MEMORY_SIZE = 4096

type Memory [MEMORY_SIZE]byte

// NewMemory creates a memory of 4096 bytes with the font table already in place
func NewMemory() *Memory {
	m := Memory([MEMORY_SIZE]byte{})
	loadCharactersInto(&m)

	return &m
}

func (mem Memory) Clone() *Memory {
	m := Memory{}

	copy(m[:], mem[:])

	return &m
}

func (mem Memory) String() string {
	sb := strings.Builder{}

	sb.WriteString("[ ")
	for _, b := range mem[:startOfProgram] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]\n")
	sb.WriteString("[ ")
	for _, b := range mem[startOfProgram:] {
		sb.WriteString(fmt.Sprintf("%X ", b))
	}
	sb.WriteString("]")

	return sb.String()
}

func (mem Memory) IsEqual(other Memory) bool {
	return mem == other
}

// LoadProgram copies the program verbatim at the start-of-program address
func (mem *Memory) LoadProgram(program []byte) error {
	if len(program) > MEMORY_SIZE-startOfProgram {
		return ErrProgramDoesNotFitIntoMemory
	}

	copy(mem[startOfProgram:], program)

	return nil
}

// ReadProgram reads a raw, headerless ROM image from disk
func ReadProgram(path string) ([]byte, error) {
	program, err := os.ReadFile(path)
	if err != nil {
		return nil, ErrRomLoad{Path: path, Err: err}
	}

	if len(program) > MEMORY_SIZE-startOfProgram {
		return nil, ErrRomLoad{Path: path, Err: ErrProgramDoesNotFitIntoMemory}
	}

	return program, nil
}

// FontAddress returns the address of the glyph for the hex digit d
func FontAddress(d byte) uint16 {
	return startOfFont + glyphSize*uint16(d)
}

func loadCharactersInto(mem *Memory) {
	copy(mem[startOfFont:], []byte{
		// 0
		0xF0, 0x90, 0x90, 0x90, 0xF0,
		// 1
		0x20, 0x60, 0x20, 0x20, 0x70,
		// 2
		0xF0, 0x10, 0xF0, 0x80, 0xF0,
		// 3
		0xF0, 0x10, 0xF0, 0x10, 0xF0,
		// 4
		0x90, 0x90, 0xF0, 0x10, 0x10,
		// 5
		0xF0, 0x80, 0xF0, 0x10, 0xF0,
		// 6
		0xF0, 0x80, 0xF0, 0x90, 0xF0,
		// 7
		0xF0, 0x10, 0x20, 0x40, 0x40,
		// 8
		0xF0, 0x90, 0xF0, 0x90, 0xF0,
		// 9
		0xF0, 0x90, 0xF0, 0x10, 0xF0,
		// A
		0xF0, 0x90, 0xF0, 0x90, 0x90,
		// B
		0xE0, 0x90, 0xE0, 0x90, 0xE0,
		// C
		0xF0, 0x80, 0x80, 0x80, 0xF0,
		// D
		0xE0, 0x90, 0x90, 0x90, 0xE0,
		// E
		0xF0, 0x80, 0xF0, 0x80, 0xF0,
		// F
		0xF0, 0x80, 0xF0, 0x80, 0x80})
}
