package vm

import "fmt"

type word uint16

type cpuFlag word

// general purpose registers
const (
	R0 = 0b000
	R1 = 0b001
	R2 = 0b010
	R3 = 0b011
	R4 = 0b100
	R5 = 0b101
	R6 = 0b110
	R7 = 0b111
)

// condition flags, laid out to match the nzp mask of BR
const (
	FLAG_POS cpuFlag = 0b001
	FLAG_ZRO cpuFlag = 0b010
	FLAG_NEG cpuFlag = 0b100
)

func (f cpuFlag) String() string {
	switch f {
	case FLAG_POS:
		return "P"
	case FLAG_ZRO:
		return "Z"
	case FLAG_NEG:
		return "N"
	}
	return fmt.Sprintf("?%03b", word(f))
}

// Registers is the register file: R0-R7, the program counter and the
// condition flags. Cond holds exactly one flag once initialised.
type Registers struct {
	gpr  [8]word
	pc   word
	cond cpuFlag
}

func newRegisters(pc word) Registers {
	return Registers{pc: pc, cond: FLAG_ZRO}
}

// Get returns a general purpose register; only the low three bits of index are used.
func (r *Registers) Get(index word) word {
	return r.gpr[index&0b111]
}

func (r *Registers) Set(index, value word) {
	r.gpr[index&0b111] = value
}

func (r *Registers) PC() word {
	return r.pc
}

func (r *Registers) SetPC(value word) {
	r.pc = value
}

func (r *Registers) Cond() cpuFlag {
	return r.cond
}

// UpdateFlags sets the condition flags from the value in register index.
func (r *Registers) UpdateFlags(index word) {
	r.cond = flagOf(r.Get(index))
}

func flagOf(value word) cpuFlag {
	if value == 0 {
		return FLAG_ZRO
	} else if value>>15 != 0 {
		return FLAG_NEG
	}
	return FLAG_POS
}
