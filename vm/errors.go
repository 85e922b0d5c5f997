package vm

import (
	"errors"

	"github.com/aryanA101a/lulu/translate"
)

var f = translate.From

var (
	ErrInvalidOpcode = errors.New(f("invalid opcode"))
	ErrInvalidTrap   = errors.New(f("invalid trap vector"))
	ErrImageLoad     = errors.New(f("image load"))
	ErrConsoleIO     = errors.New(f("console i/o"))
	ErrHalted        = errors.New(f("machine halted"))
	ErrStepLimit     = errors.New(f("step limit reached"))
)

// OpcodeError reports a reserved opcode and where it was fetched from.
type OpcodeError struct {
	Addr  word
	Instr word
}

func (err *OpcodeError) Error() string {
	return f("0x%04x: %v %v (x%04X)", err.Addr, ErrInvalidOpcode, opcode(err.Instr>>12), err.Instr)
}

func (err *OpcodeError) Unwrap() error {
	return ErrInvalidOpcode
}

// TrapError reports a TRAP to an unknown vector.
type TrapError struct {
	Addr   word
	Vector word
}

func (err *TrapError) Error() string {
	return f("0x%04x: %v x%02X", err.Addr, ErrInvalidTrap, err.Vector)
}

func (err *TrapError) Unwrap() error {
	return ErrInvalidTrap
}

type ImageError struct {
	Path string
	Err  error
}

func (err *ImageError) Error() string {
	return f("%v %v: %v", ErrImageLoad, err.Path, err.Err)
}

func (err *ImageError) Unwrap() []error {
	return []error{ErrImageLoad, err.Err}
}

// ConsoleError wraps a failed read or write made by a trap routine.
type ConsoleError struct {
	Op  string
	Err error
}

func (err *ConsoleError) Error() string {
	return f("%v %v: %v", ErrConsoleIO, err.Op, err.Err)
}

func (err *ConsoleError) Unwrap() []error {
	return []error{ErrConsoleIO, err.Err}
}

var (
	errImageShort = errors.New(f("file is too short"))
	errImageOdd   = errors.New(f("odd number of bytes"))
	errImageLarge = errors.New(f("image runs past the end of memory"))
)
