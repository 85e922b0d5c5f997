// Package vm emulates the LC-3, a 16-bit educational computer.
package vm

import (
	"context"
	"fmt"
	goIO "io"
	"log"
)

// Config selects the devices and options of a VM. The zero value runs
// from UserSpaceStart on the process stdin and stdout.
type Config struct {
	// Origin is the initial program counter; zero selects UserSpaceStart.
	Origin uint16
	Input  goIO.Reader
	Output goIO.Writer
	// Logger receives load messages and, with Trace, one line per instruction.
	Logger *log.Logger
	Trace  bool
	// MaxSteps stops Run with ErrStepLimit; zero is unlimited.
	MaxSteps uint64
}

type VM struct {
	memory Memory
	cpu    cpu
	logger *log.Logger
}

func NewVM(config Config) *VM {
	origin := word(config.Origin)
	if origin == 0 {
		origin = UserSpaceStart
	}
	logger := config.Logger
	if logger == nil {
		logger = log.New(goIO.Discard, "", 0)
	}

	vm := &VM{logger: logger}
	vm.cpu = newCpu(&vm.memory, newConsole(config.Input, config.Output), origin)
	vm.cpu.maxSteps = config.MaxSteps
	if config.Trace {
		vm.cpu.trace = logger
	}
	return vm
}

// Run executes until HALT, a fatal machine error, or cancellation of ctx.
func (vm *VM) Run(ctx context.Context) error {
	return vm.cpu.run(ctx)
}

// Step executes a single instruction.
func (vm *VM) Step(ctx context.Context) error {
	return vm.cpu.step(ctx)
}

func (vm *VM) Halted() bool {
	return vm.cpu.halted()
}

// Registers exposes the register file.
func (vm *VM) Registers() *Registers {
	return &vm.cpu.regs
}

func (vm *VM) Memory() *Memory {
	return &vm.memory
}

// Steps is the number of instructions fetched so far.
func (vm *VM) Steps() uint64 {
	return vm.cpu.steps
}

// Dump writes the register file in a human readable form.
func (vm *VM) Dump(w goIO.Writer) {
	regs := &vm.cpu.regs
	for i := word(R0); i <= R7; i++ {
		fmt.Fprintf(w, "R%d: 0x%04x\n", i, regs.Get(i))
	}
	fmt.Fprintf(w, "PC: 0x%04x\nCOND: %v\n", regs.PC(), regs.Cond())
}
