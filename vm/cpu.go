package vm

import (
	"context"
	"log"
)

type cpuState int

const (
	stateRunning cpuState = iota
	stateHalted
)

type cpu struct {
	state  cpuState
	memory *Memory
	regs   Registers
	io     *console

	trace    *log.Logger
	steps    uint64
	maxSteps uint64
}

func newCpu(memory *Memory, io *console, origin word) cpu {
	return cpu{
		state:  stateRunning,
		memory: memory,
		regs:   newRegisters(origin),
		io:     io,
	}
}

func (cpu *cpu) stop() {
	cpu.state = stateHalted
}

func (cpu *cpu) halted() bool {
	return cpu.state == stateHalted
}

// run steps the cpu until it halts, fails, or ctx is cancelled.
func (cpu *cpu) run(ctx context.Context) error {
	for !cpu.halted() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if cpu.maxSteps != 0 && cpu.steps >= cpu.maxSteps {
			return ErrStepLimit
		}
		if err := cpu.step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// step fetches, decodes and executes one instruction. Any error leaves the
// cpu halted.
func (cpu *cpu) step(ctx context.Context) error {
	if cpu.halted() {
		return ErrHalted
	}

	addr := cpu.regs.PC()
	instruction := cpu.memRead(addr)
	cpu.regs.SetPC(addr + 1)
	cpu.steps++

	in := decode(instruction)
	if cpu.trace != nil {
		cpu.trace.Printf("0x%04x %v", addr, in)
	}

	err := cpu.execute(ctx, addr, in)
	if err != nil {
		cpu.stop()
	}
	return err
}

func (cpu *cpu) execute(ctx context.Context, addr word, in instruction) error {
	regs := &cpu.regs

	switch in.Op {
	case OP_ADD:
		if in.Imm {
			regs.Set(in.DR, regs.Get(in.SR1)+in.Imm5)
		} else {
			regs.Set(in.DR, regs.Get(in.SR1)+regs.Get(in.SR2))
		}
		regs.UpdateFlags(in.DR)

	case OP_AND:
		if in.Imm {
			regs.Set(in.DR, regs.Get(in.SR1)&in.Imm5)
		} else {
			regs.Set(in.DR, regs.Get(in.SR1)&regs.Get(in.SR2))
		}
		regs.UpdateFlags(in.DR)

	case OP_NOT:
		regs.Set(in.DR, ^regs.Get(in.SR1))
		regs.UpdateFlags(in.DR)

	case OP_BR:
		if in.NZP&word(regs.Cond()) != 0 {
			regs.SetPC(regs.PC() + in.Offset)
		}

	case OP_JMP:
		regs.SetPC(regs.Get(in.SR1))

	case OP_JSR:
		// read the base register before R7 is overwritten, for JSRR R7
		target := regs.Get(in.SR1)
		if in.Imm {
			target = regs.PC() + in.Offset
		}
		regs.Set(R7, regs.PC())
		regs.SetPC(target)

	case OP_LD:
		regs.Set(in.DR, cpu.memRead(regs.PC()+in.Offset))
		regs.UpdateFlags(in.DR)

	case OP_LDI:
		regs.Set(in.DR, cpu.memRead(cpu.memRead(regs.PC()+in.Offset)))
		regs.UpdateFlags(in.DR)

	case OP_LDR:
		regs.Set(in.DR, cpu.memRead(regs.Get(in.SR1)+in.Offset))
		regs.UpdateFlags(in.DR)

	case OP_LEA:
		regs.Set(in.DR, regs.PC()+in.Offset)
		regs.UpdateFlags(in.DR)

	case OP_ST:
		cpu.memWrite(regs.PC()+in.Offset, regs.Get(in.DR))

	case OP_STI:
		cpu.memWrite(cpu.memRead(regs.PC()+in.Offset), regs.Get(in.DR))

	case OP_STR:
		cpu.memWrite(regs.Get(in.SR1)+in.Offset, regs.Get(in.DR))

	case OP_TRAP:
		regs.Set(R7, regs.PC())
		return cpu.trap(ctx, addr, in.Vector)

	case OP_RTI, OP_RES:
		return &OpcodeError{Addr: addr, Instr: in.Raw}

	default:
		return &OpcodeError{Addr: addr, Instr: in.Raw}
	}
	return nil
}

// memWrite stores value; the keyboard registers are read only.
func (cpu *cpu) memWrite(addr, value word) {
	if addr == KBSR || addr == KBDR {
		return
	}
	cpu.memory.Write(addr, value)
}

// memRead loads a word, refreshing the keyboard registers when they are read.
func (cpu *cpu) memRead(addr word) word {
	switch addr {
	case KBSR:
		if cpu.io.keyReady() {
			cpu.memory.Write(KBSR, 1<<15)
			cpu.memory.Write(KBDR, word(cpu.io.pending))
		} else {
			cpu.memory.Write(KBSR, 0)
		}
	case KBDR:
		if cpu.io.hasPending {
			cpu.memory.Write(KBDR, word(cpu.io.takeKey()))
		}
		cpu.memory.Write(KBSR, 0)
	}
	return cpu.memory.Read(addr)
}
