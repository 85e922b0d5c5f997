package vm

import "context"

const (
	TRAP_GETC  word = 0x20 /* get character from keyboard, not echoed onto the terminal */
	TRAP_OUT   word = 0x21 /* output a character */
	TRAP_PUTS  word = 0x22 /* output a word string */
	TRAP_IN    word = 0x23 /* get character from keyboard, echoed onto the terminal */
	TRAP_PUTSP word = 0x24 /* output a byte string */
	TRAP_HALT  word = 0x25 /* halt the program */
)

const inPrompt = "Enter a character: "

// trap runs the service routine for vector. addr is the address of the
// TRAP instruction, used for error reports.
func (cpu *cpu) trap(ctx context.Context, addr, vector word) error {
	switch vector {
	case TRAP_GETC:
		c, err := cpu.io.getChar(ctx)
		if err != nil {
			return err
		}
		cpu.regs.Set(R0, word(c))
		cpu.regs.UpdateFlags(R0)

	case TRAP_OUT:
		if err := cpu.io.write([]byte{byte(cpu.regs.Get(R0))}); err != nil {
			return err
		}
		return cpu.io.flush()

	case TRAP_PUTS:
		out := []byte{}
		cpu.scanString(func(c word) {
			out = append(out, byte(c))
		})
		if err := cpu.io.write(out); err != nil {
			return err
		}
		return cpu.io.flush()

	case TRAP_IN:
		if err := cpu.io.write([]byte(inPrompt)); err != nil {
			return err
		}
		if err := cpu.io.flush(); err != nil {
			return err
		}
		c, err := cpu.io.getChar(ctx)
		if err != nil {
			return err
		}
		if err := cpu.io.write([]byte{c}); err != nil {
			return err
		}
		cpu.regs.Set(R0, word(c))
		cpu.regs.UpdateFlags(R0)
		return cpu.io.flush()

	case TRAP_PUTSP:
		out := []byte{}
		cpu.scanString(func(c word) {
			out = append(out, byte(c))
			if c>>8 != 0 {
				out = append(out, byte(c>>8))
			}
		})
		if err := cpu.io.write(out); err != nil {
			return err
		}
		return cpu.io.flush()

	case TRAP_HALT:
		if err := cpu.io.write([]byte("HALT\n")); err != nil {
			return err
		}
		cpu.stop()
		return cpu.io.flush()

	default:
		return &TrapError{Addr: addr, Vector: vector}
	}
	return nil
}

// scanString calls emit for each cell from R0 up to the terminating zero.
// At most one full pass over memory is made.
func (cpu *cpu) scanString(emit func(c word)) {
	addr := cpu.regs.Get(R0)
	for range MemorySize {
		c := cpu.memRead(addr)
		if c == 0 {
			return
		}
		emit(c)
		addr++
	}
}
