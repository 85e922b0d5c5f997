package vm

import "fmt"

type opcode word

// opcodes, in encoding order
const (
	OP_BR opcode = iota
	OP_ADD
	OP_LD
	OP_ST
	OP_JSR
	OP_AND
	OP_LDR
	OP_STR
	OP_RTI
	OP_NOT
	OP_LDI
	OP_STI
	OP_JMP
	OP_RES
	OP_LEA
	OP_TRAP
)

var opcodeNames = [...]string{
	OP_BR:   "BR",
	OP_ADD:  "ADD",
	OP_LD:   "LD",
	OP_ST:   "ST",
	OP_JSR:  "JSR",
	OP_AND:  "AND",
	OP_LDR:  "LDR",
	OP_STR:  "STR",
	OP_RTI:  "RTI",
	OP_NOT:  "NOT",
	OP_LDI:  "LDI",
	OP_STI:  "STI",
	OP_JMP:  "JMP",
	OP_RES:  "RES",
	OP_LEA:  "LEA",
	OP_TRAP: "TRAP",
}

func (op opcode) String() string {
	return opcodeNames[op&0xF]
}

// instruction is one decoded instruction word. Only the fields used by Op
// are meaningful; offsets and immediates are already sign extended.
type instruction struct {
	Raw word
	Op  opcode

	DR   word // destination, or source for the stores
	SR1  word // first source, or base register
	SR2  word
	Imm  bool // ADD/AND immediate mode, JSR pc-relative mode
	Imm5 word

	NZP    word
	Offset word // pc_offset9, pc_offset11 or offset6
	Vector word
}

// decode splits an instruction word into its operand fields.
func decode(instr word) instruction {
	in := instruction{Raw: instr, Op: opcode(instr >> 12)}

	switch in.Op {
	case OP_ADD, OP_AND:
		in.DR = (instr >> 9) & 0b111
		in.SR1 = (instr >> 6) & 0b111
		in.Imm = (instr>>5)&0b1 == 1
		if in.Imm {
			in.Imm5 = sext(instr&0x1F, 5)
		} else {
			in.SR2 = instr & 0b111
		}

	case OP_NOT:
		in.DR = (instr >> 9) & 0b111
		in.SR1 = (instr >> 6) & 0b111

	case OP_BR:
		in.NZP = (instr >> 9) & 0b111
		in.Offset = sext(instr&0x1FF, 9)

	case OP_JMP:
		in.SR1 = (instr >> 6) & 0b111

	case OP_JSR:
		in.Imm = (instr>>11)&0b1 == 1
		if in.Imm {
			in.Offset = sext(instr&0x7FF, 11)
		} else {
			in.SR1 = (instr >> 6) & 0b111
		}

	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		in.DR = (instr >> 9) & 0b111
		in.Offset = sext(instr&0x1FF, 9)

	case OP_LDR, OP_STR:
		in.DR = (instr >> 9) & 0b111
		in.SR1 = (instr >> 6) & 0b111
		in.Offset = sext(instr&0x3F, 6)

	case OP_TRAP:
		in.Vector = instr & 0xFF

	case OP_RTI, OP_RES:
	}

	return in
}

// sext sign extends the low bitCount bits of x to 16 bits.
func sext(x, bitCount word) word {
	if ((x >> (bitCount - 1)) & 0b1) != 0 {
		x |= (0xFFFF << bitCount)
	}
	return x
}

// String renders the instruction as LC-3 assembly with decimal offsets.
func (in instruction) String() string {
	switch in.Op {
	case OP_ADD, OP_AND:
		if in.Imm {
			return fmt.Sprintf("%v R%d, R%d, #%d", in.Op, in.DR, in.SR1, int16(in.Imm5))
		}
		return fmt.Sprintf("%v R%d, R%d, R%d", in.Op, in.DR, in.SR1, in.SR2)
	case OP_NOT:
		return fmt.Sprintf("NOT R%d, R%d", in.DR, in.SR1)
	case OP_BR:
		if in.NZP == 0 {
			return fmt.Sprintf("NOP #%d", int16(in.Offset))
		}
		return fmt.Sprintf("BR%s #%d", nzpString(in.NZP), int16(in.Offset))
	case OP_JMP:
		if in.SR1 == R7 {
			return "RET"
		}
		return fmt.Sprintf("JMP R%d", in.SR1)
	case OP_JSR:
		if in.Imm {
			return fmt.Sprintf("JSR #%d", int16(in.Offset))
		}
		return fmt.Sprintf("JSRR R%d", in.SR1)
	case OP_LD, OP_LDI, OP_LEA, OP_ST, OP_STI:
		return fmt.Sprintf("%v R%d, #%d", in.Op, in.DR, int16(in.Offset))
	case OP_LDR, OP_STR:
		return fmt.Sprintf("%v R%d, R%d, #%d", in.Op, in.DR, in.SR1, int16(in.Offset))
	case OP_TRAP:
		return fmt.Sprintf("TRAP x%02X", in.Vector)
	}
	return fmt.Sprintf("%v x%04X", in.Op, in.Raw)
}

func nzpString(nzp word) string {
	s := ""
	if nzp&word(FLAG_NEG) != 0 {
		s += "n"
	}
	if nzp&word(FLAG_ZRO) != 0 {
		s += "z"
	}
	if nzp&word(FLAG_POS) != 0 {
		s += "p"
	}
	return s
}
