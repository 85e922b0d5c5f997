package vm

import (
	"bytes"
	"strings"
	"testing"
)

// instruction encoders for hand written test programs

func opADD(dr, sr1, sr2 word) word { return 0x1000 | dr<<9 | sr1<<6 | sr2 }
func opADDi(dr, sr1 word, imm int) word {
	return 0x1000 | dr<<9 | sr1<<6 | 1<<5 | word(imm)&0x1F
}
func opAND(dr, sr1, sr2 word) word { return 0x5000 | dr<<9 | sr1<<6 | sr2 }
func opANDi(dr, sr1 word, imm int) word {
	return 0x5000 | dr<<9 | sr1<<6 | 1<<5 | word(imm)&0x1F
}
func opNOT(dr, sr word) word { return 0x903F | dr<<9 | sr<<6 }
func opBR(nzp word, off int) word { return nzp<<9 | word(off)&0x1FF }
func opJMP(base word) word { return 0xC000 | base<<6 }
func opJSR(off int) word { return 0x4800 | word(off)&0x7FF }
func opJSRR(base word) word { return 0x4000 | base<<6 }
func opLD(dr word, off int) word { return 0x2000 | dr<<9 | word(off)&0x1FF }
func opLDI(dr word, off int) word { return 0xA000 | dr<<9 | word(off)&0x1FF }
func opLEA(dr word, off int) word { return 0xE000 | dr<<9 | word(off)&0x1FF }
func opST(sr word, off int) word { return 0x3000 | sr<<9 | word(off)&0x1FF }
func opSTI(sr word, off int) word { return 0xB000 | sr<<9 | word(off)&0x1FF }
func opLDR(dr, base word, off int) word { return 0x6000 | dr<<9 | base<<6 | word(off)&0x3F }
func opSTR(sr, base word, off int) word { return 0x7000 | sr<<9 | base<<6 | word(off)&0x3F }
func opTRAP(vector word) word { return 0xF000 | vector }

// newTestVM builds a VM with program loaded at UserSpaceStart, keyboard
// input from input and display output captured in the returned buffer.
func newTestVM(t *testing.T, input string, program ...word) (*VM, *bytes.Buffer) {
	t.Helper()

	output := &bytes.Buffer{}
	m := NewVM(Config{
		Input:  strings.NewReader(input),
		Output: output,
	})
	m.Memory().Load(UserSpaceStart, program)
	return m, output
}
