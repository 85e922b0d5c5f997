package vm

// MemorySize equals the size of the 16-bit address space, so every word
// value is a valid address and Read/Write cannot fail.
const MemorySize = 1 << 16

const (
	TrapVectorTableStart       = 0x0000
	InterruptVectorTableStart  = 0x0100
	SystemSpaceStart           = 0x0200
	UserSpaceStart             = 0x3000
	MemoryMappedRegistersStart = 0xFE00
)

// Memory is the flat word-addressable store of the machine.
type Memory [MemorySize]word

func (mem *Memory) Write(addr, value word) {
	mem[addr] = value
}

func (mem *Memory) Read(addr word) word {
	return mem[addr]
}

// Load copies words into consecutive cells starting at origin, wrapping at
// the top of the address space.
func (mem *Memory) Load(origin word, words []word) {
	for i, w := range words {
		mem[origin+word(i)] = w
	}
}
