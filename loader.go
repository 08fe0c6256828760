package x86

// Program images load at 0000:0100, the classic DOS .COM entry point.
const (
	LoadSegment = 0x0000
	LoadOffset  = 0x0100

	// MaxProgramSize bounds a program image; longer inputs are
	// truncated (the same clamp the network frame applies).
	MaxProgramSize = 65536
)

// Load copies a program image into memory at 0000:0100 and establishes
// the entry point: CS=0000, IP=0100, every other register and flag
// zero.
func (c *CPU) Load(program []byte) {
	if len(program) > MaxProgramSize {
		program = program[:MaxProgramSize]
	}
	base := physical(LoadSegment, LoadOffset)
	copy(c.mem[base:], program)

	// INT 20h at 0000:0000, the DOS program-terminate sentinel. A
	// program that pushes a zero return address and RETs lands here and
	// exits cleanly.
	c.mem.WriteU8(0x0000, 0xCD)
	c.mem.WriteU8(0x0001, 0x20)

	c.Reset()
	c.reg.CS = LoadSegment
	c.reg.IP = LoadOffset
}
