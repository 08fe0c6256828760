package x86

func init() {
	opcodeTable[0xCC] = opINT3
	opcodeTable[0xCD] = opINT
	opcodeTable[0xCE] = opINTO
	opcodeTable[0xCF] = opIRET
}

func opINT(c *CPU) {
	c.interrupt(c.fetch8())
}

func opINT3(c *CPU) {
	c.interrupt(3)
}

// opINTO raises INT 4 only when OF is set.
func opINTO(c *CPU) {
	if c.getFlag(FlagOF) {
		c.interrupt(4)
	}
}

// interrupt dispatches a software interrupt. Emulated services run
// first: when one handles the call it commits state as if the handler
// had returned, and the vector table is never consulted. Everything
// else vectors through the IVT: push FLAGS, CS and the post-INT IP,
// clear IF and TF, and load CS:IP from the 4-byte entry at n*4.
func (c *CPU) interrupt(n uint8) {
	if c.serviceInterrupt(n) {
		return
	}

	c.push16(c.reg.Flags)
	c.push16(c.reg.CS)
	c.push16(c.reg.IP)
	c.setFlag(FlagIF, false)
	c.setFlag(FlagTF, false)

	entry := uint32(n) * 4
	c.reg.IP = c.mem.ReadU16(entry)
	c.reg.CS = c.mem.ReadU16(entry + 2)
}

// opIRET pops IP, CS and FLAGS, restoring only the meaningful flag
// bits.
func opIRET(c *CPU) {
	c.reg.IP = c.pop16()
	c.reg.CS = c.pop16()
	c.loadFlags(c.pop16())
}
