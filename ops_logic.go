package x86

func init() {
	registerTEST()
	registerGroup2()
}

// --- TEST ---

func registerTEST() {
	opcodeTable[0x84] = opTESTRmReg
	opcodeTable[0x85] = opTESTRmReg
	opcodeTable[0xA8] = opTESTAccImm
	opcodeTable[0xA9] = opTESTAccImm
}

func opTESTRmReg(c *CPU) {
	sz := opSize(c.opcode)
	reg, rm := c.fetchModRM()
	c.setFlagsLogical(rm.read(c, sz)&c.getReg(reg, sz), sz)
}

func opTESTAccImm(c *CPU) {
	sz := opSize(c.opcode)
	imm := c.fetchImm(sz)
	c.setFlagsLogical(c.getReg(0, sz)&imm, sz)
}

// --- Group 2: shifts and rotates (0xD0-0xD3) ---

func registerGroup2() {
	opcodeTable[0xD0] = opGroup2 // r/m8, 1
	opcodeTable[0xD1] = opGroup2 // r/m16, 1
	opcodeTable[0xD2] = opGroup2 // r/m8, CL
	opcodeTable[0xD3] = opGroup2 // r/m16, CL
}

func opGroup2(c *CPU) {
	sz := opSize(c.opcode)
	op, rm := c.fetchModRM()

	count := uint32(1)
	if c.opcode >= 0xD2 {
		count = uint32(c.CL())
	}
	if count == 0 {
		// Zero-count shifts touch neither the operand nor the flags.
		return
	}

	v := rm.read(c, sz)
	var r uint32
	switch op {
	case 0:
		r = c.rol(v, count, sz)
	case 1:
		r = c.ror(v, count, sz)
	case 2:
		r = c.rcl(v, count, sz)
	case 3:
		r = c.rcr(v, count, sz)
	case 4, 6: // SHL; /6 is the undocumented SAL alias
		r = c.shl(v, count, sz)
	case 5:
		r = c.shr(v, count, sz)
	case 7:
		r = c.sar(v, count, sz)
	}
	rm.write(c, sz, r)
}

// Shifts set CF to the last bit shifted out and recompute SF/ZF/PF.
// OF is defined only for single-bit shifts; for longer counts it is
// architecturally undefined and left unchanged.

func (c *CPU) shl(v, count uint32, sz Size) uint32 {
	var cf bool
	for i := uint32(0); i < count; i++ {
		cf = v&sz.MSB() != 0
		v = (v << 1) & sz.Mask()
	}
	c.setFlag(FlagCF, cf)
	if count == 1 {
		c.setFlag(FlagOF, cf != (v&sz.MSB() != 0))
	}
	c.setSZP(v, sz)
	return v
}

func (c *CPU) shr(v, count uint32, sz Size) uint32 {
	orig := v
	var cf bool
	for i := uint32(0); i < count; i++ {
		cf = v&1 != 0
		v >>= 1
	}
	c.setFlag(FlagCF, cf)
	if count == 1 {
		c.setFlag(FlagOF, orig&sz.MSB() != 0)
	}
	c.setSZP(v, sz)
	return v
}

func (c *CPU) sar(v, count uint32, sz Size) uint32 {
	msb := sz.MSB()
	var cf bool
	for i := uint32(0); i < count; i++ {
		cf = v&1 != 0
		v = (v >> 1) | (v & msb)
	}
	c.setFlag(FlagCF, cf)
	if count == 1 {
		c.setFlag(FlagOF, false)
	}
	c.setSZP(v, sz)
	return v
}

// Rotates set CF to the bit rotated into it and leave SF/ZF/PF alone.
// OF is defined only for single-bit rotates: the XOR of the two top
// result bits (ROR/RCR) or of the result MSB and the new CF (ROL/RCL).

func (c *CPU) rol(v, count uint32, sz Size) uint32 {
	bits := sz.Bits()
	for i := uint32(0); i < count; i++ {
		v = ((v << 1) | (v >> (bits - 1))) & sz.Mask()
	}
	cf := v&1 != 0
	c.setFlag(FlagCF, cf)
	if count == 1 {
		c.setFlag(FlagOF, (v&sz.MSB() != 0) != cf)
	}
	return v
}

func (c *CPU) ror(v, count uint32, sz Size) uint32 {
	bits := sz.Bits()
	for i := uint32(0); i < count; i++ {
		v = ((v >> 1) | (v << (bits - 1))) & sz.Mask()
	}
	c.setFlag(FlagCF, v&sz.MSB() != 0)
	if count == 1 {
		top := v & sz.MSB()
		next := v & (sz.MSB() >> 1)
		c.setFlag(FlagOF, (top != 0) != (next != 0))
	}
	return v
}

func (c *CPU) rcl(v, count uint32, sz Size) uint32 {
	msb := sz.MSB()
	cf := c.flagBit(FlagCF)
	for i := uint32(0); i < count; i++ {
		newCF := (v & msb) >> (sz.Bits() - 1)
		v = ((v << 1) | cf) & sz.Mask()
		cf = newCF
	}
	c.setFlag(FlagCF, cf != 0)
	if count == 1 {
		c.setFlag(FlagOF, (v&msb != 0) != (cf != 0))
	}
	return v
}

func (c *CPU) rcr(v, count uint32, sz Size) uint32 {
	msb := sz.MSB()
	cf := c.flagBit(FlagCF)
	for i := uint32(0); i < count; i++ {
		newCF := v & 1
		v = (v >> 1) | (cf << (sz.Bits() - 1))
		cf = newCF
	}
	c.setFlag(FlagCF, cf != 0)
	if count == 1 {
		top := v & msb
		next := v & (msb >> 1)
		c.setFlag(FlagOF, (top != 0) != (next != 0))
	}
	return v
}
