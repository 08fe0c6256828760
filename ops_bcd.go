package x86

func init() {
	opcodeTable[0x27] = opDAA
	opcodeTable[0x2F] = opDAS
	opcodeTable[0x37] = opAAA
	opcodeTable[0x3F] = opAAS
	opcodeTable[0xD4] = opAAM
	opcodeTable[0xD5] = opAAD
}

// opDAA decimal-adjusts AL after a packed-BCD addition: the low nibble
// is corrected by +6 against AF, then the high nibble by +0x60 against
// the pre-adjust AL and CF.
func opDAA(c *CPU) {
	al := c.AL()
	oldAL, oldCF := al, c.getFlag(FlagCF)

	if al&0x0F > 9 || c.getFlag(FlagAF) {
		al += 6
		c.setFlag(FlagAF, true)
	} else {
		c.setFlag(FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al += 0x60
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagCF, false)
	}

	c.SetAL(al)
	c.setSZP(uint32(al), Byte)
}

// opDAS decimal-adjusts AL after a packed-BCD subtraction.
func opDAS(c *CPU) {
	al := c.AL()
	oldAL, oldCF := al, c.getFlag(FlagCF)

	if al&0x0F > 9 || c.getFlag(FlagAF) {
		al -= 6
		c.setFlag(FlagAF, true)
	} else {
		c.setFlag(FlagAF, false)
	}
	if oldAL > 0x99 || oldCF {
		al -= 0x60
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagCF, false)
	}

	c.SetAL(al)
	c.setSZP(uint32(al), Byte)
}

// opAAA ASCII-adjusts AL after an unpacked-BCD addition, carrying into
// AH and masking AL to the low nibble.
func opAAA(c *CPU) {
	if c.AL()&0x0F > 9 || c.getFlag(FlagAF) {
		c.SetAL(c.AL() + 6)
		c.SetAH(c.AH() + 1)
		c.setFlag(FlagAF, true)
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagAF, false)
		c.setFlag(FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
}

// opAAS ASCII-adjusts AL after an unpacked-BCD subtraction, borrowing
// from AH.
func opAAS(c *CPU) {
	if c.AL()&0x0F > 9 || c.getFlag(FlagAF) {
		c.SetAL(c.AL() - 6)
		c.SetAH(c.AH() - 1)
		c.setFlag(FlagAF, true)
		c.setFlag(FlagCF, true)
	} else {
		c.setFlag(FlagAF, false)
		c.setFlag(FlagCF, false)
	}
	c.SetAL(c.AL() & 0x0F)
}

// opAAM splits AL into base-imm digits (AH = AL/imm, AL = AL%imm).
// The immediate is 0x0A in the canonical encoding but any base is
// honored; a zero base is a divide fault.
func opAAM(c *CPU) {
	base := c.fetch8()
	if base == 0 {
		c.divideFault()
		return
	}
	al := c.AL()
	c.SetAH(al / base)
	c.SetAL(al % base)
	c.setSZP(uint32(c.AL()), Byte)
}

// opAAD recombines the unpacked digits: AL = AL + AH*imm, AH = 0.
func opAAD(c *CPU) {
	base := c.fetch8()
	al := c.AL() + c.AH()*base
	c.SetAL(al)
	c.SetAH(0)
	c.setSZP(uint32(al), Byte)
}
